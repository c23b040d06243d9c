package services

import (
	"github.com/temcen/laptop-advisor/pkg/models"
)

// ConvergenceThresholds tune when discovery is forced toward results.
type ConvergenceThresholds struct {
	// ForceTurns is the turn count at which convergence always forces.
	ForceTurns int
	// SufficientTurns lets a shown-but-unanswered summary proceed to results.
	SufficientTurns int
}

func DefaultConvergenceThresholds() ConvergenceThresholds {
	return ConvergenceThresholds{ForceTurns: 2, SufficientTurns: 3}
}

// ConvergenceInput is the state the policy decides over.
type ConvergenceInput struct {
	ModelPhase models.Phase
	// Session is the state before this turn was applied.
	Session     models.ConversationSession
	Preferences models.Preferences
	ExplicitAsk bool
	Affirmation bool
}

type ConvergenceAction string

const (
	// ActionFollowModel keeps the model's phase and text.
	ActionFollowModel ConvergenceAction = "follow_model"
	// ActionConfirm replaces the reply with a preference summary.
	ActionConfirm ConvergenceAction = "confirm"
	// ActionRecommend asks the engine for results.
	ActionRecommend ConvergenceAction = "recommend"
)

// ConvergenceDecision is what the orchestrator applies to the session.
type ConvergenceDecision struct {
	Action  ConvergenceAction
	Phase   models.Phase
	Forced  bool
	Trigger string

	// ConfirmedFingerprint and Confirmed are the session's new confirmation state.
	ConfirmedFingerprint string
	Confirmed            bool
}

// ApplyConvergencePolicy decides the turn's phase from the model's proposal
// and the session state. It has no side effects.
//
// A summary is shown the first time forcing triggers, and again whenever the
// preferences change while a summary is pending. An affirmation confirms
// only the preferences that were summarised. An explicit ask always goes
// straight to results, as does any forcing turn once confirmed.
func ApplyConvergencePolicy(in ConvergenceInput, th ConvergenceThresholds) ConvergenceDecision {
	session := in.Session
	fingerprint := in.Preferences.Fingerprint()
	nonEmpty := !in.Preferences.IsEmpty()

	decision := ConvergenceDecision{
		ConfirmedFingerprint: session.ConfirmedFingerprint,
		Confirmed:            session.Confirmed,
	}

	trigger := ""
	switch {
	case in.ExplicitAsk:
		trigger = "explicit_ask"
	case in.Affirmation && session.AwaitingConfirmation():
		trigger = "affirmation"
	case session.TurnCount >= th.ForceTurns:
		trigger = "turn_threshold"
	case in.ModelPhase != models.PhaseRecommendation && nonEmpty:
		trigger = "preferences_collected"
	}

	if trigger == "" {
		decision.Action = ActionFollowModel
		decision.Phase = modelPhaseOr(in.ModelPhase, session.Phase)
		if decision.Phase == models.PhaseRecommendation && session.Confirmed {
			decision.Action = ActionRecommend
		}
		return decision
	}

	decision.Forced = true
	decision.Trigger = trigger

	recommend := func() ConvergenceDecision {
		decision.Action = ActionRecommend
		decision.Phase = models.PhaseRecommendation
		decision.Confirmed = true
		decision.ConfirmedFingerprint = fingerprint
		return decision
	}
	confirm := func() ConvergenceDecision {
		decision.Action = ActionConfirm
		decision.Phase = models.PhaseDiscovery
		decision.Confirmed = false
		decision.ConfirmedFingerprint = fingerprint
		return decision
	}

	if in.ExplicitAsk || session.Confirmed {
		return recommend()
	}
	if session.ConfirmedFingerprint == "" {
		if !nonEmpty {
			// Nothing to summarise yet.
			decision.Action = ActionFollowModel
			decision.Phase = modelPhaseOr(in.ModelPhase, models.PhaseDiscovery)
			if decision.Phase == models.PhaseRecommendation {
				decision.Phase = models.PhaseDiscovery
			}
			return decision
		}
		return confirm()
	}
	if fingerprint != session.ConfirmedFingerprint {
		return confirm()
	}
	if in.Affirmation {
		decision.Trigger = "affirmation"
		return recommend()
	}
	if session.TurnCount >= th.SufficientTurns && nonEmpty {
		decision.Trigger = "sufficient_turns"
		return recommend()
	}
	return confirm()
}

func modelPhaseOr(phase, fallback models.Phase) models.Phase {
	if phase.Valid() && phase != models.PhaseInitial {
		return phase
	}
	if fallback.Valid() && fallback != models.PhaseInitial {
		return fallback
	}
	return models.PhaseDiscovery
}
