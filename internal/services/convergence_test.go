package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/temcen/laptop-advisor/pkg/models"
)

func TestApplyConvergencePolicy(t *testing.T) {
	gaming := gamingPrefs()
	withDell := gamingPrefs()
	withDell.Brands = []string{"Dell"}
	summarised := gaming.Fingerprint()

	awaiting := models.ConversationSession{
		Phase:                models.PhaseDiscovery,
		TurnCount:            1,
		ConfirmedFingerprint: summarised,
	}
	confirmed := models.ConversationSession{
		Phase:                models.PhaseRecommendation,
		TurnCount:            2,
		ConfirmedFingerprint: summarised,
		Confirmed:            true,
	}

	tests := []struct {
		name        string
		in          ConvergenceInput
		wantAction  ConvergenceAction
		wantPhase   models.Phase
		wantTrigger string
	}{
		{
			name: "first forcing turn asks for confirmation",
			in: ConvergenceInput{
				ModelPhase:  models.PhaseDiscovery,
				Session:     models.ConversationSession{Phase: models.PhaseInitial},
				Preferences: gaming,
			},
			wantAction:  ActionConfirm,
			wantPhase:   models.PhaseDiscovery,
			wantTrigger: "preferences_collected",
		},
		{
			name: "no preferences follows the model",
			in: ConvergenceInput{
				ModelPhase: models.PhaseDiscovery,
				Session:    models.ConversationSession{Phase: models.PhaseInitial},
			},
			wantAction: ActionFollowModel,
			wantPhase:  models.PhaseDiscovery,
		},
		{
			name: "model recommending early without signal is not forced",
			in: ConvergenceInput{
				ModelPhase: models.PhaseRecommendation,
				Session:    models.ConversationSession{Phase: models.PhaseDiscovery, TurnCount: 1},
			},
			wantAction: ActionFollowModel,
			wantPhase:  models.PhaseRecommendation,
		},
		{
			name: "affirmation confirms the summarised preferences",
			in: ConvergenceInput{
				ModelPhase:  models.PhaseRecommendation,
				Session:     awaiting,
				Preferences: gaming,
				Affirmation: true,
			},
			wantAction:  ActionRecommend,
			wantPhase:   models.PhaseRecommendation,
			wantTrigger: "affirmation",
		},
		{
			name: "affirmation with changed preferences re-confirms",
			in: ConvergenceInput{
				ModelPhase:  models.PhaseDiscovery,
				Session:     awaiting,
				Preferences: withDell,
				Affirmation: true,
			},
			wantAction:  ActionConfirm,
			wantPhase:   models.PhaseDiscovery,
			wantTrigger: "affirmation",
		},
		{
			name: "changed preferences while awaiting re-confirm",
			in: ConvergenceInput{
				ModelPhase:  models.PhaseDiscovery,
				Session:     awaiting,
				Preferences: withDell,
			},
			wantAction:  ActionConfirm,
			wantPhase:   models.PhaseDiscovery,
			wantTrigger: "preferences_collected",
		},
		{
			name: "explicit ask bypasses confirmation",
			in: ConvergenceInput{
				ModelPhase:  models.PhaseDiscovery,
				Session:     models.ConversationSession{Phase: models.PhaseInitial},
				Preferences: gaming,
				ExplicitAsk: true,
			},
			wantAction:  ActionRecommend,
			wantPhase:   models.PhaseRecommendation,
			wantTrigger: "explicit_ask",
		},
		{
			name: "confirmed session goes straight to results",
			in: ConvergenceInput{
				ModelPhase:  models.PhaseRefinement,
				Session:     confirmed,
				Preferences: withDell,
			},
			wantAction:  ActionRecommend,
			wantPhase:   models.PhaseRecommendation,
			wantTrigger: "turn_threshold",
		},
		{
			name: "unanswered summary proceeds after enough turns",
			in: ConvergenceInput{
				ModelPhase: models.PhaseDiscovery,
				Session: models.ConversationSession{
					Phase:                models.PhaseDiscovery,
					TurnCount:            3,
					ConfirmedFingerprint: summarised,
				},
				Preferences: gaming,
			},
			wantAction:  ActionRecommend,
			wantPhase:   models.PhaseRecommendation,
			wantTrigger: "sufficient_turns",
		},
		{
			name: "unanswered summary is repeated before enough turns",
			in: ConvergenceInput{
				ModelPhase:  models.PhaseDiscovery,
				Session:     awaiting,
				Preferences: gaming,
			},
			wantAction:  ActionConfirm,
			wantPhase:   models.PhaseDiscovery,
			wantTrigger: "preferences_collected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyConvergencePolicy(tt.in, DefaultConvergenceThresholds())
			assert.Equal(t, tt.wantAction, got.Action)
			assert.Equal(t, tt.wantPhase, got.Phase)
			assert.Equal(t, tt.wantTrigger, got.Trigger)
		})
	}
}

func TestApplyConvergencePolicy_ConfirmationState(t *testing.T) {
	prefs := gamingPrefs()

	first := ApplyConvergencePolicy(ConvergenceInput{
		ModelPhase:  models.PhaseDiscovery,
		Session:     models.ConversationSession{Phase: models.PhaseInitial},
		Preferences: prefs,
	}, DefaultConvergenceThresholds())
	assert.Equal(t, prefs.Fingerprint(), first.ConfirmedFingerprint)
	assert.False(t, first.Confirmed)

	second := ApplyConvergencePolicy(ConvergenceInput{
		ModelPhase: models.PhaseDiscovery,
		Session: models.ConversationSession{
			Phase:                first.Phase,
			TurnCount:            1,
			ConfirmedFingerprint: first.ConfirmedFingerprint,
		},
		Preferences: prefs,
		Affirmation: true,
	}, DefaultConvergenceThresholds())
	assert.True(t, second.Confirmed)
	assert.True(t, second.Forced)
}

func TestApplyConvergencePolicy_IsPure(t *testing.T) {
	in := ConvergenceInput{
		ModelPhase:  models.PhaseDiscovery,
		Session:     models.ConversationSession{Phase: models.PhaseInitial},
		Preferences: gamingPrefs(),
	}
	before := in.Preferences.Fingerprint()

	a := ApplyConvergencePolicy(in, DefaultConvergenceThresholds())
	b := ApplyConvergencePolicy(in, DefaultConvergenceThresholds())

	assert.Equal(t, a, b)
	assert.Equal(t, before, in.Preferences.Fingerprint())
}
