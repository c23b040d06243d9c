package models

import (
	"encoding/json"
	"sort"
	"time"
)

// Phase is the stage a conversation is in.
type Phase string

const (
	PhaseInitial        Phase = "initial"
	PhaseDiscovery      Phase = "discovery"
	PhaseFiltering      Phase = "filtering"
	PhaseRecommendation Phase = "recommendation"
	PhaseRefinement     Phase = "refinement"
)

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseInitial, PhaseDiscovery, PhaseFiltering, PhaseRecommendation, PhaseRefinement:
		return true
	}
	return false
}

// BudgetSource records where a budget window came from.
type BudgetSource string

const (
	BudgetFromPurpose  BudgetSource = "purpose_default"
	BudgetFromExplicit BudgetSource = "explicit"
)

type BudgetRange struct {
	Min    float64      `json:"min"`
	Max    float64      `json:"max"`
	Source BudgetSource `json:"source,omitempty"`
}

// Midpoint returns the centre of the window.
func (b BudgetRange) Midpoint() float64 {
	return (b.Min + b.Max) / 2
}

// Preferences is the structured signal collected over a conversation.
type Preferences struct {
	Budget     *BudgetRange      `json:"budget,omitempty"`
	Purposes   []string          `json:"purposes,omitempty"`
	Brands     []string          `json:"brands,omitempty"`
	Specs      map[string]string `json:"specs,omitempty"`
	Priorities []string          `json:"priorities,omitempty"`
}

// IsEmpty reports whether no preference has been collected yet.
func (p Preferences) IsEmpty() bool {
	return p.Budget == nil && len(p.Purposes) == 0 && len(p.Brands) == 0 &&
		len(p.Specs) == 0 && len(p.Priorities) == 0
}

// HasPurpose reports whether purpose was collected.
func (p Preferences) HasPurpose(purpose string) bool {
	for _, existing := range p.Purposes {
		if existing == purpose {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (p Preferences) Clone() Preferences {
	out := Preferences{
		Purposes:   append([]string(nil), p.Purposes...),
		Brands:     append([]string(nil), p.Brands...),
		Priorities: append([]string(nil), p.Priorities...),
	}
	if p.Budget != nil {
		budget := *p.Budget
		out.Budget = &budget
	}
	if p.Specs != nil {
		out.Specs = make(map[string]string, len(p.Specs))
		for k, v := range p.Specs {
			out.Specs[k] = v
		}
	}
	return out
}

// Merge applies a delta shallowly: every non-empty field of the delta
// replaces the corresponding field wholesale. Nothing is ever removed.
func (p *Preferences) Merge(delta PreferenceDelta) bool {
	changed := false
	if delta.Budget != nil {
		budget := *delta.Budget
		p.Budget = &budget
		changed = true
	}
	if len(delta.Purposes) > 0 {
		p.Purposes = uniqueSorted(delta.Purposes)
		changed = true
	}
	if len(delta.Brands) > 0 {
		p.Brands = uniqueSorted(delta.Brands)
		changed = true
	}
	if len(delta.Specs) > 0 {
		if p.Specs == nil {
			p.Specs = make(map[string]string, len(delta.Specs))
		}
		for k, v := range delta.Specs {
			p.Specs[k] = v
		}
		changed = true
	}
	if len(delta.Priorities) > 0 {
		p.Priorities = uniqueSorted(append(append([]string(nil), p.Priorities...), delta.Priorities...))
		changed = true
	}
	return changed
}

// Fingerprint is a stable serialisation used for cache keys and change detection.
func (p Preferences) Fingerprint() string {
	data, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(data)
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// PreferenceDelta is what a single utterance (or a model patch) contributes.
type PreferenceDelta struct {
	Budget     *BudgetRange      `json:"budget,omitempty"`
	Purposes   []string          `json:"purposes,omitempty"`
	Brands     []string          `json:"brands,omitempty"`
	Specs      map[string]string `json:"specs,omitempty"`
	Priorities []string          `json:"priorities,omitempty"`
}

// IsEmpty reports whether the delta carries nothing.
func (d PreferenceDelta) IsEmpty() bool {
	return d.Budget == nil && len(d.Purposes) == 0 && len(d.Brands) == 0 &&
		len(d.Specs) == 0 && len(d.Priorities) == 0
}

// ConversationSession is the per-session state owned by the orchestrator.
type ConversationSession struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Phase       Phase       `json:"phase"`
	TurnCount   int         `json:"turn_count"`
	Preferences Preferences `json:"collected_preferences"`

	// ConfirmedFingerprint is the preference fingerprint last echoed back
	// in a confirmation summary; empty until the first summary.
	ConfirmedFingerprint string `json:"confirmed_fingerprint,omitempty"`
	Confirmed            bool   `json:"confirmed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AwaitingConfirmation reports whether a summary is pending an answer.
func (s *ConversationSession) AwaitingConfirmation() bool {
	return s.ConfirmedFingerprint != "" && !s.Confirmed && s.Phase == PhaseDiscovery
}

// Affordance is a UI action offered alongside a response.
type Affordance struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// TurnRequest is one conversational exchange from a user.
type TurnRequest struct {
	UserID    string                 `json:"user_id" validate:"required,max=128"`
	Message   string                 `json:"message" validate:"required,min=1,max=2000"`
	SessionID string                 `json:"session_id,omitempty" validate:"omitempty,max=128"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// TurnResponse is what processTurn returns.
type TurnResponse struct {
	Response        string            `json:"response"`
	SessionID       string            `json:"session_id"`
	Phase           Phase             `json:"phase"`
	Affordances     []Affordance      `json:"affordances"`
	Recommendations []ScoredCandidate `json:"recommendations"`
	DatabaseFilter  *CatalogFilter    `json:"database_filter,omitempty"`
	CacheHit        bool              `json:"cache_hit"`
	Degraded        bool              `json:"-"`
}
