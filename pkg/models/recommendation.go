package models

import "time"

// SubScores are the independently computed scoring factors, each in [0,1].
type SubScores struct {
	Similarity     float64 `json:"similarity"`
	Value          float64 `json:"value"`
	Recency        float64 `json:"recency"`
	Brand          float64 `json:"brand"`
	BudgetFit      float64 `json:"budget_fit"`
	UserPreference float64 `json:"user_preference"`
}

type ScoredCandidate struct {
	Candidate  CandidateProduct `json:"candidate"`
	SubScores  SubScores        `json:"sub_scores"`
	Score      float64          `json:"score"`
	Reasoning  []string         `json:"reasoning"`
	Highlights []string         `json:"highlights"`
	Warnings   []string         `json:"warnings,omitempty"`
}

// WeightProfile controls how sub-scores combine. Components sum to 1.
type WeightProfile struct {
	Performance float64   `json:"performance"`
	Value       float64   `json:"value"`
	Brand       float64   `json:"brand"`
	Specs       float64   `json:"specs"`
	Recency     float64   `json:"recency"`
	Budget      float64   `json:"budget"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// DefaultWeightProfile applies to users with no learned weights.
func DefaultWeightProfile() WeightProfile {
	return WeightProfile{
		Performance: 0.28,
		Value:       0.27,
		Brand:       0.12,
		Specs:       0.18,
		Recency:     0.08,
		Budget:      0.07,
	}
}

// Vector returns the weights in canonical order.
func (w WeightProfile) Vector() []float64 {
	return []float64{w.Performance, w.Value, w.Brand, w.Specs, w.Recency, w.Budget}
}

// WithVector returns a copy carrying v in canonical order.
func (w WeightProfile) WithVector(v []float64) WeightProfile {
	w.Performance, w.Value, w.Brand, w.Specs, w.Recency, w.Budget = v[0], v[1], v[2], v[3], v[4], v[5]
	return w
}

// Vector returns the sub-scores aligned with WeightProfile.Vector.
func (s SubScores) Vector() []float64 {
	return []float64{s.Similarity, s.Value, s.Brand, s.UserPreference, s.Recency, s.BudgetFit}
}

// RecommendationRequest is the direct recommendation call, bypassing conversation.
type RecommendationRequest struct {
	UserID      string      `json:"user_id" validate:"required,max=128"`
	Preferences Preferences `json:"preferences"`
}

// RecommendationResult is what the engine returns.
type RecommendationResult struct {
	Candidates     []ScoredCandidate `json:"recommendations"`
	CandidateCount int               `json:"candidate_count"`
	Filter         CatalogFilter     `json:"filter"`
	RelaxedPrice   bool              `json:"relaxed_price"`
	DroppedBrands  bool              `json:"dropped_brands"`
	GeneratedAt    time.Time         `json:"generated_at"`
}
