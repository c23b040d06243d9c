package scoring

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/laptop-advisor/pkg/models"
)

func testScorer() *Scorer {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewScorer(func() time.Time {
		return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	}, logger)
}

func gamingLaptop(id string, price float64) models.CandidateProduct {
	return models.CandidateProduct{
		ID:    id,
		Name:  "Blade 16 (2024)",
		Brand: "Razer",
		Price: price,
		Specs: models.LaptopSpecs{
			Processor: "Intel Core i9-14900HX",
			RAM:       "16GB DDR5",
			Storage:   "1TB SSD",
			Graphics:  "NVIDIA RTX 4060",
		},
	}
}

func TestScorer_OverpricedCandidateIsPenalized(t *testing.T) {
	s := testScorer()
	c := gamingLaptop("blade", 3000)

	require.InDelta(t, 0.9, PerformanceEstimate(c.Specs), 1e-9)

	scored := s.Score(c, Query{Weights: models.DefaultWeightProfile()})

	// expected price 1980, ratio 0.66, halved then penalized
	assert.InDelta(t, 0.66/2*0.6, scored.SubScores.Value, 1e-9)
	require.NotEmpty(t, scored.Warnings)
	assert.Contains(t, scored.Warnings[0], "Priced well above")
}

func TestScorer_GoodValueAddsReasoning(t *testing.T) {
	s := testScorer()
	c := gamingLaptop("cheap", 1200)

	scored := s.Score(c, Query{Weights: models.DefaultWeightProfile()})

	// ratio 1980/1200 = 1.65
	assert.InDelta(t, 1.65/2, scored.SubScores.Value, 1e-9)
	assert.Contains(t, scored.Reasoning, "Strong performance for the price")
	assert.Contains(t, scored.Highlights, "Excellent value for money")
}

func TestScorer_ValueFloor(t *testing.T) {
	s := testScorer()
	c := models.CandidateProduct{ID: "x", Brand: "Acer", Price: 9000}

	scored := s.Score(c, Query{Weights: models.DefaultWeightProfile()})
	assert.Equal(t, 0.1, scored.SubScores.Value)
}

func TestScorer_Recency(t *testing.T) {
	s := testScorer()

	tests := []struct {
		name     string
		product  string
		expected float64
	}{
		{"current", "Zenbook 2025", 1.0},
		{"one year", "Zenbook 2024", 1.0},
		{"two years", "Zenbook 2023", 0.8},
		{"three years", "Zenbook 2022", 0.6},
		{"four years", "Zenbook 2021", 0.5},
		{"clamped old", "Zenbook 2012", 0.4},
		{"unknown", "Zenbook", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scored := s.Score(models.CandidateProduct{ID: "z", Name: tt.product, Price: 1000},
				Query{Weights: models.DefaultWeightProfile()})
			assert.InDelta(t, tt.expected, scored.SubScores.Recency, 1e-9)
		})
	}
}

func TestScorer_BrandBoost(t *testing.T) {
	s := testScorer()
	c := models.CandidateProduct{ID: "mbp", Brand: "Apple", Price: 2000}

	plain := s.Score(c, Query{Weights: models.DefaultWeightProfile()})
	assert.Equal(t, 0.9, plain.SubScores.Brand)

	requested := s.Score(c, Query{
		Preferences: models.Preferences{Brands: []string{"apple"}},
		Weights:     models.DefaultWeightProfile(),
	})
	assert.Equal(t, 1.0, requested.SubScores.Brand)
	// only the brand sub-factor applies to similarity
	assert.InDelta(t, 0.9, requested.SubScores.Similarity, 1e-9)
}

func TestScorer_BudgetFit(t *testing.T) {
	s := testScorer()
	prefs := models.Preferences{Budget: &models.BudgetRange{Min: 800, Max: 1200}}

	onTarget := s.Score(models.CandidateProduct{ID: "a", Price: 1000}, Query{Preferences: prefs, Weights: models.DefaultWeightProfile()})
	assert.InDelta(t, 1.0, onTarget.SubScores.BudgetFit, 1e-9)

	far := s.Score(models.CandidateProduct{ID: "b", Price: 2500}, Query{Preferences: prefs, Weights: models.DefaultWeightProfile()})
	assert.Equal(t, 0.1, far.SubScores.BudgetFit)

	none := s.Score(models.CandidateProduct{ID: "c", Price: 2500}, Query{Weights: models.DefaultWeightProfile()})
	assert.Equal(t, 0.5, none.SubScores.BudgetFit)
}

func TestScorer_SimilarityUsesApplicableFactors(t *testing.T) {
	s := testScorer()
	c := gamingLaptop("blade", 2000)

	neutral := s.Score(c, Query{Weights: models.DefaultWeightProfile()})
	assert.Equal(t, 0.5, neutral.SubScores.Similarity)

	gaming := s.Score(c, Query{
		Preferences: models.Preferences{Purposes: []string{"gaming"}},
		Weights:     models.DefaultWeightProfile(),
	})
	// purpose 0.5*0.8 + 0.3*0.8 + 0.2*1.0 = 0.84, free text 1.0 for a dedicated GPU
	assert.InDelta(t, (0.84+1.0)/2, gaming.SubScores.Similarity, 1e-9)

	ramShort := s.Score(c, Query{
		Preferences: models.Preferences{Specs: map[string]string{"ram": "32GB"}},
		Weights:     models.DefaultWeightProfile(),
	})
	assert.InDelta(t, 0.5, ramShort.SubScores.Similarity, 1e-9)
	assert.NotEmpty(t, ramShort.Warnings)
}

func TestScorer_UserPreferenceFromHistory(t *testing.T) {
	s := testScorer()
	c := gamingLaptop("blade", 2000)
	positive := models.SentimentPositive
	negative := models.SentimentNegative

	history := []models.FeedbackEvent{
		{Action: models.ActionClicked, Sentiment: &positive, Candidate: gamingLaptop("other", 2000)},
		{Action: models.ActionDismissed, Sentiment: &negative, Candidate: models.CandidateProduct{Brand: "Acer", Price: 400}},
	}

	scored := s.Score(c, Query{Weights: models.DefaultWeightProfile(), History: history})
	assert.InDelta(t, 1.0, scored.SubScores.UserPreference, 1e-9)

	empty := s.Score(c, Query{Weights: models.DefaultWeightProfile()})
	assert.Equal(t, 0.5, empty.SubScores.UserPreference)
}

func TestScorer_DeterministicAndBounded(t *testing.T) {
	s := testScorer()
	prefs := models.Preferences{
		Purposes:   []string{"creative"},
		Brands:     []string{"Razer"},
		Budget:     &models.BudgetRange{Min: 1200, Max: 3500},
		Priorities: []string{"performance"},
	}
	q := Query{Preferences: prefs, Weights: models.DefaultWeightProfile()}

	first := s.Score(gamingLaptop("blade", 2600), q)
	second := s.Score(gamingLaptop("blade", 2600), q)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.SubScores, second.SubScores)

	for _, v := range first.SubScores.Vector() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.InDelta(t, Combine(first.SubScores, q.Weights), first.Score, 1e-12)
}
