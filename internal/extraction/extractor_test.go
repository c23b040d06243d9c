package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/laptop-advisor/pkg/models"
)

func TestExtract_PurposeDefaults(t *testing.T) {
	e := New()

	tests := []struct {
		name      string
		utterance string
		purpose   string
		min, max  float64
	}{
		{"gaming", "I need a gaming laptop", "gaming", 800, 2500},
		{"work", "something for business travel", "work", 600, 1800},
		{"student", "laptop for college", "student", 300, 1000},
		{"creative", "I do video editing", "creative", 1200, 3500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := e.Extract(tt.utterance, models.Preferences{})
			assert.Equal(t, []string{tt.purpose}, delta.Purposes)
			require.NotNil(t, delta.Budget)
			assert.Equal(t, tt.min, delta.Budget.Min)
			assert.Equal(t, tt.max, delta.Budget.Max)
			assert.Equal(t, models.BudgetFromPurpose, delta.Budget.Source)
		})
	}
}

func TestExtract_FirstPurposeRuleWins(t *testing.T) {
	delta := New().Extract("gaming but also for school", models.Preferences{})
	assert.Equal(t, []string{"gaming"}, delta.Purposes)
}

func TestExtract_BudgetQualifiers(t *testing.T) {
	e := New()

	tests := []struct {
		utterance string
		min, max  float64
	}{
		{"laptop under 900", 300, 900},
		{"below $500 please", 250, 500},
		{"max 1200", 300, 1200},
		{"up to 2k", 300, 2000},
		{"less than 1,500", 300, 1500},
		{"over 1500", 1500, 3000},
		{"at least 2800", 2800, 3300},
		{"around 1000", 800, 1200},
		{"my budget is $150", 0, 350},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			delta := e.Extract(tt.utterance, models.Preferences{})
			require.NotNil(t, delta.Budget)
			assert.Equal(t, tt.min, delta.Budget.Min)
			assert.Equal(t, tt.max, delta.Budget.Max)
			assert.Equal(t, models.BudgetFromExplicit, delta.Budget.Source)
		})
	}
}

func TestExtract_IgnoresNonPriceNumbers(t *testing.T) {
	e := New()

	tests := []string{
		"512gb ssd",
		"an rtx 4070 would be nice",
		"i7-1360p",
		"99 dollars",
		"10000 is too much",
		"",
	}

	for _, utterance := range tests {
		t.Run(utterance, func(t *testing.T) {
			delta := e.Extract(utterance, models.Preferences{})
			assert.Nil(t, delta.Budget)
		})
	}
}

func TestExtract_ExplicitBudgetBeatsPurposeDefault(t *testing.T) {
	e := New()

	delta := e.Extract("gaming laptop under 1200", models.Preferences{})
	require.NotNil(t, delta.Budget)
	assert.Equal(t, 300.0, delta.Budget.Min)
	assert.Equal(t, 1200.0, delta.Budget.Max)
	assert.Equal(t, []string{"gaming"}, delta.Purposes)

	existing := models.Preferences{Budget: &models.BudgetRange{Min: 400, Max: 900, Source: models.BudgetFromExplicit}}
	delta = e.Extract("actually it's for gaming", existing)
	assert.Nil(t, delta.Budget)
	assert.Equal(t, []string{"gaming"}, delta.Purposes)
}

func TestExtract_PurposeDefaultReplacesPurposeDefault(t *testing.T) {
	existing := models.Preferences{Budget: &models.BudgetRange{Min: 800, Max: 2500, Source: models.BudgetFromPurpose}}
	delta := New().Extract("it's for school", existing)
	require.NotNil(t, delta.Budget)
	assert.Equal(t, 300.0, delta.Budget.Min)
	assert.Equal(t, 1000.0, delta.Budget.Max)
}

func TestExtract_Brands(t *testing.T) {
	e := New()

	delta := e.Extract("I like DELL and Lenovo", models.Preferences{})
	assert.Equal(t, []string{"Dell", "Lenovo"}, delta.Brands)

	delta = e.Extract("maybe an hp", models.Preferences{Brands: []string{"Dell"}})
	assert.Equal(t, []string{"Dell", "Hp"}, delta.Brands)

	delta = e.Extract("ship it with a good algorithm", models.Preferences{})
	assert.Empty(t, delta.Brands)

	delta = e.Extract("dell again", models.Preferences{Brands: []string{"Dell"}})
	assert.Equal(t, []string{"Dell"}, delta.Brands)
}

func TestExtract_SpecsAndPriorities(t *testing.T) {
	delta := New().Extract("needs 32GB of RAM, fast and lightweight with a great screen", models.Preferences{})
	assert.Equal(t, map[string]string{"ram": "32GB"}, delta.Specs)
	assert.Equal(t, []string{"performance", "portability", "display"}, delta.Priorities)
}

func TestExtract_NormalizesFullWidthInput(t *testing.T) {
	// Full-width digits and letters fold to ASCII under NFKC.
	delta := New().Extract("ｕｎｄｅｒ ９００", models.Preferences{})
	require.NotNil(t, delta.Budget)
	assert.Equal(t, 900.0, delta.Budget.Max)
}

func TestExtract_NoSignal(t *testing.T) {
	delta := New().Extract("hmm let me think", models.Preferences{})
	assert.True(t, delta.IsEmpty())
}
