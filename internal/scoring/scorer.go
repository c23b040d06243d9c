// Package scoring ranks catalog candidates against collected preferences.
//
// Each sub-score is computed on its own from the candidate and the query;
// the final score is the dot product of the sub-score vector and the
// active weight profile.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// Query is everything a candidate is scored against.
type Query struct {
	Preferences models.Preferences
	Weights     models.WeightProfile
	// History holds the user's past feedback; only positive events count.
	History []models.FeedbackEvent
}

type Scorer struct {
	now    func() time.Time
	logger *logrus.Logger
}

func NewScorer(now func() time.Time, logger *logrus.Logger) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{now: now, logger: logger}
}

const (
	neutralScore = 0.5

	expectedPricePerPerformance = 2200.0
	maxValueRatio               = 2.0
	goodValueRatio              = 1.3
	poorValueRatio              = 0.7
	poorValuePenalty            = 0.6
	minValueScore               = 0.1

	minBudgetFitScore = 0.1
	minBudgetScale    = 200.0

	highlightThreshold = 0.8
)

// Score computes every sub-score for candidate and combines them.
func (s *Scorer) Score(candidate models.CandidateProduct, query Query) models.ScoredCandidate {
	scored := models.ScoredCandidate{
		Candidate:  candidate,
		Reasoning:  make([]string, 0, 4),
		Highlights: make([]string, 0, 3),
	}

	scored.SubScores = models.SubScores{
		Similarity:     clamp01(s.similarity(candidate, query.Preferences, &scored)),
		Value:          clamp01(s.value(candidate, &scored)),
		Recency:        clamp01(s.recency(candidate, &scored)),
		Brand:          clamp01(s.brand(candidate, query.Preferences, &scored)),
		BudgetFit:      clamp01(s.budgetFit(candidate, query.Preferences, &scored)),
		UserPreference: clamp01(userPreference(candidate, query.History)),
	}
	scored.Score = Combine(scored.SubScores, query.Weights)

	if scored.SubScores.Similarity > highlightThreshold {
		scored.Highlights = append(scored.Highlights, "Strong match for what you described")
	}
	if scored.SubScores.Value > highlightThreshold {
		scored.Highlights = append(scored.Highlights, "Excellent value for money")
	}
	if scored.SubScores.Recency > highlightThreshold {
		scored.Highlights = append(scored.Highlights, "Current generation hardware")
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"candidate_id": candidate.ID,
			"similarity":   scored.SubScores.Similarity,
			"value":        scored.SubScores.Value,
			"recency":      scored.SubScores.Recency,
			"brand":        scored.SubScores.Brand,
			"budget_fit":   scored.SubScores.BudgetFit,
			"score":        scored.Score,
		}).Debug("Scored candidate")
	}

	return scored
}

// Combine is the weighted sum of sub-scores under weights.
func Combine(sub models.SubScores, weights models.WeightProfile) float64 {
	return floats.Dot(weights.Vector(), sub.Vector())
}

// similarity averages the sub-factors that apply to the query.
func (s *Scorer) similarity(c models.CandidateProduct, prefs models.Preferences, out *models.ScoredCandidate) float64 {
	var factors []float64

	if len(prefs.Purposes) > 0 {
		var total float64
		var n int
		for _, purpose := range prefs.Purposes {
			if fn, ok := purposeScorers[purpose]; ok {
				total += fn(c)
				n++
			}
		}
		if n > 0 {
			score := total / float64(n)
			factors = append(factors, score)
			if score >= 0.7 {
				out.Reasoning = append(out.Reasoning, fmt.Sprintf("Well suited for %s", strings.Join(prefs.Purposes, " and ")))
			}
		}
	}

	if score, ok := freeTextMatch(c, prefs); ok {
		factors = append(factors, score)
	}

	if len(prefs.Brands) > 0 {
		if containsFold(prefs.Brands, c.Brand) {
			factors = append(factors, 0.9)
			out.Reasoning = append(out.Reasoning, fmt.Sprintf("From your preferred brand %s", c.Brand))
		} else {
			factors = append(factors, 0.3)
		}
	}

	if required, ok := ParseGigabytes(prefs.Specs["ram"]); ok && required > 0 {
		if have, ok := ParseGigabytes(c.Specs.RAM); ok {
			if have >= required {
				factors = append(factors, 1.0)
			} else {
				factors = append(factors, float64(have)/float64(required))
				out.Warnings = append(out.Warnings, fmt.Sprintf("Only %dGB RAM, below the %dGB you asked for", have, required))
			}
		}
	}

	if len(factors) == 0 {
		return neutralScore
	}
	return floats.Sum(factors) / float64(len(factors))
}

// freeTextMatch checks keyword cues in the collected preferences against
// the candidate's components.
func freeTextMatch(c models.CandidateProduct, prefs models.Preferences) (float64, bool) {
	text := queryText(prefs)
	var checks []float64
	if strings.Contains(text, "gaming") {
		if HasDedicatedGPU(c.Specs.Graphics) {
			checks = append(checks, 1.0)
		} else {
			checks = append(checks, 0.3)
		}
	}
	if strings.Contains(text, "fast") || strings.Contains(text, "performance") {
		if IsSSD(c.Specs.Storage) {
			checks = append(checks, 1.0)
		} else {
			checks = append(checks, 0.4)
		}
	}
	if len(checks) == 0 {
		return 0, false
	}
	return floats.Sum(checks) / float64(len(checks)), true
}

func queryText(prefs models.Preferences) string {
	parts := append(append([]string(nil), prefs.Purposes...), prefs.Priorities...)
	for _, v := range prefs.Specs {
		parts = append(parts, v)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// PerformanceEstimate averages the four component tiers.
func PerformanceEstimate(specs models.LaptopSpecs) float64 {
	return (CPUTier(specs.Processor) + RAMTier(specs.RAM) + StorageTier(specs.Storage) + GPUTier(specs.Graphics)) / 4
}

func (s *Scorer) value(c models.CandidateProduct, out *models.ScoredCandidate) float64 {
	if c.Price <= 0 {
		return neutralScore
	}
	expected := PerformanceEstimate(c.Specs) * expectedPricePerPerformance
	ratio := math.Min(expected/c.Price, maxValueRatio)
	score := ratio / 2

	switch {
	case ratio > goodValueRatio:
		out.Reasoning = append(out.Reasoning, "Strong performance for the price")
	case ratio < poorValueRatio:
		out.Warnings = append(out.Warnings, fmt.Sprintf("Priced well above comparable performance (about $%.0f expected)", expected))
		score *= poorValuePenalty
	}
	return math.Max(score, minValueScore)
}

func (s *Scorer) recency(c models.CandidateProduct, out *models.ScoredCandidate) float64 {
	year := c.ReleaseYear
	if year == nil {
		year = models.InferReleaseYear(c.Name, c.Specs)
	}
	if year == nil {
		return neutralScore
	}

	age := s.now().Year() - *year
	switch {
	case age <= 1:
		out.Reasoning = append(out.Reasoning, fmt.Sprintf("Latest %d model", *year))
		return 1.0
	case age <= 2:
		out.Reasoning = append(out.Reasoning, fmt.Sprintf("Recent %d model", *year))
		return 0.8
	case age <= 3:
		out.Reasoning = append(out.Reasoning, fmt.Sprintf("Released in %d", *year))
		return 0.6
	default:
		out.Warnings = append(out.Warnings, fmt.Sprintf("Older %d model", *year))
		return math.Max(0.2, 0.6-0.1*float64(age-3))
	}
}

func (s *Scorer) brand(c models.CandidateProduct, prefs models.Preferences, out *models.ScoredCandidate) float64 {
	score := BrandReputation(c.Brand)
	if containsFold(prefs.Brands, c.Brand) {
		score = math.Min(1.0, score+requestedBrandBoost)
	}
	return score
}

func (s *Scorer) budgetFit(c models.CandidateProduct, prefs models.Preferences, out *models.ScoredCandidate) float64 {
	if prefs.Budget == nil {
		return neutralScore
	}
	mid := prefs.Budget.Midpoint()
	fit := 1 - math.Abs(c.Price-mid)/math.Max(minBudgetScale, mid)
	if fit > highlightThreshold {
		out.Reasoning = append(out.Reasoning, "Priced close to your budget")
	}
	return math.Max(fit, minBudgetFitScore)
}

// userPreference compares the candidate with products the user liked before.
func userPreference(c models.CandidateProduct, history []models.FeedbackEvent) float64 {
	var total float64
	var n int
	for _, event := range history {
		if !event.IsPositive() && event.Action != models.ActionPurchased {
			continue
		}
		total += productAffinity(c, event.Candidate)
		n++
	}
	if n == 0 {
		return neutralScore
	}
	return total / float64(n)
}

func productAffinity(a, b models.CandidateProduct) float64 {
	var score float64
	if a.Brand != "" && strings.EqualFold(a.Brand, b.Brand) {
		score += 0.3
	}
	if high := math.Max(a.Price, b.Price); high > 0 {
		gap := math.Abs(a.Price-b.Price) / high
		score += 0.2 * (1 - gap)
	}
	if a.Specs.HasAny() && b.Specs.HasAny() {
		score += 0.5
	}
	return score
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
