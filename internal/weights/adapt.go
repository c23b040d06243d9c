package weights

import (
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// adaptationRule nudges weights when Applies matches a feedback event.
// Step is aligned with models.WeightProfile.Vector.
type adaptationRule struct {
	Name    string
	Applies func(models.FeedbackEvent) bool
	Step    []float64
}

const gamingStep = 0.05

// Negative feedback has no rule yet; add one here to down-weight factors.
var adaptationRules = []adaptationRule{
	{
		Name: "gaming_interest",
		Applies: func(e models.FeedbackEvent) bool {
			positive := (e.Sentiment != nil && *e.Sentiment == models.SentimentPositive) || e.Action == models.ActionPurchased
			return positive && e.Query.HasPurpose("gaming")
		},
		// performance, value, brand, specs, recency, budget
		Step: []float64{gamingStep, 0, 0, gamingStep, 0, 0},
	},
}

// Adapt applies every matching rule to profile and renormalises it.
// applied names the rules that fired; an empty list leaves profile unchanged.
func Adapt(profile models.WeightProfile, event models.FeedbackEvent, now time.Time) (models.WeightProfile, []string) {
	vector := profile.Vector()
	var applied []string
	for _, rule := range adaptationRules {
		if !rule.Applies(event) {
			continue
		}
		floats.Add(vector, rule.Step)
		applied = append(applied, rule.Name)
	}
	if len(applied) == 0 {
		return profile, nil
	}

	adapted := profile.WithVector(Normalize(vector))
	adapted.UpdatedAt = now
	return adapted, applied
}

// Normalize scales v in place so its components sum to 1.
// Non-positive sums fall back to the default profile.
func Normalize(v []float64) []float64 {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0
		}
	}
	sum := floats.Sum(v)
	if sum <= 0 {
		copy(v, models.DefaultWeightProfile().Vector())
		return v
	}
	floats.Scale(1/sum, v)
	return v
}
