package services

import (
	"fmt"
	"strings"

	"github.com/temcen/laptop-advisor/pkg/models"
)

const (
	smallTalkResponse = "Hi! I can help you find the right laptop. What will you mainly use it for?"
	noResultsResponse = "I couldn't find laptops that match all of that. Want to widen the budget or try other brands?"
	fallbackResponse  = "Sorry, I had trouble understanding that. Could you tell me a bit more about what you need, like your budget or how you'll use the laptop?"
)

var purposeAffordances = []models.Affordance{
	{Type: "button", Label: "Gaming", Value: "gaming"},
	{Type: "button", Label: "Work", Value: "work"},
	{Type: "button", Label: "Student", Value: "student"},
}

var confirmationAffordances = []models.Affordance{
	{Type: "button", Label: "Yes, show me laptops", Value: "confirm"},
	{Type: "button", Label: "Adjust budget", Value: "adjust_budget"},
	{Type: "button", Label: "Adjust brands", Value: "adjust_brands"},
}

var standardAffordances = []models.Affordance{
	{Type: "button", Label: "Show more", Value: "show_more"},
	{Type: "button", Label: "Refine", Value: "refine"},
	{Type: "button", Label: "Compare top 3", Value: "compare_top_3"},
	{Type: "button", Label: "Adjust budget", Value: "adjust_budget"},
	{Type: "button", Label: "Adjust brands", Value: "adjust_brands"},
}

// fallbackAffordanceRules are checked in order against the cleaned utterance.
var fallbackAffordanceRules = []struct {
	keyword     string
	affordances []models.Affordance
}{
	{"gaming", []models.Affordance{
		{Type: "chip", Label: "Under $1000", Value: "budget:800-1000"},
		{Type: "chip", Label: "$1000 - $1500", Value: "budget:1000-1500"},
		{Type: "chip", Label: "$1500 - $2500", Value: "budget:1500-2500"},
	}},
	{"work", []models.Affordance{
		{Type: "chip", Label: "Lightweight", Value: "priority:portability"},
		{Type: "chip", Label: "Long battery", Value: "priority:battery"},
		{Type: "chip", Label: "Under $1200", Value: "budget:600-1200"},
	}},
	{"student", []models.Affordance{
		{Type: "chip", Label: "Under $500", Value: "budget:300-500"},
		{Type: "chip", Label: "Under $800", Value: "budget:300-800"},
		{Type: "chip", Label: "Long battery", Value: "priority:battery"},
	}},
	{"budget", []models.Affordance{
		{Type: "chip", Label: "Under $500", Value: "budget:300-500"},
		{Type: "chip", Label: "$500 - $1000", Value: "budget:500-1000"},
		{Type: "chip", Label: "$1000+", Value: "budget:1000-3000"},
	}},
}

func fallbackAffordances(cleaned string) []models.Affordance {
	for _, rule := range fallbackAffordanceRules {
		if strings.Contains(cleaned, rule.keyword) {
			return append([]models.Affordance(nil), rule.affordances...)
		}
	}
	return append([]models.Affordance(nil), purposeAffordances...)
}

// withStandardAffordances appends the standard calls to action, skipping
// values already offered.
func withStandardAffordances(affordances []models.Affordance) []models.Affordance {
	out := make([]models.Affordance, 0, len(affordances)+len(standardAffordances))
	seen := make(map[string]bool)
	for _, list := range [][]models.Affordance{affordances, standardAffordances} {
		for _, a := range list {
			if seen[a.Value] {
				continue
			}
			seen[a.Value] = true
			out = append(out, a)
		}
	}
	return out
}

func confirmationSummary(prefs models.Preferences) string {
	var parts []string
	if len(prefs.Purposes) > 0 {
		parts = append(parts, fmt.Sprintf("a laptop for %s", strings.Join(prefs.Purposes, " and ")))
	} else {
		parts = append(parts, "a laptop")
	}
	if prefs.Budget != nil {
		parts = append(parts, fmt.Sprintf("budget %s", formatBudget(*prefs.Budget)))
	} else {
		parts = append(parts, "any budget")
	}
	if len(prefs.Brands) > 0 {
		parts = append(parts, fmt.Sprintf("brands: %s", strings.Join(prefs.Brands, ", ")))
	} else {
		parts = append(parts, "any brand")
	}
	if ram := prefs.Specs["ram"]; ram != "" {
		parts = append(parts, fmt.Sprintf("at least %s RAM", ram))
	}
	return fmt.Sprintf("Just to confirm, you're looking for %s. Does that look right?", strings.Join(parts, ", "))
}

func narrowingQuestion(count int, askBudget bool) string {
	if askBudget {
		return fmt.Sprintf("I found %d laptops that could work. What budget range should I stay within?", count)
	}
	return fmt.Sprintf("I found %d laptops in your budget. Do you have any preferred brands?", count)
}

func narrowingAffordances(askBudget bool) []models.Affordance {
	if askBudget {
		return fallbackAffordanceRules[3].affordances
	}
	return []models.Affordance{
		{Type: "chip", Label: "Apple", Value: "brand:apple"},
		{Type: "chip", Label: "Dell", Value: "brand:dell"},
		{Type: "chip", Label: "Lenovo", Value: "brand:lenovo"},
		{Type: "chip", Label: "No preference", Value: "brand:any"},
	}
}

// recommendationSummary replaces the model's text when results are shown:
// a header, up to two bullets for each of the top two picks, and a closing question.
func recommendationSummary(prefs models.Preferences, recs []models.ScoredCandidate) string {
	var b strings.Builder
	if len(prefs.Purposes) > 0 {
		fmt.Fprintf(&b, "Here are my top %d picks for %s:\n", len(recs), strings.Join(prefs.Purposes, " and "))
	} else {
		fmt.Fprintf(&b, "Here are my top %d picks for you:\n", len(recs))
	}

	for i, rec := range recs {
		if i == 2 {
			break
		}
		fmt.Fprintf(&b, "\n%d. %s ($%.0f)\n", i+1, rec.Candidate.Name, rec.Candidate.Price)
		for _, bullet := range topBullets(rec, 2) {
			fmt.Fprintf(&b, "   - %s\n", bullet)
		}
	}

	b.WriteString("\nWould you like to compare these, see more options, or adjust your budget?")
	return b.String()
}

func topBullets(rec models.ScoredCandidate, n int) []string {
	bullets := append([]string(nil), rec.Highlights...)
	if len(bullets) < n {
		bullets = append(bullets, rec.Reasoning...)
	}
	if len(bullets) > n {
		bullets = bullets[:n]
	}
	return bullets
}

func formatBudget(b models.BudgetRange) string {
	if b.Min <= 0 {
		return fmt.Sprintf("up to $%.0f", b.Max)
	}
	return fmt.Sprintf("$%.0f-$%.0f", b.Min, b.Max)
}
