// Package extraction turns raw user utterances into structured preference
// deltas using ordered keyword rules. It has no dependencies and never fails.
package extraction

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/temcen/laptop-advisor/pkg/models"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Normalize applies NFKC and lower-cases the utterance.
func Normalize(utterance string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(utterance)))
}

// Extract parses an utterance into a delta against existing preferences.
// Every category is evaluated independently.
func (e *Extractor) Extract(utterance string, existing models.Preferences) models.PreferenceDelta {
	text := Normalize(utterance)
	var delta models.PreferenceDelta
	if text == "" {
		return delta
	}

	if rule, ok := matchPurpose(text); ok {
		delta.Purposes = []string{rule.Purpose}
		if existing.Budget == nil || existing.Budget.Source == models.BudgetFromPurpose {
			budget := rule.Budget
			delta.Budget = &budget
		}
	}

	if brands := e.matchBrands(text); len(brands) > 0 {
		delta.Brands = mergeBrands(existing.Brands, brands)
	}

	// A numeric signal is more specific than any purpose default.
	if budget, ok := parseBudget(text); ok {
		delta.Budget = &budget
	}

	if m := ramRequirement.FindStringSubmatch(text); m != nil {
		delta.Specs = map[string]string{"ram": m[1] + "GB"}
	}

	for _, rule := range priorityRules {
		if rule.Pattern.MatchString(text) {
			delta.Priorities = append(delta.Priorities, rule.Priority)
		}
	}

	return delta
}

func matchPurpose(text string) (purposeRule, bool) {
	for _, rule := range purposeRules {
		if rule.Pattern.MatchString(text) {
			return rule, true
		}
	}
	return purposeRule{}, false
}

func (e *Extractor) matchBrands(text string) []string {
	// Casers carry state, so each call gets its own.
	titler := cases.Title(language.English)
	var matches []string
	for _, rule := range brandRules {
		if rule.Pattern.MatchString(text) {
			matches = append(matches, titler.String(rule.Brand))
		}
	}
	return matches
}

func mergeBrands(existing, found []string) []string {
	seen := make(map[string]bool, len(existing)+len(found))
	out := make([]string, 0, len(existing)+len(found))
	for _, brand := range append(append([]string(nil), existing...), found...) {
		key := strings.ToLower(brand)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, brand)
	}
	return out
}

// parseBudget finds the first plausible price token and builds a window
// from the qualifier words just before it.
func parseBudget(text string) (models.BudgetRange, bool) {
	for _, loc := range numberPattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		value, err := strconv.Atoi(strings.ReplaceAll(text[start:end], ",", ""))
		if err != nil {
			continue
		}

		if end < len(text) && text[end] == 'k' && (end+1 == len(text) || !isLetter(text[end+1])) {
			value *= 1000
			end++
		}
		// Attached units ("512gb", "15inch") are not prices.
		if end < len(text) && isLetter(text[end]) {
			continue
		}
		if start > 0 && (isLetter(text[start-1]) || text[start-1] == '-' || text[start-1] == '.') {
			continue
		}
		prefix := text[:start]
		if words := strings.Fields(prefix); len(words) > 0 && modelNumberPrefixes[words[len(words)-1]] {
			continue
		}
		if value <= budgetAnchorMin || value >= budgetAnchorMax {
			continue
		}

		return windowFor(float64(value), tailWords(prefix, qualifierLookbackWords)), true
	}
	return models.BudgetRange{}, false
}

func windowFor(anchor float64, qualifierText string) models.BudgetRange {
	budget := models.BudgetRange{Source: models.BudgetFromExplicit}
	switch {
	case upperQualifier.MatchString(qualifierText):
		budget.Min = math.Min(upperBoundFloor, anchor/2)
		budget.Max = anchor
	case lowerQualifier.MatchString(qualifierText):
		budget.Min = anchor
		budget.Max = math.Max(lowerBoundCeil, anchor+lowerBoundSpan)
	default:
		budget.Min = math.Max(0, anchor-budgetWindowHalf)
		budget.Max = anchor + budgetWindowHalf
	}
	return budget
}

func tailWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
