package extraction

import (
	"regexp"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// purposeRule maps a usage keyword family to a purpose and its default budget.
type purposeRule struct {
	Purpose string
	Pattern *regexp.Regexp
	Budget  models.BudgetRange
}

// Order matters: the first matching rule wins.
var purposeRules = []purposeRule{
	{
		Purpose: "gaming",
		Pattern: regexp.MustCompile(`\b(gaming|gamer)\b`),
		Budget:  models.BudgetRange{Min: 800, Max: 2500, Source: models.BudgetFromPurpose},
	},
	{
		Purpose: "work",
		Pattern: regexp.MustCompile(`\b(work|business|productivity)`),
		Budget:  models.BudgetRange{Min: 600, Max: 1800, Source: models.BudgetFromPurpose},
	},
	{
		Purpose: "student",
		Pattern: regexp.MustCompile(`\b(student|school|college)`),
		Budget:  models.BudgetRange{Min: 300, Max: 1000, Source: models.BudgetFromPurpose},
	},
	{
		Purpose: "creative",
		Pattern: regexp.MustCompile(`\b(creative|design|video|photo)`),
		Budget:  models.BudgetRange{Min: 1200, Max: 3500, Source: models.BudgetFromPurpose},
	},
}

// KnownBrands is the brand vocabulary recognised in utterances.
var KnownBrands = []string{
	"apple", "dell", "hp", "lenovo", "asus", "acer", "msi", "razer",
	"microsoft", "samsung", "lg", "gigabyte", "framework", "alienware",
	"huawei", "toshiba",
}

type brandRule struct {
	Brand   string
	Pattern *regexp.Regexp
}

// Short names would match inside ordinary words, so they need word boundaries.
const minSubstringBrandLen = 4

var brandRules = buildBrandRules(KnownBrands)

func buildBrandRules(brands []string) []brandRule {
	rules := make([]brandRule, 0, len(brands))
	for _, brand := range brands {
		expr := regexp.QuoteMeta(brand)
		if len(brand) < minSubstringBrandLen {
			expr = `\b` + expr + `\b`
		}
		rules = append(rules, brandRule{Brand: brand, Pattern: regexp.MustCompile(expr)})
	}
	return rules
}

var (
	// numberPattern captures integers, with optional thousand separators and a k suffix.
	numberPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})+|\d+`)

	upperQualifier = regexp.MustCompile(`\b(under|below|max|maximum|less than|up to|no more than|cheaper than)\b`)
	lowerQualifier = regexp.MustCompile(`\b(over|above|min|minimum|at least|more than|starting at)\b`)

	ramRequirement = regexp.MustCompile(`(\d{1,3})\s*gb\s*(?:of\s+)?(?:ram|memory)\b`)
)

// Words that precede component model numbers ("rtx 4070") rather than prices.
var modelNumberPrefixes = map[string]bool{
	"rtx": true, "gtx": true, "rx": true, "radeon": true, "geforce": true,
	"ryzen": true, "core": true, "series": true, "model": true,
}

const (
	budgetAnchorMin = 100
	budgetAnchorMax = 5000

	// Window half-width when no qualifier is given.
	budgetWindowHalf = 200.0
	upperBoundFloor  = 300.0
	lowerBoundCeil   = 3000.0
	lowerBoundSpan   = 500.0

	qualifierLookbackWords = 3
)

type priorityRule struct {
	Priority string
	Pattern  *regexp.Regexp
}

var priorityRules = []priorityRule{
	{Priority: "performance", Pattern: regexp.MustCompile(`\b(fast|speed|speedy|performance|powerful)\b`)},
	{Priority: "battery", Pattern: regexp.MustCompile(`\bbattery\b`)},
	{Priority: "portability", Pattern: regexp.MustCompile(`\b(light|lightweight|portable|thin|travel)\b`)},
	{Priority: "display", Pattern: regexp.MustCompile(`\b(display|screen|oled)\b`)},
}
