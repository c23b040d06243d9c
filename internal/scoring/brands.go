package scoring

import "strings"

// brandReputation is a static reputation table keyed by lower-case brand.
var brandReputation = map[string]float64{
	"apple":     0.9,
	"dell":      0.8,
	"lenovo":    0.8,
	"microsoft": 0.8,
	"alienware": 0.8,
	"hp":        0.75,
	"asus":      0.75,
	"razer":     0.75,
	"samsung":   0.75,
	"framework": 0.75,
	"msi":       0.7,
	"lg":        0.7,
	"gigabyte":  0.65,
	"acer":      0.6,
}

const (
	unknownBrandScore   = 0.5
	requestedBrandBoost = 0.2
)

// BrandReputation returns the table score for brand, or the neutral default.
func BrandReputation(brand string) float64 {
	if score, ok := brandReputation[strings.ToLower(strings.TrimSpace(brand))]; ok {
		return score
	}
	return unknownBrandScore
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return true
		}
	}
	return false
}
