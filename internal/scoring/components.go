package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// tierRule assigns a tier to component text matching Pattern.
type tierRule struct {
	Pattern *regexp.Regexp
	Tier    float64
}

// Rules are checked in order; the first match wins.
var cpuTiers = []tierRule{
	{regexp.MustCompile(`\bi9\b|ryzen[\s-]?9\b|\bm[34]\b|ultra[\s-]?9\b`), 1.0},
	{regexp.MustCompile(`\bi7\b|ryzen[\s-]?7\b|\bm2\b|ultra[\s-]?7\b`), 0.85},
	{regexp.MustCompile(`\bi5\b|ryzen[\s-]?5\b|\bm1\b|ultra[\s-]?5\b`), 0.7},
	{regexp.MustCompile(`\bi3\b|ryzen[\s-]?3\b`), 0.5},
}

var gpuTiers = []tierRule{
	{regexp.MustCompile(`rtx\s*40(90|80)`), 1.0},
	{regexp.MustCompile(`rtx\s*(4070|3080)|rx\s*7[89]\d{2}`), 0.9},
	{regexp.MustCompile(`rtx\s*(4060|3070)|rx\s*7[67]\d{2}`), 0.8},
	{regexp.MustCompile(`rtx\s*(4050|3060)|rx\s*6\d{3}`), 0.7},
	{regexp.MustCompile(`rtx\s*3050|\bgtx\b`), 0.55},
	{regexp.MustCompile(`iris|\buhd\b|radeon graphics|integrated|intel graphics`), 0.3},
}

var (
	dedicatedGPUPattern = regexp.MustCompile(`\b(rtx|gtx|rx)\s*\d`)
	gigabytesPattern    = regexp.MustCompile(`(\d+)\s*gb`)
	terabytePattern     = regexp.MustCompile(`\d\s*tb`)
	ssdPattern          = regexp.MustCompile(`ssd|nvme|solid state`)
	slowStoragePattern  = regexp.MustCompile(`hdd|emmc|hard drive`)
)

const (
	unknownCPUTier     = 0.3
	unknownGPUTier     = 0.4
	unknownStorageTier = 0.5
)

func matchTier(rules []tierRule, text string, fallback float64) float64 {
	text = strings.ToLower(text)
	for _, rule := range rules {
		if rule.Pattern.MatchString(text) {
			return rule.Tier
		}
	}
	return fallback
}

// CPUTier ranks a processor by model family.
func CPUTier(processor string) float64 {
	return matchTier(cpuTiers, processor, unknownCPUTier)
}

// GPUTier ranks graphics from flagship discrete down to integrated.
func GPUTier(graphics string) float64 {
	return matchTier(gpuTiers, graphics, unknownGPUTier)
}

// HasDedicatedGPU reports whether graphics names a discrete card.
func HasDedicatedGPU(graphics string) bool {
	return dedicatedGPUPattern.MatchString(strings.ToLower(graphics))
}

// ParseGigabytes returns the first NN GB size in text.
func ParseGigabytes(text string) (int, bool) {
	m := gigabytesPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	gb, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return gb, true
}

func RAMTier(ram string) float64 {
	gb, _ := ParseGigabytes(ram)
	switch {
	case gb >= 32:
		return 1.0
	case gb >= 16:
		return 0.8
	case gb >= 8:
		return 0.6
	case gb >= 4:
		return 0.4
	default:
		return 0.2
	}
}

// IsSSD reports whether storage is solid state.
func IsSSD(storage string) bool {
	return ssdPattern.MatchString(strings.ToLower(storage))
}

// StorageTier ranks capacity and type: terabyte SSDs at the top, HDD at the bottom.
func StorageTier(storage string) float64 {
	text := strings.ToLower(storage)
	ssd := ssdPattern.MatchString(text)
	if slowStoragePattern.MatchString(text) && !ssd {
		return 0.3
	}
	gb, hasGB := ParseGigabytes(text)
	switch {
	case terabytePattern.MatchString(text):
		return 1.0
	case hasGB && gb >= 1000:
		return 1.0
	case hasGB && gb >= 512:
		return 0.8
	case hasGB && gb >= 256:
		return 0.6
	case ssd:
		return 0.55
	default:
		return unknownStorageTier
	}
}
