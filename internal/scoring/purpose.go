package scoring

import (
	"math"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// purposeScorers holds one heuristic per recognised purpose.
var purposeScorers = map[string]func(models.CandidateProduct) float64{
	"gaming":   gamingFit,
	"work":     workFit,
	"creative": creativeFit,
	"student":  studentFit,
}

const basePortability = 0.7

func gamingFit(c models.CandidateProduct) float64 {
	return 0.5*GPUTier(c.Specs.Graphics) + 0.3*RAMTier(c.Specs.RAM) + 0.2*CPUTier(c.Specs.Processor)
}

func workFit(c models.CandidateProduct) float64 {
	ssd := 0.0
	if IsSSD(c.Specs.Storage) {
		ssd = 1.0
	}
	return 0.3*CPUTier(c.Specs.Processor) + 0.3*RAMTier(c.Specs.RAM) + 0.2*ssd + 0.2*basePortability
}

func creativeFit(c models.CandidateProduct) float64 {
	ram := RAMTier(c.Specs.RAM)
	if gb, _ := ParseGigabytes(c.Specs.RAM); gb < 32 {
		ram *= 0.75
	}
	return 0.3*CPUTier(c.Specs.Processor) + 0.3*GPUTier(c.Specs.Graphics) + 0.3*ram + 0.1*StorageTier(c.Specs.Storage)
}

func studentFit(c models.CandidateProduct) float64 {
	return 0.3*math.Min(CPUTier(c.Specs.Processor), 0.7) + 0.3*RAMTier(c.Specs.RAM) + 0.4*priceTier(c.Price)
}

func priceTier(price float64) float64 {
	switch {
	case price <= 700:
		return 1.0
	case price <= 1000:
		return 0.8
	case price <= 1500:
		return 0.5
	default:
		return 0.2
	}
}
