// Package catalog retrieves laptop candidates from a product catalog.
package catalog

import (
	"context"
	"strings"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// Querier returns candidates within a price window, optionally restricted to
// a set of brands. No ordering is guaranteed.
type Querier interface {
	Query(ctx context.Context, filter models.CatalogFilter) ([]models.CandidateProduct, error)
}

func lowerBrands(brands []string) []string {
	out := make([]string, 0, len(brands))
	for _, b := range brands {
		if b = strings.ToLower(strings.TrimSpace(b)); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// withReleaseYear fills ReleaseYear from the product text when the catalog has
// none, and clamps stored years the same way inferred ones are.
func withReleaseYear(p models.CandidateProduct) models.CandidateProduct {
	if p.ReleaseYear == nil {
		p.ReleaseYear = models.InferReleaseYear(p.Name, p.Specs)
		return p
	}
	year := models.ClampReleaseYear(*p.ReleaseYear)
	p.ReleaseYear = &year
	return p
}
