package models

import (
	"regexp"
	"strconv"
	"strings"
)

// LaptopSpecs are free-text component descriptions as stored in the catalog.
type LaptopSpecs struct {
	Processor string `json:"processor,omitempty" db:"processor"`
	RAM       string `json:"ram,omitempty" db:"ram"`
	Storage   string `json:"storage,omitempty" db:"storage"`
	Graphics  string `json:"graphics,omitempty" db:"graphics"`
}

// Text joins every spec field for keyword matching.
func (s LaptopSpecs) Text() string {
	return strings.TrimSpace(strings.Join([]string{s.Processor, s.RAM, s.Storage, s.Graphics}, " "))
}

// HasAny reports whether at least one spec field is populated.
func (s LaptopSpecs) HasAny() bool {
	return s.Processor != "" || s.RAM != "" || s.Storage != "" || s.Graphics != ""
}

// CandidateProduct is a read-only catalog projection.
type CandidateProduct struct {
	ID          string      `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Brand       string      `json:"brand" db:"brand"`
	Price       float64     `json:"price" db:"price"`
	Specs       LaptopSpecs `json:"specs"`
	ReleaseYear *int        `json:"release_year,omitempty"`
}

// CatalogFilter constrains catalog retrieval.
type CatalogFilter struct {
	PriceMin float64  `json:"price_min"`
	PriceMax float64  `json:"price_max"`
	Brands   []string `json:"brands,omitempty"`
}

// Default catalog price window used when no budget was collected.
const (
	DefaultPriceMin = 300.0
	DefaultPriceMax = 3000.0
)

// FilterFromPreferences builds a catalog filter, defaulting the window.
func FilterFromPreferences(prefs Preferences) CatalogFilter {
	filter := CatalogFilter{PriceMin: DefaultPriceMin, PriceMax: DefaultPriceMax}
	if prefs.Budget != nil {
		filter.PriceMin = prefs.Budget.Min
		filter.PriceMax = prefs.Budget.Max
	}
	if len(prefs.Brands) > 0 {
		filter.Brands = append([]string(nil), prefs.Brands...)
	}
	return filter
}

var releaseYearPattern = regexp.MustCompile(`\b20\d{2}\b`)

// Release years outside this range are clamped into it.
const (
	MinReleaseYear = 2020
	MaxReleaseYear = 2025
)

// InferReleaseYear looks for a 20xx token in the name first, then the specs.
func InferReleaseYear(name string, specs LaptopSpecs) *int {
	for _, text := range []string{name, specs.Text()} {
		match := releaseYearPattern.FindString(text)
		if match == "" {
			continue
		}
		year, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		year = ClampReleaseYear(year)
		return &year
	}
	return nil
}

// ClampReleaseYear bounds year to [MinReleaseYear, MaxReleaseYear].
func ClampReleaseYear(year int) int {
	if year < MinReleaseYear {
		return MinReleaseYear
	}
	if year > MaxReleaseYear {
		return MaxReleaseYear
	}
	return year
}
