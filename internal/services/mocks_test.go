package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/temcen/laptop-advisor/internal/llm"
	"github.com/temcen/laptop-advisor/internal/messaging"
	"github.com/temcen/laptop-advisor/internal/scoring"
	"github.com/temcen/laptop-advisor/internal/weights"
	"github.com/temcen/laptop-advisor/pkg/models"
)

var testNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

// fakeCatalog filters a fixed product list and records every filter it saw.
type fakeCatalog struct {
	mu       sync.Mutex
	products []models.CandidateProduct
	err      error
	calls    []models.CatalogFilter
}

func (f *fakeCatalog) Query(_ context.Context, filter models.CatalogFilter) ([]models.CandidateProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, filter)
	if f.err != nil {
		return nil, f.err
	}

	var out []models.CandidateProduct
	for _, p := range f.products {
		if p.Price < filter.PriceMin || p.Price > filter.PriceMax {
			continue
		}
		if len(filter.Brands) > 0 && !hasBrand(filter.Brands, p.Brand) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalog) filters() []models.CatalogFilter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CatalogFilter(nil), f.calls...)
}

func hasBrand(brands []string, brand string) bool {
	for _, b := range brands {
		if strings.EqualFold(b, brand) {
			return true
		}
	}
	return false
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Record(ctx context.Context, event models.AnalyticsEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, systemPrompt, utterance string) (*llm.Result, error) {
	args := m.Called(ctx, systemPrompt, utterance)
	if result := args.Get(0); result != nil {
		return result.(*llm.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

var errCatalogDown = errors.New("catalog unavailable")

// gamingLaptop scores perf 0.9: i9, 16GB, 1TB SSD, RTX 4060.
func gamingLaptop(id, brand string, price float64, year int) models.CandidateProduct {
	return models.CandidateProduct{
		ID:    id,
		Name:  fmt.Sprintf("%s Gamer %d", brand, year),
		Brand: brand,
		Price: price,
		Specs: models.LaptopSpecs{
			Processor: "Intel Core i9-14900HX",
			RAM:       "16GB DDR5",
			Storage:   "1TB SSD",
			Graphics:  "NVIDIA RTX 4060",
		},
	}
}

func testEngine(catalog *fakeCatalog, sink messaging.Sink, store weights.Store, now time.Time) *RecommendationEngine {
	scorer := scoring.NewScorer(func() time.Time { return now }, testLogger())
	engine := NewRecommendationEngine(catalog, scorer, store, sink, DefaultEngineConfig(), NewMetrics(nil), testLogger())
	engine.now = func() time.Time { return now }
	return engine
}
