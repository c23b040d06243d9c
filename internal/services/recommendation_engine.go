package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/laptop-advisor/internal/catalog"
	"github.com/temcen/laptop-advisor/internal/messaging"
	"github.com/temcen/laptop-advisor/internal/scoring"
	"github.com/temcen/laptop-advisor/internal/weights"
	"github.com/temcen/laptop-advisor/pkg/models"
)

// EngineConfig holds the ranking and filtering thresholds.
type EngineConfig struct {
	MaxResults  int
	MaxPerBrand int
	// PriceSlack widens the requested window on the first retrieval.
	PriceSlack float64
	// RelaxFactor widens the slacked window again when nothing matched.
	RelaxFactor  float64
	MinValue     float64
	StaleValue   float64
	StaleRecency float64
	Timeout      time.Duration
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxResults:   5,
		MaxPerBrand:  2,
		PriceSlack:   0.2,
		RelaxFactor:  0.25,
		MinValue:     0.2,
		StaleValue:   0.3,
		StaleRecency: 0.4,
		Timeout:      5 * time.Second,
	}
}

// RecommendationEngine retrieves, scores, ranks and filters catalog candidates.
type RecommendationEngine struct {
	catalog catalog.Querier
	scorer  *scoring.Scorer
	weights weights.Store
	sink    messaging.Sink
	config  EngineConfig
	metrics *Metrics
	logger  *logrus.Logger
	now     func() time.Time
}

func NewRecommendationEngine(
	catalog catalog.Querier,
	scorer *scoring.Scorer,
	weightStore weights.Store,
	sink messaging.Sink,
	config EngineConfig,
	metrics *Metrics,
	logger *logrus.Logger,
) *RecommendationEngine {
	if sink == nil {
		sink = messaging.NopSink{}
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &RecommendationEngine{
		catalog: catalog,
		scorer:  scorer,
		weights: weightStore,
		sink:    sink,
		config:  config,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Recommend returns at most MaxResults ranked candidates for the filter.
// Catalog failures and empty retrievals yield an empty list, never an error.
func (e *RecommendationEngine) Recommend(
	ctx context.Context,
	filter models.CatalogFilter,
	prefs models.Preferences,
	userID string,
) (*models.RecommendationResult, Outcome) {
	return e.recommend(ctx, filter, prefs, userID, "")
}

// RecommendFromPreferences is the direct path that bypasses conversation.
func (e *RecommendationEngine) RecommendFromPreferences(
	ctx context.Context,
	prefs models.Preferences,
	userID string,
) (*models.RecommendationResult, Outcome) {
	return e.recommend(ctx, models.FilterFromPreferences(prefs), prefs, userID, "")
}

func (e *RecommendationEngine) recommend(
	ctx context.Context,
	filter models.CatalogFilter,
	prefs models.Preferences,
	userID, sessionID string,
) (*models.RecommendationResult, Outcome) {
	start := time.Now()
	defer func() {
		e.metrics.recommendationDuration.Observe(time.Since(start).Seconds())
	}()

	result := &models.RecommendationResult{
		Candidates:  []models.ScoredCandidate{},
		GeneratedAt: e.now(),
	}

	candidates, used := e.retrieve(ctx, filter, result)
	result.Filter = used
	result.CandidateCount = len(candidates)
	e.metrics.candidateCount.Observe(float64(len(candidates)))

	if len(candidates) == 0 {
		e.logger.WithFields(logrus.Fields{
			"user_id":   userID,
			"price_min": filter.PriceMin,
			"price_max": filter.PriceMax,
			"brands":    filter.Brands,
		}).Info("No catalog candidates after relaxation")
		return result, succeeded("record_recommendation")
	}

	query := e.buildQuery(ctx, prefs, userID)

	scored := make([]models.ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, e.scorer.Score(candidate, query))
	}
	rankCandidates(scored)

	accepted := diversifyByBrand(scored, e.config.MaxPerBrand, e.config.MaxResults)
	result.Candidates = e.applyValueFilter(accepted)

	e.logger.WithFields(logrus.Fields{
		"user_id":         userID,
		"candidate_count": result.CandidateCount,
		"returned":        len(result.Candidates),
		"relaxed_price":   result.RelaxedPrice,
		"dropped_brands":  result.DroppedBrands,
	}).Info("Recommendations generated")

	return result, e.record(ctx, result, userID, sessionID)
}

// retrieve queries the slacked window, then a relaxed window, then the
// relaxed window without brands. A catalog error counts as an empty attempt.
func (e *RecommendationEngine) retrieve(
	ctx context.Context,
	filter models.CatalogFilter,
	result *models.RecommendationResult,
) ([]models.CandidateProduct, models.CatalogFilter) {
	window := widen(filter, e.config.PriceSlack)
	if candidates := e.query(ctx, window); len(candidates) > 0 {
		return candidates, window
	}

	relaxed := widen(window, e.config.RelaxFactor)
	if candidates := e.query(ctx, relaxed); len(candidates) > 0 {
		result.RelaxedPrice = true
		return candidates, relaxed
	}

	if len(relaxed.Brands) > 0 {
		relaxed.Brands = nil
		if candidates := e.query(ctx, relaxed); len(candidates) > 0 {
			result.RelaxedPrice = true
			result.DroppedBrands = true
			return candidates, relaxed
		}
	}

	return nil, window
}

func (e *RecommendationEngine) query(ctx context.Context, filter models.CatalogFilter) []models.CandidateProduct {
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	candidates, err := e.catalog.Query(ctx, filter)
	if err != nil {
		e.metrics.catalogErrors.Inc()
		e.logger.WithError(err).WithFields(logrus.Fields{
			"price_min": filter.PriceMin,
			"price_max": filter.PriceMax,
		}).Warn("Catalog query failed")
		return nil
	}
	return candidates
}

func (e *RecommendationEngine) buildQuery(ctx context.Context, prefs models.Preferences, userID string) scoring.Query {
	query := scoring.Query{
		Preferences: prefs,
		Weights:     models.DefaultWeightProfile(),
	}
	if e.weights == nil || userID == "" {
		return query
	}

	profile, err := weights.Active(ctx, e.weights, userID)
	if err != nil {
		e.logger.WithError(err).WithField("user_id", userID).Warn("Failed to load weight profile, using defaults")
	}
	query.Weights = profile

	history, err := e.weights.History(ctx, userID)
	if err != nil {
		e.logger.WithError(err).WithField("user_id", userID).Warn("Failed to load feedback history")
	}
	query.History = history
	return query
}

func (e *RecommendationEngine) applyValueFilter(accepted []models.ScoredCandidate) []models.ScoredCandidate {
	kept := make([]models.ScoredCandidate, 0, len(accepted))
	for _, sc := range accepted {
		value, recency := sc.SubScores.Value, sc.SubScores.Recency
		if value < e.config.MinValue || (value < e.config.StaleValue && recency < e.config.StaleRecency) {
			e.logger.WithFields(logrus.Fields{
				"candidate_id": sc.Candidate.ID,
				"value":        value,
				"recency":      recency,
			}).Debug("Candidate dropped by value filter")
			continue
		}
		kept = append(kept, sc)
	}
	return kept
}

func (e *RecommendationEngine) record(ctx context.Context, result *models.RecommendationResult, userID, sessionID string) Outcome {
	ids := make([]string, 0, len(result.Candidates))
	for _, sc := range result.Candidates {
		ids = append(ids, sc.Candidate.ID)
	}

	event := models.AnalyticsEvent{
		Type:      messaging.EventRecommendationServed,
		UserID:    userID,
		SessionID: sessionID,
		ItemIDs:   ids,
		Payload: map[string]interface{}{
			"candidate_count": result.CandidateCount,
			"price_min":       result.Filter.PriceMin,
			"price_max":       result.Filter.PriceMax,
			"relaxed_price":   result.RelaxedPrice,
			"dropped_brands":  result.DroppedBrands,
		},
		Timestamp: result.GeneratedAt,
	}

	outcome := succeeded("record_recommendation")
	if err := e.sink.Record(ctx, event); err != nil {
		outcome = failed("record_recommendation", err)
	}
	outcome.Log(e.logger, logrus.Fields{"user_id": userID})
	return outcome
}

func widen(filter models.CatalogFilter, factor float64) models.CatalogFilter {
	out := models.CatalogFilter{
		PriceMin: filter.PriceMin * (1 - factor),
		PriceMax: filter.PriceMax * (1 + factor),
	}
	if out.PriceMin < 0 {
		out.PriceMin = 0
	}
	if len(filter.Brands) > 0 {
		out.Brands = append([]string(nil), filter.Brands...)
	}
	return out
}

// rankCandidates sorts by score descending, ties broken by candidate id.
func rankCandidates(scored []models.ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Candidate.ID < scored[j].Candidate.ID
	})
}

// diversifyByBrand walks a ranked list accepting at most perBrand entries
// of any brand, stopping once limit entries are accepted.
func diversifyByBrand(ranked []models.ScoredCandidate, perBrand, limit int) []models.ScoredCandidate {
	brandCounts := make(map[string]int)
	accepted := make([]models.ScoredCandidate, 0, limit)

	for _, sc := range ranked {
		if len(accepted) >= limit {
			break
		}
		brand := strings.ToLower(sc.Candidate.Brand)
		if brandCounts[brand] >= perBrand {
			continue
		}
		brandCounts[brand]++
		accepted = append(accepted, sc)
	}
	return accepted
}
