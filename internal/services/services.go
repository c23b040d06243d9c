package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/temcen/laptop-advisor/internal/cache"
	"github.com/temcen/laptop-advisor/internal/catalog"
	"github.com/temcen/laptop-advisor/internal/config"
	"github.com/temcen/laptop-advisor/internal/database"
	"github.com/temcen/laptop-advisor/internal/extraction"
	"github.com/temcen/laptop-advisor/internal/llm"
	"github.com/temcen/laptop-advisor/internal/messaging"
	"github.com/temcen/laptop-advisor/internal/scoring"
	"github.com/temcen/laptop-advisor/internal/session"
	"github.com/temcen/laptop-advisor/internal/validation"
	"github.com/temcen/laptop-advisor/internal/weights"
)

type Services struct {
	Metrics      *Metrics
	Health       *HealthService
	Engine       *RecommendationEngine
	Conversation *ConversationOrchestrator
	Feedback     *FeedbackService
	UIConfig     *UIConfigService
	Validator    *validation.SchemaValidator
	Catalog      catalog.Querier
	closers      []func() error
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database, reg prometheus.Registerer) (*Services, error) {
	s := &Services{Metrics: NewMetrics(reg)}

	validator, err := validation.NewEmbeddedValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}
	s.Validator = validator

	catalogQuerier, checks, err := s.openCatalog(cfg, db, logger)
	if err != nil {
		return nil, err
	}
	s.Catalog = catalogQuerier

	sink := s.buildSink(cfg, db, logger)
	sessions := buildSessionStore(cfg, db)
	weightStore := buildWeightStore(cfg, db)

	completer, err := NewCompleter(cfg.LLM, validator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize language model: %w", err)
	}

	scorer := scoring.NewScorer(time.Now, logger)

	s.Engine = NewRecommendationEngine(catalogQuerier, scorer, weightStore, sink, EngineConfig{
		MaxResults:   cfg.Scoring.MaxResults,
		MaxPerBrand:  cfg.Scoring.MaxPerBrand,
		PriceSlack:   cfg.Scoring.PriceSlack,
		RelaxFactor:  cfg.Scoring.RelaxFactor,
		MinValue:     cfg.Scoring.MinValue,
		StaleValue:   cfg.Scoring.StaleValue,
		StaleRecency: cfg.Scoring.StaleRecency,
		Timeout:      cfg.Catalog.Timeout,
	}, s.Metrics, logger)

	s.Conversation = NewConversationOrchestrator(
		sessions,
		extraction.New(),
		completer,
		s.Engine,
		catalogQuerier,
		cache.NewResponseCache(cfg.Conversation.CacheSize, cfg.Conversation.CacheTTL),
		OrchestratorConfig{
			Convergence: ConvergenceThresholds{
				ForceTurns:      cfg.Conversation.ForceTurnThreshold,
				SufficientTurns: cfg.Conversation.SufficientTurns,
			},
			NarrowingThreshold: cfg.Conversation.NarrowingThreshold,
			SampleSize:         cfg.Catalog.SampleSize,
			LLMTimeout:         cfg.LLM.Timeout,
			CatalogTimeout:     cfg.Catalog.Timeout,
		},
		s.Metrics,
		logger,
	)

	s.Feedback = NewFeedbackService(weightStore, sink, s.Metrics, logger)
	s.UIConfig = NewUIConfigService(cfg.Scoring.MaxResults)

	checks = append(checks, databaseChecks(db)...)
	s.Health = NewHealthService(checks, reg, logger)

	return s, nil
}

// NewCompleter builds the configured language model client; provider
// "none" returns nil so every turn takes the static fallback path.
func NewCompleter(cfg config.LLMConfig, validator *validation.SchemaValidator, logger *logrus.Logger) (llm.Completer, error) {
	switch cfg.Provider {
	case "openai":
		return llm.NewOpenAICompleter(llm.OpenAIOptions{
			APIKey:        cfg.APIKey,
			BaseURL:       cfg.BaseURL,
			Model:         cfg.Model,
			FallbackModel: cfg.FallbackModel,
			MaxTokens:     cfg.MaxTokens,
			Temperature:   float32(cfg.Temperature),
		}, validator, logger)
	case "anthropic":
		return llm.NewAnthropicCompleter(llm.AnthropicOptions{
			APIKey:        cfg.APIKey,
			BaseURL:       cfg.BaseURL,
			Model:         cfg.Model,
			FallbackModel: cfg.FallbackModel,
			MaxTokens:     int64(cfg.MaxTokens),
			Temperature:   cfg.Temperature,
		}, validator, logger)
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// OpenSQLiteCatalog opens the file catalog, creating its directory and
// optionally loading the bundled sample laptops.
func OpenSQLiteCatalog(ctx context.Context, path string, seed bool) (*catalog.SQLiteCatalog, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}
	c, err := catalog.NewSQLiteCatalog(path)
	if err != nil {
		return nil, err
	}
	if seed {
		if err := c.Upsert(ctx, catalog.SampleLaptops()); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}
	return c, nil
}

func (s *Services) openCatalog(cfg *config.Config, db *database.Database, logger *logrus.Logger) (catalog.Querier, []HealthCheck, error) {
	switch cfg.Catalog.Driver {
	case "postgres":
		if db == nil || db.PG == nil {
			return nil, nil, errors.New("postgres catalog requires a database connection")
		}
		logger.Info("Using PostgreSQL catalog")
		return catalog.NewPostgresCatalog(db.PG), nil, nil
	default:
		c, err := OpenSQLiteCatalog(context.Background(), cfg.Catalog.SQLitePath, cfg.Catalog.SeedSample)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SQLite catalog: %w", err)
		}
		s.closers = append(s.closers, c.Close)
		logger.WithField("path", cfg.Catalog.SQLitePath).Info("Using SQLite catalog")
		return c, []HealthCheck{{Name: "sqlite_catalog", Critical: true, Check: c.Ping}}, nil
	}
}

func (s *Services) buildSink(cfg *config.Config, db *database.Database, logger *logrus.Logger) messaging.Sink {
	sinks := messaging.MultiSink{messaging.NewLogSink(logger)}

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink := messaging.NewKafkaSink(messaging.KafkaSinkConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		}, logger)
		s.closers = append(s.closers, kafkaSink.Close)
		sinks = append(sinks, kafkaSink)
	}
	if db != nil && db.Neo4j != nil {
		sinks = append(sinks, messaging.NewGraphSink(db.Neo4j, logger))
	}
	return sinks
}

func buildSessionStore(cfg *config.Config, db *database.Database) session.Store {
	if cfg.Session.Store == "redis" && db != nil && db.Redis != nil {
		return session.NewRedisStore(db.Redis, cfg.Session.KeyPrefix, cfg.Session.TTL)
	}
	return session.NewMemoryStore(cfg.Session.TTL, cfg.Session.CleanupInterval)
}

func buildWeightStore(cfg *config.Config, db *database.Database) weights.Store {
	if cfg.Weights.Store == "redis" && db != nil && db.Redis != nil {
		return weights.NewRedisStore(db.Redis, cfg.Weights.MaxHistory)
	}
	return weights.NewMemoryStore(cfg.Weights.MaxHistory)
}

func databaseChecks(db *database.Database) []HealthCheck {
	if db == nil {
		return nil
	}
	var checks []HealthCheck
	if db.PG != nil {
		checks = append(checks, HealthCheck{Name: "postgresql", Critical: true, Check: db.PG.Ping})
	}
	if db.Redis != nil {
		checks = append(checks, HealthCheck{Name: "redis", Critical: true, Check: func(ctx context.Context) error {
			return db.Redis.Ping(ctx).Err()
		}})
	}
	if db.Neo4j != nil {
		checks = append(checks, HealthCheck{Name: "neo4j", Check: db.Neo4j.VerifyConnectivity})
	}
	return checks
}

// Close releases the catalog and analytics writers.
func (s *Services) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
