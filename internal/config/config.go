package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Neo4j        Neo4jConfig        `mapstructure:"neo4j"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Catalog      CatalogConfig      `mapstructure:"catalog"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Scoring      ScoringConfig      `mapstructure:"scoring"`
	Session      SessionConfig      `mapstructure:"session"`
	Weights      WeightsConfig      `mapstructure:"weights"`
	Monitoring   MonitoringConfig   `mapstructure:"monitoring"`
	Security     SecurityConfig     `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig is the Postgres catalog connection. An empty URL disables it.
type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type Neo4jConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LLMConfig selects the completion provider: openai, anthropic or none.
type LLMConfig struct {
	Provider      string        `mapstructure:"provider"`
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Model         string        `mapstructure:"model"`
	FallbackModel string        `mapstructure:"fallback_model"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	Temperature   float64       `mapstructure:"temperature"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// CatalogConfig selects the catalog backend: postgres or sqlite.
type CatalogConfig struct {
	Driver     string        `mapstructure:"driver"`
	SQLitePath string        `mapstructure:"sqlite_path"`
	SeedSample bool          `mapstructure:"seed_sample"`
	Timeout    time.Duration `mapstructure:"timeout"`
	SampleSize int           `mapstructure:"sample_size"`
}

type ConversationConfig struct {
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	CacheSize          int           `mapstructure:"cache_size"`
	ForceTurnThreshold int           `mapstructure:"force_turn_threshold"`
	SufficientTurns    int           `mapstructure:"sufficient_turns"`
	NarrowingThreshold int           `mapstructure:"narrowing_threshold"`
}

type ScoringConfig struct {
	MaxResults      int     `mapstructure:"max_results"`
	MaxPerBrand     int     `mapstructure:"max_per_brand"`
	PriceSlack      float64 `mapstructure:"price_slack"`
	RelaxFactor     float64 `mapstructure:"relax_factor"`
	MinValue        float64 `mapstructure:"min_value"`
	StaleValue      float64 `mapstructure:"stale_value"`
	StaleRecency    float64 `mapstructure:"stale_recency"`
}

// SessionConfig selects the session store: memory or redis.
type SessionConfig struct {
	Store           string        `mapstructure:"store"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
}

type WeightsConfig struct {
	Store      string `mapstructure:"store"`
	MaxHistory int    `mapstructure:"max_history"`
}

type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects unknown backend selections.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "anthropic", "none":
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}
	switch c.Catalog.Driver {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("catalog.driver postgres requires database.url")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unknown catalog.driver %q", c.Catalog.Driver)
	}
	for name, store := range map[string]string{"session.store": c.Session.Store, "weights.store": c.Weights.Store} {
		switch store {
		case "memory":
		case "redis":
			if c.Redis.URL == "" {
				return fmt.Errorf("%s redis requires redis.url", name)
			}
		default:
			return fmt.Errorf("unknown %s %q", name, store)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "development")

	// Database defaults
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.max_idle_time", "15m")
	v.SetDefault("database.max_lifetime", "1h")
	v.SetDefault("database.connect_timeout", "10s")

	// Redis defaults
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.timeout", "5s")

	v.SetDefault("neo4j.url", "")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.password", "")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "advisor-analytics")
	v.SetDefault("kafka.write_timeout", "5s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Language model defaults
	v.SetDefault("llm.provider", "none")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.fallback_model", "")
	v.SetDefault("llm.max_tokens", 800)
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.timeout", "15s")

	// Catalog defaults
	v.SetDefault("catalog.driver", "sqlite")
	v.SetDefault("catalog.sqlite_path", "./data/catalog.db")
	v.SetDefault("catalog.seed_sample", true)
	v.SetDefault("catalog.timeout", "5s")
	v.SetDefault("catalog.sample_size", 5)

	// Conversation defaults
	v.SetDefault("conversation.cache_ttl", "5m")
	v.SetDefault("conversation.cache_size", 1000)
	v.SetDefault("conversation.force_turn_threshold", 2)
	v.SetDefault("conversation.sufficient_turns", 3)
	v.SetDefault("conversation.narrowing_threshold", 50)

	// Scoring defaults
	v.SetDefault("scoring.max_results", 5)
	v.SetDefault("scoring.max_per_brand", 2)
	v.SetDefault("scoring.price_slack", 0.2)
	v.SetDefault("scoring.relax_factor", 0.25)
	v.SetDefault("scoring.min_value", 0.2)
	v.SetDefault("scoring.stale_value", 0.3)
	v.SetDefault("scoring.stale_recency", 0.4)

	v.SetDefault("session.store", "memory")
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.cleanup_interval", "10m")
	v.SetDefault("session.key_prefix", "session:")

	v.SetDefault("weights.store", "memory")
	v.SetDefault("weights.max_history", 200)

	// Monitoring defaults
	v.SetDefault("monitoring.enabled", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")

	// Security defaults
	v.SetDefault("security.cors.allowed_origins", []string{"*"})
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("security.cors.allowed_headers", []string{"*"})
}
