package config

import (
	"time"

	"github.com/randalmurphal/contentkit/generator"
	"github.com/randalmurphal/contentkit/model"
	"github.com/randalmurphal/contentkit/provider"
	"github.com/randalmurphal/contentkit/tokens"
)

// Prefix is the environment variable prefix.
const Prefix = "contentkit"

// Config is the complete process configuration.
type Config struct {
	Provider  provider.Config `yaml:"provider" toml:"provider"`
	Generator GeneratorConfig `yaml:"generator" toml:"generator"`
	Templates TemplatesConfig `yaml:"templates" toml:"templates"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	Server    ServerConfig    `yaml:"server" toml:"server"`
}

// GeneratorConfig configures the orchestrator.
type GeneratorConfig struct {
	CacheSize        int           `yaml:"cache_size" toml:"cache_size" split_words:"true" desc:"result cache capacity" validate:"gte=1"`
	CacheTTL         time.Duration `yaml:"cache_ttl" toml:"cache_ttl" split_words:"true" desc:"result cache entry lifetime" validate:"gte=0"`
	HistorySize      int           `yaml:"history_size" toml:"history_size" split_words:"true" desc:"history entries kept" validate:"gte=1"`
	RetryAttempts    int           `yaml:"retry_attempts" toml:"retry_attempts" split_words:"true" desc:"extra attempts after a failed generation" validate:"gte=0,lte=10"`
	RetryPause       time.Duration `yaml:"retry_pause" toml:"retry_pause" split_words:"true" desc:"pause before a retried generation" validate:"gte=0"`
	CostAlert        float64       `yaml:"cost_alert" toml:"cost_alert" split_words:"true" desc:"per-generation cost in USD that logs a warning" validate:"gt=0"`
	BatchConcurrency int           `yaml:"batch_concurrency" toml:"batch_concurrency" split_words:"true" desc:"parallel batch width" validate:"gte=1,lte=32"`
	EstimateModel    string        `yaml:"estimate_model" toml:"estimate_model" split_words:"true" desc:"model priced by cost estimates" validate:"required"`
	AutoSaveDir      string        `yaml:"auto_save_dir" toml:"auto_save_dir" split_words:"true" desc:"directory for the history written on shutdown"`
	TokenCounter     string        `yaml:"token_counter" toml:"token_counter" split_words:"true" desc:"tiktoken for exact counts, estimate for the offline chars/4 rule" validate:"oneof=tiktoken estimate"`
}

// Token counter names.
const (
	CounterTiktoken = "tiktoken"
	CounterEstimate = "estimate"
)

// CounterFactory returns the token counter factory named by TokenCounter.
func (g GeneratorConfig) CounterFactory() func(model string) tokens.Counter {
	if g.TokenCounter == CounterEstimate {
		return tokens.EstimatorFactory
	}
	return tokens.ForModel
}

// TemplatesConfig selects where templates come from.
type TemplatesConfig struct {
	CatalogPath  string `yaml:"catalog_path" toml:"catalog_path" split_words:"true" desc:"YAML template catalog to load"`
	Watch        bool   `yaml:"watch" toml:"watch" desc:"reload the catalog when it changes"`
	LoadBuiltins bool   `yaml:"load_builtins" toml:"load_builtins" split_words:"true" desc:"register the built-in templates"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" desc:"debug, info, warn, or error" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" toml:"format" desc:"text or json" validate:"oneof=text json"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr              string        `yaml:"addr" toml:"addr" desc:"listen address" validate:"required"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" toml:"read_header_timeout" split_words:"true" validate:"gte=0"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" split_words:"true" validate:"gte=0"`
	RequestTimeout    time.Duration `yaml:"request_timeout" toml:"request_timeout" split_words:"true" desc:"per-request deadline, 0 for none" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider: provider.DefaultConfig(),
		Generator: GeneratorConfig{
			CacheSize:        generator.DefaultCacheSize,
			CacheTTL:         generator.DefaultCacheTTL,
			HistorySize:      generator.DefaultHistorySize,
			RetryAttempts:    generator.DefaultRetryAttempts,
			RetryPause:       generator.DefaultRetryPause,
			CostAlert:        generator.DefaultCostAlertThreshold,
			BatchConcurrency: generator.DefaultBatchConcurrency,
			EstimateModel:    string(model.DefaultEstimateModel),
			TokenCounter:     CounterTiktoken,
		},
		Templates: TemplatesConfig{LoadBuiltins: true},
		Log:       LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8080",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			RequestTimeout:    2 * time.Minute,
		},
	}
}

// GeneratorOptions turns the generator section into constructor options.
func (c Config) GeneratorOptions() []generator.Option {
	g := c.Generator
	return []generator.Option{
		generator.WithCache(g.CacheSize, g.CacheTTL),
		generator.WithHistorySize(g.HistorySize),
		generator.WithRetry(g.RetryAttempts, g.RetryPause),
		generator.WithCostAlert(g.CostAlert),
		generator.WithBatchConcurrency(g.BatchConcurrency),
		generator.WithEstimateModel(g.EstimateModel),
		generator.WithAutoSaveDir(g.AutoSaveDir),
		generator.WithTokenCounter(g.CounterFactory()),
	}
}
