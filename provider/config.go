package provider

import (
	"fmt"
	"time"
)

// Config holds configuration for a provider client and the Manager around it.
// Struct tags drive file decoding (yaml, toml), environment overrides
// (envconfig), and validation.
type Config struct {
	// --- Provider Selection ---

	// Name is the registered provider to use: "openai" or "mock".
	Name string `json:"name" yaml:"name" toml:"name" validate:"required"`

	// --- Credentials and Endpoint ---

	// APIKey authenticates against the provider. Never logged unmasked.
	APIKey string `json:"-" yaml:"api_key" toml:"api_key" split_words:"true"`

	// BaseURL points the openai client at a compatible server.
	// Empty uses the public OpenAI endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url" toml:"base_url" split_words:"true" validate:"omitempty,url"`

	// --- Generation Defaults ---

	// Model is the default chat model.
	Model string `json:"model" yaml:"model" toml:"model" validate:"required"`

	// MaxTokens is the default completion limit.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens" split_words:"true" validate:"gte=1"`

	// Temperature is the default sampling temperature.
	Temperature float64 `json:"temperature" yaml:"temperature" toml:"temperature" validate:"gte=0,lte=2"`

	// --- Execution Limits ---

	// Timeout bounds each remote call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" toml:"timeout" validate:"gt=0"`

	// ExtendedTimeout is used for slow operations such as batches.
	ExtendedTimeout time.Duration `json:"extended_timeout" yaml:"extended_timeout" toml:"extended_timeout" split_words:"true" validate:"gtefield=Timeout"`

	// RetryAttempts is the total number of tries for transient failures.
	RetryAttempts int `json:"retry_attempts" yaml:"retry_attempts" toml:"retry_attempts" split_words:"true" validate:"gte=1,lte=10"`

	// RetryBaseDelay is the first backoff pause.
	RetryBaseDelay time.Duration `json:"retry_base_delay" yaml:"retry_base_delay" toml:"retry_base_delay" split_words:"true" validate:"gte=0"`

	// RetryMultiplier scales each subsequent pause.
	RetryMultiplier float64 `json:"retry_multiplier" yaml:"retry_multiplier" toml:"retry_multiplier" split_words:"true" validate:"gte=1"`

	// BatchConcurrency bounds parallel batch requests.
	BatchConcurrency int `json:"batch_concurrency" yaml:"batch_concurrency" toml:"batch_concurrency" split_words:"true" validate:"gte=1,lte=32"`

	// --- Caching ---

	// CacheSize is the response cache capacity. 0 disables the cache.
	CacheSize int `json:"cache_size" yaml:"cache_size" toml:"cache_size" split_words:"true" validate:"gte=0"`

	// CacheTTL is how long cached responses stay fresh.
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" toml:"cache_ttl" split_words:"true" validate:"gte=0"`

	// KeyValidationTTL is how long a key validation result is trusted.
	KeyValidationTTL time.Duration `json:"key_validation_ttl" yaml:"key_validation_ttl" toml:"key_validation_ttl" split_words:"true" validate:"gte=0"`

	// --- Observability ---

	// Tracing wraps the HTTP transport with an OpenTelemetry middleware.
	Tracing bool `json:"tracing" yaml:"tracing" toml:"tracing"`

	// --- Provider-Specific Options ---

	// Options holds provider-specific configuration.
	//
	// Mock:
	//   - "content": string (fixed completion text)
	//   - "fail": string (failure kind to return, e.g. "rate_limit")
	//   - "latency": duration or string (delay before each completion)
	Options map[string]any `json:"options,omitempty" yaml:"options" toml:"options" ignored:"true"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Name:             "openai",
		Model:            "gpt-3.5-turbo",
		MaxTokens:        2000,
		Temperature:      0.7,
		Timeout:          30 * time.Second,
		ExtendedTimeout:  45 * time.Second,
		RetryAttempts:    DefaultMaxAttempts,
		RetryBaseDelay:   DefaultBaseDelay,
		RetryMultiplier:  DefaultMultiplier,
		BatchConcurrency: DefaultBatchConcurrency,
		CacheSize:        100,
		CacheTTL:         time.Hour,
		KeyValidationTTL: time.Hour,
	}
}

// Validate checks the fields a client needs. The config package runs the
// full struct-tag validation.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be >= 0, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0, got %v", c.Temperature)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	return nil
}

// Policy returns the retry policy described by the config.
func (c Config) Policy() Policy {
	p := DefaultPolicy()
	if c.RetryAttempts > 0 {
		p.MaxAttempts = c.RetryAttempts
	}
	if c.RetryBaseDelay >= 0 {
		p.BaseDelay = c.RetryBaseDelay
	}
	if c.RetryMultiplier > 0 {
		p.Multiplier = c.RetryMultiplier
	}
	return p
}

// WithName returns a copy of the config with the specified provider.
func (c Config) WithName(name string) Config {
	c.Name = name
	return c
}

// WithModel returns a copy of the config with the specified model.
func (c Config) WithModel(model string) Config {
	c.Model = model
	return c
}

// WithOption returns a copy of the config with the specified option set.
func (c Config) WithOption(key string, value any) Config {
	opts := make(map[string]any, len(c.Options)+1)
	for k, v := range c.Options {
		opts[k] = v
	}
	opts[key] = value
	c.Options = opts
	return c
}

// GetStringOption retrieves a string option, returning defaultVal if not set.
func (c Config) GetStringOption(key, defaultVal string) string {
	if v, ok := c.Options[key].(string); ok {
		return v
	}
	return defaultVal
}

// GetBoolOption retrieves a bool option, returning defaultVal if not set.
func (c Config) GetBoolOption(key string, defaultVal bool) bool {
	if v, ok := c.Options[key].(bool); ok {
		return v
	}
	return defaultVal
}

// GetDurationOption retrieves a duration option given as a time.Duration or
// a string such as "50ms", returning defaultVal if not set or unparsable.
func (c Config) GetDurationOption(key string, defaultVal time.Duration) time.Duration {
	switch v := c.Options[key].(type) {
	case time.Duration:
		return v
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
