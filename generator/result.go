package generator

import (
	"maps"
	"time"

	"github.com/randalmurphal/contentkit/provider"
)

// TokenCounts is the token usage of one generation.
type TokenCounts struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

func countsFrom(u provider.TokenUsage) TokenCounts {
	return TokenCounts{Prompt: u.PromptTokens, Completion: u.CompletionTokens, Total: u.TotalTokens}
}

// Result is the outcome of one generation attempt. Error is set if and
// only if Success is false.
type Result struct {
	Success        bool           `json:"success"`
	Content        string         `json:"content"`
	TemplateUsed   string         `json:"template_used"`
	Variables      map[string]any `json:"variables"`
	Timestamp      time.Time      `json:"timestamp"`
	RequestID      string         `json:"request_id"`
	Model          string         `json:"model"`
	TokensUsed     TokenCounts    `json:"tokens_used"`
	Cost           float64        `json:"cost"`
	Cached         bool           `json:"cached"`
	GenerationTime float64        `json:"generation_time"` // seconds
	Error          string         `json:"error,omitempty"`

	// MissingVariables lists required variables the caller left out.
	MissingVariables []string `json:"missing_variables,omitempty"`

	// Set only on results of GenerateMultipleVariations.
	VariationNumber      int      `json:"variation_number,omitempty"`
	VariationTemperature *float64 `json:"variation_temperature,omitempty"`
}

// Clone returns a copy that shares nothing mutable with r. Variable values
// are copied shallowly.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := *r
	out.Variables = maps.Clone(r.Variables)
	if r.MissingVariables != nil {
		out.MissingVariables = append([]string(nil), r.MissingVariables...)
	}
	if r.VariationTemperature != nil {
		v := *r.VariationTemperature
		out.VariationTemperature = &v
	}
	return &out
}

// Overrides replace the template's recommended settings for one call.
// Zero values leave the recommendation in place.
type Overrides struct {
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Model       string   `json:"model,omitempty"`
}

// GenerateOptions control caching and the blanket retry of one call.
type GenerateOptions struct {
	UseCache       bool
	RetryOnFailure bool
}

// DefaultGenerateOptions enables both the cache and the retry.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{UseCache: true, RetryOnFailure: true}
}
