package provider

import "time"

// Request is one prompt to complete.
// Zero values mean "use the Manager default".
type Request struct {
	// Prompt is the user message. It must not be blank.
	Prompt string `json:"prompt"`

	// SystemMessage is sent as the system turn when non-empty.
	SystemMessage string `json:"system_message,omitempty"`

	// Model overrides the manager's model.
	Model string `json:"model,omitempty"`

	// MaxTokens limits the completion length.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls sampling. Nil uses the default; a pointer so 0.0
	// can be requested explicitly.
	Temperature *float64 `json:"temperature,omitempty"`

	// SkipCache bypasses the response cache for both lookup and store.
	SkipCache bool `json:"-"`
}

// Float returns a pointer to v, for Request.Temperature.
func Float(v float64) *float64 {
	return &v
}

// Completion is what a Client returns for a successful call.
type Completion struct {
	ID           string     `json:"id,omitempty"`
	Content      string     `json:"content"`
	Model        string     `json:"model"`
	FinishReason string     `json:"finish_reason"`
	Usage        TokenUsage `json:"usage"`
}

// TokenUsage tracks token consumption. Total is always Prompt+Completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewTokenUsage builds a usage record with a consistent total.
func NewTokenUsage(prompt, completion int) TokenUsage {
	if prompt < 0 {
		prompt = 0
	}
	if completion < 0 {
		completion = 0
	}
	return TokenUsage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

// Add combines token usage from another TokenUsage.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// Response is the structured outcome of Manager.Generate, success or not.
type Response struct {
	Success      bool       `json:"success"`
	Content      string     `json:"content"`
	Model        string     `json:"model"`
	Usage        TokenUsage `json:"tokens_used"`
	Cost         float64    `json:"cost"`
	Timestamp    time.Time  `json:"timestamp"`
	RequestID    string     `json:"request_id"`
	FinishReason string     `json:"finish_reason,omitempty"`
	Cached       bool       `json:"cached"`
	LatencyMS    float64    `json:"latency_ms"`
	Error        string     `json:"error,omitempty"`

	// Kind classifies Error. Empty on success.
	Kind Kind `json:"error_kind,omitempty"`
}

// Clone returns a shallow copy; Response has no reference fields.
func (r *Response) Clone() *Response {
	c := *r
	return &c
}
