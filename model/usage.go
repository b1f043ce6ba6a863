package model

import (
	"sync"
)

// Usage tracks one model's successful requests, failures, tokens, and cost.
type Usage struct {
	Requests         int     `json:"requests"`
	Failures         int     `json:"failures"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	Cost             float64 `json:"cost"`
}

// Add adds the given usage to this usage.
func (u *Usage) Add(other Usage) {
	u.Requests += other.Requests
	u.Failures += other.Failures
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.Cost += other.Cost
}

// TotalTokens returns the total tokens used.
func (u Usage) TotalTokens() int {
	return u.PromptTokens + u.CompletionTokens
}

// UsageStatistics is a point-in-time view of a UsageTracker.
type UsageStatistics struct {
	TotalRequests      int              `json:"total_requests"`
	SuccessfulRequests int              `json:"successful_requests"`
	FailedRequests     int              `json:"failed_requests"`
	PromptTokens       int              `json:"total_prompt_tokens"`
	CompletionTokens   int              `json:"total_completion_tokens"`
	TotalTokens        int              `json:"total_tokens"`
	TotalCost          float64          `json:"total_cost"`
	ByModel            map[string]Usage `json:"by_model"`
}

// SuccessRate returns successful/total as a percentage, or 0 with no requests.
func (s UsageStatistics) SuccessRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.SuccessfulRequests) / float64(s.TotalRequests) * 100
}

// UsageTracker accumulates request outcomes. It is safe for concurrent use.
type UsageTracker struct {
	mu    sync.RWMutex
	stats UsageStatistics
}

// NewUsageTracker creates an empty tracker.
func NewUsageTracker() *UsageTracker {
	return &UsageTracker{
		stats: UsageStatistics{ByModel: make(map[string]Usage)},
	}
}

// RecordSuccess adds a successful request for model.
func (t *UsageTracker) RecordSuccess(model string, promptTokens, completionTokens int, cost float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.TotalRequests++
	t.stats.SuccessfulRequests++
	t.stats.PromptTokens += promptTokens
	t.stats.CompletionTokens += completionTokens
	t.stats.TotalTokens += promptTokens + completionTokens
	t.stats.TotalCost += cost

	u := t.stats.ByModel[model]
	u.Add(Usage{
		Requests:         1,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		Cost:             cost,
	})
	t.stats.ByModel[model] = u
}

// RecordFailure adds a failed request for model. Failures carry no tokens
// or cost. An empty model only counts toward the totals.
func (t *UsageTracker) RecordFailure(model string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.TotalRequests++
	t.stats.FailedRequests++
	if model == "" {
		return
	}
	u := t.stats.ByModel[model]
	u.Failures++
	t.stats.ByModel[model] = u
}

// Snapshot returns a copy of the current statistics with costs rounded to
// six decimal places.
func (t *UsageTracker) Snapshot() UsageStatistics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := t.stats
	s.TotalCost = Round6(s.TotalCost)
	s.ByModel = make(map[string]Usage, len(t.stats.ByModel))
	for k, v := range t.stats.ByModel {
		v.Cost = Round6(v.Cost)
		s.ByModel[k] = v
	}
	return s
}

// Reset clears all tracked usage.
func (t *UsageTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = UsageStatistics{ByModel: make(map[string]Usage)}
}
