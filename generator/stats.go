package generator

import (
	"math"
	"time"

	"github.com/randalmurphal/contentkit/model"
)

// Statistics is a view over the history and the result cache.
type Statistics struct {
	TotalGenerations      int                `json:"total_generations"`
	SuccessfulGenerations int                `json:"successful_generations"`
	FailedGenerations     int                `json:"failed_generations"`
	SuccessRate           float64            `json:"success_rate"`
	TotalCost             float64            `json:"total_cost"`
	TotalTokens           int                `json:"total_tokens"`
	TemplatesUsed         map[string]int     `json:"templates_used"`
	CostByTemplate        map[string]float64 `json:"cost_by_template"`
	CacheHitRate          float64            `json:"cache_hit_rate"`
	AverageGenerationTime float64            `json:"average_generation_time"`

	// SessionCost is the cost of every successful generation since New,
	// including entries trimmed from the history.
	SessionCost float64 `json:"session_cost"`

	SessionID    string    `json:"session_id"`
	SessionStart time.Time `json:"session_start"`
	HistorySize  int       `json:"history_size"`
	CacheSize    int       `json:"cache_size"`

	// Provider holds the client's own counters when it reports them.
	Provider *model.UsageStatistics `json:"provider,omitempty"`
}

// Statistics derives counts, cost, and timing from the current history.
func (g *Generator) Statistics() Statistics {
	history := g.snapshot()
	g.mu.Lock()
	sessionCost := g.sessionCost
	g.mu.Unlock()

	s := Statistics{
		TotalGenerations: len(history),
		TemplatesUsed:    make(map[string]int),
		CostByTemplate:   make(map[string]float64),
		CacheHitRate:     g.cache.HitRate(),
		SessionCost:      model.Round6(sessionCost),
		SessionID:        g.sessionID,
		SessionStart:     g.sessionStart,
		HistorySize:      len(history),
		CacheSize:        g.cache.Len(),
	}

	var totalCost, timeSum float64
	var timed int
	for _, r := range history {
		if r.Success {
			s.SuccessfulGenerations++
		}
		totalCost += r.Cost
		s.TotalTokens += r.TokensUsed.Total

		name := r.TemplateUsed
		if name == "" {
			name = "unknown"
		}
		s.TemplatesUsed[name]++
		s.CostByTemplate[name] += r.Cost

		if r.GenerationTime > 0 {
			timeSum += r.GenerationTime
			timed++
		}
	}

	s.FailedGenerations = s.TotalGenerations - s.SuccessfulGenerations
	if s.TotalGenerations > 0 {
		s.SuccessRate = float64(s.SuccessfulGenerations) / float64(s.TotalGenerations) * 100
	}
	s.TotalCost = model.Round6(totalCost)
	for k, v := range s.CostByTemplate {
		s.CostByTemplate[k] = model.Round6(v)
	}
	if timed > 0 {
		s.AverageGenerationTime = math.Round(timeSum/float64(timed)*1000) / 1000
	}

	if r, ok := g.client.(usageReporter); ok {
		u := r.Statistics()
		s.Provider = &u
	}
	return s
}
