package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/contentkit/cache"
	"github.com/randalmurphal/contentkit/model"
	"github.com/randalmurphal/contentkit/sanitize"
	"github.com/randalmurphal/contentkit/tokens"
	"github.com/randalmurphal/contentkit/truncate"
)

// Manager defaults.
const (
	DefaultBatchConcurrency = 3
	DefaultOutputRatio      = 1.5
	DefaultKeyValidationTTL = time.Hour
	promptPreviewLength     = 100
)

// Manager wraps a Client with caching, retries, pricing, and usage
// statistics. It is safe for concurrent use.
type Manager struct {
	client      Client
	model       string
	maxTokens   int
	temperature float64
	policy      Policy
	prices      model.PriceTable
	counter     func(model string) tokens.Counter
	cache       *cache.LRU[*Response]
	usage       *model.UsageTracker
	monitor     Monitor
	logger      *slog.Logger
	now         func() time.Time
	concurrency int
	keyTTL      time.Duration
	apiKey      string

	requests atomic.Uint64

	keyMu        sync.Mutex
	keyValid     *bool
	keyCheckedAt time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithModel sets the default model.
func WithModel(name string) ManagerOption {
	return func(m *Manager) {
		if name != "" {
			m.model = name
		}
	}
}

// WithMaxTokens sets the default completion limit.
func WithMaxTokens(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.maxTokens = n
		}
	}
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(t float64) ManagerOption {
	return func(m *Manager) { m.temperature = t }
}

// WithRetryPolicy replaces DefaultPolicy.
func WithRetryPolicy(p Policy) ManagerOption {
	return func(m *Manager) { m.policy = p }
}

// WithPriceTable replaces model.DefaultPrices.
func WithPriceTable(p model.PriceTable) ManagerOption {
	return func(m *Manager) {
		if p != nil {
			m.prices = p
		}
	}
}

// WithTokenCounter sets the per-model counter factory used by
// EstimateCost and the context-window check. Defaults to tokens.ForModel.
func WithTokenCounter(factory func(model string) tokens.Counter) ManagerOption {
	return func(m *Manager) {
		if factory != nil {
			m.counter = factory
		}
	}
}

// WithResponseCache sizes the response cache. A capacity of 0 disables it.
func WithResponseCache(capacity int, ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if capacity <= 0 {
			m.cache = nil
			return
		}
		m.cache = cache.New[*Response](cache.WithCapacity(capacity), cache.WithTTL(ttl), cache.WithClock(m.clock))
	}
}

// WithMonitor installs a request monitor.
func WithMonitor(mon Monitor) ManagerOption {
	return func(m *Manager) {
		if mon != nil {
			m.monitor = mon
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock replaces time.Now for timestamps, cache expiry, and key
// validation expiry.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithBatchConcurrency bounds parallel batches.
func WithBatchConcurrency(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithKeyValidationTTL sets how long ValidateAPIKey trusts a result.
func WithKeyValidationTTL(d time.Duration) ManagerOption {
	return func(m *Manager) { m.keyTTL = d }
}

// WithAPIKey records the key for masked logging. It does not configure
// the Client.
func WithAPIKey(key string) ManagerOption {
	return func(m *Manager) { m.apiKey = key }
}

// NewManager wraps client.
func NewManager(client Client, opts ...ManagerOption) *Manager {
	m := &Manager{
		client:      client,
		model:       string(model.DefaultModel),
		maxTokens:   2000,
		temperature: 0.7,
		policy:      DefaultPolicy(),
		prices:      model.DefaultPrices,
		counter:     tokens.ForModel,
		usage:       model.NewUsageTracker(),
		monitor:     NopMonitor{},
		logger:      slog.Default(),
		now:         time.Now,
		concurrency: DefaultBatchConcurrency,
		keyTTL:      DefaultKeyValidationTTL,
	}
	m.cache = cache.New[*Response](cache.WithClock(m.clock))
	for _, opt := range opts {
		opt(m)
	}

	m.logger.Info("provider manager initialized",
		slog.String("provider", client.Provider()),
		slog.String("model", m.model),
		slog.String("api_key", sanitize.MaskAPIKey(m.apiKey)))
	return m
}

// NewManagerFromConfig creates the configured Client and wraps it.
// Extra options are applied after those derived from cfg.
func NewManagerFromConfig(cfg Config, opts ...ManagerOption) (*Manager, error) {
	client, err := FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	base := []ManagerOption{
		WithModel(cfg.Model),
		WithMaxTokens(cfg.MaxTokens),
		WithTemperature(cfg.Temperature),
		WithRetryPolicy(cfg.Policy()),
		WithBatchConcurrency(cfg.BatchConcurrency),
		WithResponseCache(cfg.CacheSize, cfg.CacheTTL),
		WithKeyValidationTTL(cfg.KeyValidationTTL),
		WithAPIKey(cfg.APIKey),
	}
	return NewManager(client, append(base, opts...)...), nil
}

// clock indirects through m.now so options applied later still take effect.
func (m *Manager) clock() time.Time {
	return m.now()
}

// Model returns the default model.
func (m *Manager) Model() string {
	return m.model
}

// MaxTokens returns the default completion limit.
func (m *Manager) MaxTokens() int {
	return m.maxTokens
}

// Provider returns the wrapped client's provider name.
func (m *Manager) Provider() string {
	return m.client.Provider()
}

// Close closes the wrapped client.
func (m *Manager) Close() error {
	return m.client.Close()
}

func (m *Manager) nextRequestID() string {
	n := m.requests.Add(1)
	return fmt.Sprintf("req-%s-%d", uuid.NewString()[:8], n)
}

func cacheKey(prompt, system, modelName string) string {
	sum := sha256.Sum256([]byte(prompt + "|" + system + "|" + modelName))
	return hex.EncodeToString(sum[:])
}

// promptPreview is the only form in which prompts reach the logs.
func promptPreview(prompt string) string {
	return truncate.Preview(sanitize.RedactSensitive(prompt), promptPreviewLength)
}

// Generate completes req. The returned error is non-nil only when req is
// rejected before any remote call; remote failures are reported in the
// Response.
func (m *Manager) Generate(ctx context.Context, req Request) (*Response, error) {
	requestID := m.nextRequestID()
	timestamp := m.now()

	if strings.TrimSpace(req.Prompt) == "" {
		err := &Error{Op: "generate", Kind: KindInvalidPrompt, RequestID: requestID, Err: errors.New("prompt cannot be empty")}
		return nil, err
	}

	resolved := m.resolve(req)
	limit := tokens.ContextWindow(string(model.NormalizeModelName(resolved.Model)))
	if !tokens.Fits(m.counter(resolved.Model), resolved.SystemMessage+resolved.Prompt, limit) {
		err := &Error{Op: "generate", Kind: KindInvalidPrompt, RequestID: requestID,
			Err: fmt.Errorf("prompt exceeds the %d token context window of %s", limit, resolved.Model)}
		return nil, err
	}

	log := m.logger.With(slog.String("request_id", requestID))

	var key string
	if !req.SkipCache && m.cache != nil {
		key = cacheKey(resolved.Prompt, resolved.SystemMessage, resolved.Model)
		if cached, ok := m.cache.Get(key); ok {
			log.DebugContext(ctx, "response cache hit", slog.String("prompt", promptPreview(req.Prompt)))
			out := cached.Clone()
			out.RequestID = requestID
			out.Timestamp = timestamp
			out.Cached = true
			return out, nil
		}
	}

	log.DebugContext(ctx, "generating content",
		slog.String("model", resolved.Model),
		slog.Int("max_tokens", resolved.MaxTokens),
		slog.Float64("temperature", *resolved.Temperature),
		slog.String("prompt", promptPreview(req.Prompt)))

	m.monitor.OnStart(ctx, requestID, req.Prompt, resolved.Model)

	policy := m.policy
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		log.WarnContext(ctx, "remote call failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", policy.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", err))
	}

	start := time.Now()
	comp, err := Do(ctx, policy, func(ctx context.Context) (*Completion, error) {
		return m.client.Complete(ctx, resolved)
	})
	latency := time.Since(start)

	if err != nil {
		return m.fail(ctx, log, requestID, timestamp, resolved.Model, err), nil
	}

	cost, known := m.prices.Cost(resolved.Model, comp.Usage.PromptTokens, comp.Usage.CompletionTokens)
	if !known {
		log.WarnContext(ctx, "unknown model for cost calculation", slog.String("model", resolved.Model))
	}

	finish := comp.FinishReason
	if finish == "" {
		finish = "unknown"
	}
	resp := &Response{
		Success:      true,
		Content:      comp.Content,
		Model:        resolved.Model,
		Usage:        NewTokenUsage(comp.Usage.PromptTokens, comp.Usage.CompletionTokens),
		Cost:         cost,
		Timestamp:    timestamp,
		RequestID:    requestID,
		FinishReason: finish,
		LatencyMS:    float64(latency.Microseconds()) / 1000,
	}

	m.usage.RecordSuccess(resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Cost)
	if key != "" {
		m.cache.Set(key, resp.Clone())
	}

	log.InfoContext(ctx, "generation successful",
		slog.Int("tokens", resp.Usage.TotalTokens),
		slog.Float64("cost", resp.Cost),
		slog.Float64("latency_ms", resp.LatencyMS))
	m.monitor.OnComplete(ctx, requestID, resp)
	return resp, nil
}

func (m *Manager) resolve(req Request) Request {
	if req.Model == "" {
		req.Model = m.model
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = m.maxTokens
	}
	if req.Temperature == nil {
		req.Temperature = Float(m.temperature)
	}
	return req
}

func (m *Manager) fail(ctx context.Context, log *slog.Logger, requestID string, ts time.Time, modelName string, err error) *Response {
	var provErr *Error
	if errors.As(err, &provErr) {
		provErr.RequestID = requestID
	} else {
		err = &Error{Provider: m.client.Provider(), Op: "complete", Kind: KindUnexpected, RequestID: requestID, Err: err}
	}
	kind := KindOf(err)

	m.usage.RecordFailure(modelName)
	m.monitor.OnError(ctx, requestID, err)

	if kind == KindAuthentication {
		log.ErrorContext(ctx, "authentication failed", slog.String("api_key", sanitize.MaskAPIKey(m.apiKey)), slog.Any("error", err))
	} else {
		log.ErrorContext(ctx, "generation failed", slog.String("kind", string(kind)), slog.Any("error", err))
	}

	return &Response{
		Success:   false,
		Model:     modelName,
		Timestamp: ts,
		RequestID: requestID,
		Error:     err.Error(),
		Kind:      kind,
	}
}

// BatchOptions configures GenerateBatch. Request fields apply to every prompt.
type BatchOptions struct {
	Parallel      bool
	SystemMessage string
	Model         string
	MaxTokens     int
	Temperature   *float64
	SkipCache     bool
}

// GenerateBatch completes each prompt and returns one Response per prompt,
// in input order. Rejected prompts yield failed Responses. Parallel batches
// run at most the configured concurrency at once.
func (m *Manager) GenerateBatch(ctx context.Context, prompts []string, opts BatchOptions) []*Response {
	if len(prompts) == 0 {
		return nil
	}
	m.logger.InfoContext(ctx, "starting batch generation",
		slog.Int("prompts", len(prompts)),
		slog.Bool("parallel", opts.Parallel))

	results := make([]*Response, len(prompts))
	one := func(i int) {
		req := Request{
			Prompt:        prompts[i],
			SystemMessage: opts.SystemMessage,
			Model:         opts.Model,
			MaxTokens:     opts.MaxTokens,
			Temperature:   opts.Temperature,
			SkipCache:     opts.SkipCache,
		}
		results[i] = m.generateOrFail(ctx, req)
	}

	if !opts.Parallel {
		for i := range prompts {
			one(i)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for i := range prompts {
		g.Go(func() error {
			one(i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// generateOrFail folds a pre-flight rejection into a failed Response.
func (m *Manager) generateOrFail(ctx context.Context, req Request) *Response {
	resp, err := m.Generate(ctx, req)
	if err == nil {
		return resp
	}
	r := &Response{
		Success:   false,
		Model:     m.resolve(req).Model,
		Timestamp: m.now(),
		Error:     err.Error(),
		Kind:      KindOf(err),
	}
	var provErr *Error
	if errors.As(err, &provErr) {
		r.RequestID = provErr.RequestID
	}
	return r
}

// CostEstimate is a pre-flight price projection.
type CostEstimate struct {
	InputTokens           int     `json:"input_tokens"`
	EstimatedOutputTokens int     `json:"estimated_output_tokens"`
	TotalTokens           int     `json:"total_tokens"`
	InputCost             float64 `json:"input_cost"`
	OutputCost            float64 `json:"output_cost"`
	TotalCost             float64 `json:"total_cost"`
	Model                 string  `json:"model"`
}

// EstimateCost prices text without calling the remote API. Output tokens
// are projected as outputRatio times the input tokens, capped at the
// default max tokens. Empty modelName uses the default model; a ratio
// <= 0 uses DefaultOutputRatio. Unknown models cost zero.
func (m *Manager) EstimateCost(text, modelName string, outputRatio float64) CostEstimate {
	if modelName == "" {
		modelName = m.model
	}
	if outputRatio <= 0 {
		outputRatio = DefaultOutputRatio
	}

	input := m.counter(modelName).Count(text)
	output := min(int(float64(input)*outputRatio), m.maxTokens)

	b, _ := m.prices.Price(modelName, input, output)
	return CostEstimate{
		InputTokens:           input,
		EstimatedOutputTokens: output,
		TotalTokens:           input + output,
		InputCost:             b.InputCost,
		OutputCost:            b.OutputCost,
		TotalCost:             b.TotalCost,
		Model:                 modelName,
	}
}

// CountTokens counts text with the counter for modelName.
func (m *Manager) CountTokens(text, modelName string) int {
	if modelName == "" {
		modelName = m.model
	}
	return m.counter(modelName).Count(text)
}

// Prices returns the price table in use.
func (m *Manager) Prices() model.PriceTable {
	return m.prices
}

// Statistics returns a snapshot of usage since creation or the last reset.
func (m *Manager) Statistics() model.UsageStatistics {
	return m.usage.Snapshot()
}

// ResetStatistics zeroes the usage counters.
func (m *Manager) ResetStatistics() {
	m.usage.Reset()
	m.logger.Info("usage statistics reset")
}

// ClearCache empties the response cache and returns how many entries it held.
func (m *Manager) ClearCache() int {
	if m.cache == nil {
		return 0
	}
	n := m.cache.Clear()
	m.logger.Info("cleared response cache", slog.Int("entries", n))
	return n
}

// CacheLen returns the number of cached responses.
func (m *Manager) CacheLen() int {
	if m.cache == nil {
		return 0
	}
	return m.cache.Len()
}

// ValidateAPIKey reports whether the client's credentials are accepted.
// A result is reused for the key validation TTL unless force is set. Only
// an authentication failure marks the key invalid; other errors return
// false without caching.
func (m *Manager) ValidateAPIKey(ctx context.Context, force bool) bool {
	m.keyMu.Lock()
	defer m.keyMu.Unlock()

	if !force && m.keyValid != nil && m.now().Sub(m.keyCheckedAt) < m.keyTTL {
		return *m.keyValid
	}

	m.logger.DebugContext(ctx, "validating API key", slog.String("api_key", sanitize.MaskAPIKey(m.apiKey)))

	_, err := m.client.Models(ctx)
	switch {
	case err == nil:
		m.setKeyValid(true)
		m.logger.InfoContext(ctx, "API key validation successful")
		return true
	case IsAuthError(err):
		m.setKeyValid(false)
		m.logger.WarnContext(ctx, "API key validation failed")
		return false
	default:
		m.logger.ErrorContext(ctx, "unexpected error during API key validation", slog.Any("error", err))
		return false
	}
}

func (m *Manager) setKeyValid(v bool) {
	m.keyValid = &v
	m.keyCheckedAt = m.now()
}

// Rate limit probe results.
const (
	RateLimitOK      = "ok"
	RateLimitLimited = "rate_limited"
	RateLimitError   = "error"
)

// RateLimitStatus is the outcome of CheckRateLimit.
type RateLimitStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// CheckRateLimit probes the provider with a minimal authenticated call.
// Providers do not expose remaining quota, so this only reports whether a
// call is currently being throttled.
func (m *Manager) CheckRateLimit(ctx context.Context) RateLimitStatus {
	_, err := m.client.Models(ctx)
	switch {
	case err == nil:
		return RateLimitStatus{Status: RateLimitOK, Message: "rate limit information not directly available from API"}
	case errors.Is(err, ErrRateLimited):
		return RateLimitStatus{Status: RateLimitLimited, Message: err.Error()}
	default:
		return RateLimitStatus{Status: RateLimitError, Message: err.Error()}
	}
}
