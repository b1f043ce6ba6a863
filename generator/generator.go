package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/contentkit/cache"
	"github.com/randalmurphal/contentkit/model"
	"github.com/randalmurphal/contentkit/provider"
	"github.com/randalmurphal/contentkit/sanitize"
	"github.com/randalmurphal/contentkit/template"
	"github.com/randalmurphal/contentkit/tokens"
)

// Defaults used when no option overrides them.
const (
	DefaultHistorySize        = 1000
	DefaultCacheSize          = cache.DefaultCapacity
	DefaultCacheTTL           = cache.DefaultTTL
	DefaultRetryAttempts      = 1
	DefaultRetryPause         = time.Second
	DefaultCostAlertThreshold = 1.00
	DefaultBatchConcurrency   = 3
	DefaultVariationCount     = 3

	// completionShare is the fraction of a template's recommended max
	// tokens that EstimateCost assumes a completion uses.
	completionShare = 0.6
)

// Completer performs one remote generation. *provider.Manager implements it.
type Completer interface {
	Generate(ctx context.Context, req provider.Request) (*provider.Response, error)
	Prices() model.PriceTable
}

// Optional Completer capabilities picked up by type assertion.
type (
	cacheClearer interface{ ClearCache() int }
	usageReporter interface {
		Statistics() model.UsageStatistics
	}
)

// Generator orchestrates template rendering, remote calls, caching and
// history. It is safe for concurrent use.
type Generator struct {
	store   *template.Store
	client  Completer
	logger  *slog.Logger
	now     func() time.Time
	counter func(model string) tokens.Counter

	cache    *cache.LRU[*Result]
	cacheCap int
	cacheTTL time.Duration

	historyCap    int
	retryAttempts int
	retryPause    time.Duration
	costAlert     float64
	concurrency   int
	estimateModel string
	autoSaveDir   string

	sessionID    string
	sessionStart time.Time

	mu          sync.Mutex
	history     []*Result
	sessionCost float64
	callbacks   []callbackEntry
	nextID      CallbackID
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClock replaces time.Now for timestamps and cache expiry.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithCache sets the result cache capacity and TTL. A zero TTL never expires.
func WithCache(capacity int, ttl time.Duration) Option {
	return func(g *Generator) {
		g.cacheCap = capacity
		g.cacheTTL = ttl
	}
}

// WithHistorySize bounds the history. Values < 1 keep the default.
func WithHistorySize(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.historyCap = n
		}
	}
}

// WithRetry sets how many extra attempts RetryOnFailure allows and the
// pause between them.
func WithRetry(attempts int, pause time.Duration) Option {
	return func(g *Generator) {
		if attempts >= 0 {
			g.retryAttempts = attempts
		}
		if pause >= 0 {
			g.retryPause = pause
		}
	}
}

// WithCostAlert sets the per-call cost above which a warning is logged.
func WithCostAlert(threshold float64) Option {
	return func(g *Generator) {
		if threshold > 0 {
			g.costAlert = threshold
		}
	}
}

// WithBatchConcurrency bounds parallel batches. Values < 1 keep the default.
func WithBatchConcurrency(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// WithTokenCounter replaces the per-model counter factory used by
// EstimateCost.
func WithTokenCounter(factory func(model string) tokens.Counter) Option {
	return func(g *Generator) {
		if factory != nil {
			g.counter = factory
		}
	}
}

// WithEstimateModel sets the model EstimateCost prices when none is given.
func WithEstimateModel(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.estimateModel = name
		}
	}
}

// WithAutoSaveDir makes Close write the history as JSON into dir.
func WithAutoSaveDir(dir string) Option {
	return func(g *Generator) { g.autoSaveDir = dir }
}

// New creates a Generator. A nil store gets the built-in templates; a nil
// client makes every uncached generation fail with ErrNoProvider.
func New(store *template.Store, client Completer, opts ...Option) *Generator {
	g := &Generator{
		store:         store,
		client:        client,
		logger:        slog.Default(),
		now:           time.Now,
		counter:       tokens.ForModel,
		cacheCap:      DefaultCacheSize,
		cacheTTL:      DefaultCacheTTL,
		historyCap:    DefaultHistorySize,
		retryAttempts: DefaultRetryAttempts,
		retryPause:    DefaultRetryPause,
		costAlert:     DefaultCostAlertThreshold,
		concurrency:   DefaultBatchConcurrency,
		estimateModel: string(model.DefaultEstimateModel),
		sessionID:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.store == nil {
		g.store = template.NewStoreWithBuiltins(template.WithLogger(g.logger))
	}
	g.cache = cache.New[*Result](
		cache.WithCapacity(g.cacheCap),
		cache.WithTTL(g.cacheTTL),
		cache.WithClock(g.clock))
	g.sessionStart = g.now()

	g.logger.Info("content generator initialized", slog.String("session_id", g.sessionID))
	return g
}

func (g *Generator) clock() time.Time {
	return g.now()
}

// Store returns the template store.
func (g *Generator) Store() *template.Store {
	return g.store
}

// SessionID returns the id generated for this Generator.
func (g *Generator) SessionID() string {
	return g.sessionID
}

// SessionStart returns when the Generator was created.
func (g *Generator) SessionStart() time.Time {
	return g.sessionStart
}

// remoteFailure carries a failed provider response through the retry loop.
type remoteFailure struct {
	resp *provider.Response
}

func (f *remoteFailure) Error() string {
	if f.resp.Error == "" {
		return "unknown API error"
	}
	return f.resp.Error
}

// retryable excludes prompt rejections from the blanket retry; everything
// else gets another attempt.
func retryable(err error) bool {
	return provider.KindOf(err) != provider.KindInvalidPrompt
}

// Generate renders templateName with vars, calls the model unless a fresh
// cached result exists, and records the outcome. With opts.UseCache unset
// the cache is neither read nor written. It never returns nil.
func (g *Generator) Generate(ctx context.Context, templateName string, vars map[string]any, ov Overrides, opts GenerateOptions) *Result {
	start := time.Now()
	res := &Result{
		TemplateUsed: templateName,
		Variables:    maps.Clone(vars),
		Timestamp:    g.now(),
		RequestID:    uuid.NewString(),
	}
	if res.Variables == nil {
		res.Variables = map[string]any{}
	}
	log := g.logger.With(slog.String("request_id", res.RequestID), slog.String("template", templateName))

	if err := sanitize.ValidateInput(templateName, res.Variables); err != nil {
		log.WarnContext(ctx, "input validation failed", slog.Any("error", err))
		return g.failed(ctx, res, start, fmt.Errorf("validation failed: %w", err))
	}

	tmpl, prompt, err := g.store.Resolve(templateName, res.Variables, template.RenderOptions{})
	if err != nil {
		var varErr *template.VariableError
		if errors.As(err, &varErr) && !varErr.Unresolved {
			res.MissingVariables = append([]string(nil), varErr.Missing...)
		}
		log.ErrorContext(ctx, "prompt rendering failed", slog.Any("error", err))
		return g.failed(ctx, res, start, err)
	}

	key := cacheKey(templateName, res.Variables)
	if opts.UseCache {
		if cached, ok := g.cache.Get(key); ok {
			log.DebugContext(ctx, "result cache hit")
			out := cached.Clone()
			out.RequestID = res.RequestID
			out.Timestamp = res.Timestamp
			out.Variables = res.Variables
			out.Cached = true
			out.GenerationTime = time.Since(start).Seconds()
			g.finish(ctx, out)
			return out
		}
	}

	if g.client == nil {
		log.ErrorContext(ctx, "no model provider available")
		return g.failed(ctx, res, start, ErrNoProvider)
	}

	req := provider.Request{
		Prompt:        prompt,
		SystemMessage: tmpl.SystemInstructions,
		Model:         ov.Model,
		MaxTokens:     tmpl.MaxTokens,
		Temperature:   provider.Float(tmpl.Temperature),
		SkipCache:     !opts.UseCache,
	}
	if ov.Temperature != nil {
		req.Temperature = provider.Float(*ov.Temperature)
	}
	if ov.MaxTokens != nil {
		req.MaxTokens = *ov.MaxTokens
	}

	log.InfoContext(ctx, "generating content",
		slog.String("model", req.Model),
		slog.Int("max_tokens", req.MaxTokens),
		slog.Float64("temperature", *req.Temperature))

	resp, err := g.callWithRetry(ctx, log, req, opts.RetryOnFailure)
	if err != nil {
		return g.failed(ctx, res, start, err)
	}

	res.Success = true
	res.Content = sanitize.CleanOutput(resp.Content)
	res.Model = resp.Model
	res.TokensUsed = countsFrom(resp.Usage)
	res.Cost = resp.Cost
	res.GenerationTime = time.Since(start).Seconds()

	g.mu.Lock()
	g.sessionCost += res.Cost
	g.mu.Unlock()

	if res.Cost > g.costAlert {
		log.WarnContext(ctx, "cost alert: generation exceeded threshold",
			slog.Float64("cost", res.Cost),
			slog.Float64("threshold", g.costAlert))
	}

	if opts.UseCache {
		g.cache.Set(key, res.Clone())
	}
	g.finish(ctx, res)

	log.InfoContext(ctx, "generation successful",
		slog.Int("tokens", res.TokensUsed.Total),
		slog.Float64("cost", res.Cost))
	return res
}

// callWithRetry wraps the client call in the blanket retry. It runs on top
// of the client's own transient-error retries.
func (g *Generator) callWithRetry(ctx context.Context, log *slog.Logger, req provider.Request, retry bool) (*provider.Response, error) {
	policy := provider.Policy{
		MaxAttempts: 1,
		BaseDelay:   g.retryPause,
		Multiplier:  1,
		Retryable:   retryable,
		OnRetry: func(attempt int, _ time.Duration, err error) {
			log.WarnContext(ctx, "generation attempt failed, retrying",
				slog.Int("attempt", attempt),
				slog.Any("error", err))
		},
	}
	if retry {
		policy.MaxAttempts += g.retryAttempts
	}

	return provider.Do(ctx, policy, func(ctx context.Context) (*provider.Response, error) {
		resp, err := g.client.Generate(ctx, req)
		if err != nil {
			return nil, err
		}
		if !resp.Success {
			return nil, &remoteFailure{resp: resp}
		}
		return resp, nil
	})
}

// failed completes res as a failure and records it.
func (g *Generator) failed(ctx context.Context, res *Result, start time.Time, err error) *Result {
	res.Success = false
	res.Content = ""
	res.Error = err.Error()
	res.GenerationTime = time.Since(start).Seconds()
	g.finish(ctx, res)
	return res
}

// finish appends res to the history and runs the callbacks.
func (g *Generator) finish(ctx context.Context, res *Result) {
	g.record(res)
	g.notify(ctx, res)
}

func cacheKey(templateName string, vars map[string]any) string {
	data, err := json.Marshal(vars)
	if err != nil {
		// fmt prints map keys sorted, so the key stays deterministic.
		data = []byte(fmt.Sprintf("%v", vars))
	}
	sum := sha256.Sum256(append([]byte(templateName+":"), data...))
	return hex.EncodeToString(sum[:])
}

// ClearCache empties the result cache, and the client's response cache
// when it has one, returning how many results were dropped.
func (g *Generator) ClearCache() int {
	n := g.cache.Clear()
	if c, ok := g.client.(cacheClearer); ok {
		c.ClearCache()
	}
	g.logger.Info("cleared result cache", slog.Int("entries", n))
	return n
}

// CacheLen returns the number of cached results.
func (g *Generator) CacheLen() int {
	return g.cache.Len()
}

// Close writes the history to AutoSaveDir when one is configured and the
// history is not empty, then clears the cache.
func (g *Generator) Close() error {
	var err error
	if g.autoSaveDir != "" && g.historyLen() > 0 {
		path := g.AutoSavePath()
		if err = g.ExportHistory(path, FormatJSON); err != nil {
			g.logger.Error("failed to auto-save history", slog.String("path", path), slog.Any("error", err))
		} else {
			g.logger.Info("auto-saved history", slog.String("path", path))
		}
	}
	g.ClearCache()
	return err
}
