package metrics

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/randalmurphal/contentkit/generator"
	"github.com/randalmurphal/contentkit/provider"
)

// Namespace prefixes every metric name.
const Namespace = "contentkit"

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Collector records remote requests and generation results. It implements
// provider.Monitor and is safe for concurrent use.
type Collector struct {
	requests    *prometheus.CounterVec
	errors      *prometheus.CounterVec
	tokens      *prometheus.CounterVec
	cost        *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	inFlight    prometheus.Gauge
	generations *prometheus.CounterVec
	cacheHits   prometheus.Counter

	mu      sync.Mutex
	pending map[string]pendingRequest
	now     func() time.Time
	known   func(template string) bool
}

// Option configures a Collector.
type Option func(*Collector)

// WithKnownTemplates labels failed results with their template name only
// when known reports it exists. Without it, only successful and cached
// results keep their name. The template label stays bounded by the
// registered templates.
func WithKnownTemplates(known func(template string) bool) Option {
	return func(c *Collector) { c.known = known }
}

type pendingRequest struct {
	model string
	start time.Time
}

var _ provider.Monitor = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, opts ...Option) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "requests_total",
			Help:      "Remote model requests by model and outcome.",
		}, []string{"model", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "request_errors_total",
			Help:      "Failed remote model requests by error kind.",
		}, []string{"kind"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tokens_total",
			Help:      "Tokens consumed by model and direction.",
		}, []string{"model", "type"}),
		cost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cost_dollars_total",
			Help:      "Estimated spend in US dollars by model.",
		}, []string{"model"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "request_duration_seconds",
			Help:      "Remote model request latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"model"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "requests_in_flight",
			Help:      "Remote model requests currently running.",
		}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "generations_total",
			Help:      "Generation results by template, outcome, and cache use.",
		}, []string{"template", "status", "cached"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_hits_total",
			Help:      "Generations served from the result cache.",
		}),
		pending: make(map[string]pendingRequest),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, col := range []prometheus.Collector{
		c.requests, c.errors, c.tokens, c.cost, c.latency, c.inFlight, c.generations, c.cacheHits,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// OnStart implements provider.Monitor.
func (c *Collector) OnStart(_ context.Context, requestID, _, model string) {
	c.mu.Lock()
	c.pending[requestID] = pendingRequest{model: model, start: c.now()}
	c.mu.Unlock()
	c.inFlight.Inc()
}

// OnComplete implements provider.Monitor.
func (c *Collector) OnComplete(_ context.Context, requestID string, resp *provider.Response) {
	p, started := c.finish(requestID)
	model := resp.Model
	if model == "" {
		model = p.model
	}

	c.requests.WithLabelValues(model, StatusSuccess).Inc()
	c.tokens.WithLabelValues(model, "prompt").Add(float64(resp.Usage.PromptTokens))
	c.tokens.WithLabelValues(model, "completion").Add(float64(resp.Usage.CompletionTokens))
	c.cost.WithLabelValues(model).Add(resp.Cost)

	switch {
	case resp.LatencyMS > 0:
		c.latency.WithLabelValues(model).Observe(resp.LatencyMS / 1000)
	case started:
		c.latency.WithLabelValues(model).Observe(c.now().Sub(p.start).Seconds())
	}
}

// OnError implements provider.Monitor.
func (c *Collector) OnError(_ context.Context, requestID string, err error) {
	p, started := c.finish(requestID)
	model := p.model
	if model == "" {
		model = "unknown"
	}

	c.requests.WithLabelValues(model, StatusError).Inc()
	c.errors.WithLabelValues(string(provider.KindOf(err))).Inc()
	if started {
		c.latency.WithLabelValues(model).Observe(c.now().Sub(p.start).Seconds())
	}
}

// finish forgets requestID and reports whether OnStart saw it.
func (c *Collector) finish(requestID string) (pendingRequest, bool) {
	c.mu.Lock()
	p, ok := c.pending[requestID]
	delete(c.pending, requestID)
	c.mu.Unlock()

	if ok {
		c.inFlight.Dec()
	}
	return p, ok
}

// ObserveResult counts one generation result. It has the generator.Callback
// signature and never fails.
func (c *Collector) ObserveResult(r *generator.Result) error {
	status := StatusSuccess
	if !r.Success {
		status = StatusError
	}
	c.generations.WithLabelValues(c.templateLabel(r), status, strconv.FormatBool(r.Cached)).Inc()
	if r.Cached {
		c.cacheHits.Inc()
	}
	return nil
}

// templateLabel returns the template name of r, or "unknown" when the name
// may not be a registered template.
func (c *Collector) templateLabel(r *generator.Result) string {
	name := r.TemplateUsed
	switch {
	case name == "":
		return "unknown"
	case r.Success || r.Cached:
		return name
	case c.known != nil && c.known(name):
		return name
	default:
		return "unknown"
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
