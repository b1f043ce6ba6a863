package mock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/randalmurphal/contentkit/provider"
	"github.com/randalmurphal/contentkit/tokens"
)

// ProviderName is the registry name.
const ProviderName = "mock"

// DefaultContent is returned when no content is configured.
const DefaultContent = "Mock response for testing."

// Client implements provider.Client without network access.
type Client struct {
	model   string
	latency time.Duration
	calls   atomic.Int64

	mu      sync.RWMutex
	content string
	failure error
	models  []string
}

var _ provider.Client = (*Client)(nil)

// New creates a client from cfg. The options "content", "fail" and
// "latency" are honored; an unknown failure kind is an error.
func New(cfg provider.Config) (*Client, error) {
	c := &Client{
		model:   cfg.Model,
		latency: cfg.GetDurationOption("latency", 0),
		content: cfg.GetStringOption("content", DefaultContent),
		models:  []string{cfg.Model},
	}
	if kind := cfg.GetStringOption("fail", ""); kind != "" {
		k := provider.Kind(kind)
		switch k {
		case provider.KindAuthentication, provider.KindRateLimit, provider.KindConnection,
			provider.KindServer, provider.KindTimeout, provider.KindUnexpected:
		default:
			return nil, fmt.Errorf("mock: unknown failure kind %q", kind)
		}
		c.failure = provider.NewError(ProviderName, "complete", k, errors.New("simulated failure"))
	}
	return c, nil
}

// SetContent changes the completion text.
func (c *Client) SetContent(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = content
}

// FailWith makes every later call return err. A nil err clears the failure.
func (c *Client) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failure = err
}

// Calls returns how many times Complete has been invoked.
func (c *Client) Calls() int {
	return int(c.calls.Load())
}

// Complete echoes the configured content. Usage is estimated from the
// prompt, system message and content.
func (c *Client) Complete(ctx context.Context, req provider.Request) (*provider.Completion, error) {
	n := c.calls.Add(1)

	if c.latency > 0 {
		timer := time.NewTimer(c.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, provider.NewError(ProviderName, "complete", provider.KindTimeout, ctx.Err())
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, provider.NewError(ProviderName, "complete", provider.KindTimeout, err)
	}

	c.mu.RLock()
	content, failure := c.content, c.failure
	c.mu.RUnlock()
	if failure != nil {
		return nil, failure
	}

	modelName := req.Model
	if modelName == "" {
		modelName = c.model
	}
	return &provider.Completion{
		ID:           fmt.Sprintf("mock-%d", n),
		Content:      content,
		Model:        modelName,
		FinishReason: "stop",
		Usage: provider.NewTokenUsage(
			tokens.EstimateTokens(req.SystemMessage+req.Prompt),
			tokens.EstimateTokens(content)),
	}, nil
}

// Models returns the configured model. It fails like Complete when a
// failure is set, so key validation can be simulated.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.failure != nil {
		return nil, c.failure
	}
	return append([]string(nil), c.models...), nil
}

// Provider returns ProviderName.
func (c *Client) Provider() string {
	return ProviderName
}

// Close is a no-op.
func (c *Client) Close() error {
	return nil
}

func init() {
	provider.Register(ProviderName, func(cfg provider.Config) (provider.Client, error) {
		return New(cfg)
	})
}
