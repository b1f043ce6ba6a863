package generator

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/randalmurphal/contentkit/provider"
	"github.com/randalmurphal/contentkit/template"
	"github.com/randalmurphal/contentkit/tokens"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubClient is a provider.Client whose behavior is a function and which
// records every request.
type stubClient struct {
	complete func(ctx context.Context, req provider.Request) (*provider.Completion, error)

	mu       sync.Mutex
	requests []provider.Request
}

func (s *stubClient) Complete(ctx context.Context, req provider.Request) (*provider.Completion, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.complete == nil {
		return okCompletion("Generated copy."), nil
	}
	return s.complete(ctx, req)
}

func (s *stubClient) Models(context.Context) ([]string, error) { return []string{"gpt-3.5-turbo"}, nil }
func (s *stubClient) Provider() string                         { return "stub" }
func (s *stubClient) Close() error                             { return nil }

func (s *stubClient) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *stubClient) Requests() []provider.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]provider.Request(nil), s.requests...)
}

func okCompletion(content string) *provider.Completion {
	return &provider.Completion{
		ID:           "cmpl-1",
		Content:      content,
		Model:        "gpt-3.5-turbo",
		FinishReason: "stop",
		Usage:        provider.NewTokenUsage(100, 50),
	}
}

func newTestManager(client provider.Client) *provider.Manager {
	return provider.NewManager(client,
		provider.WithLogger(discardLogger()),
		provider.WithTokenCounter(tokens.EstimatorFactory),
		provider.WithRetryPolicy(provider.Policy{MaxAttempts: 1}),
		provider.WithResponseCache(0, 0))
}

// newTestGenerator wires a Generator over the built-in templates and a
// stub client, with millisecond retry pauses and offline token counting.
func newTestGenerator(t *testing.T, client *stubClient, opts ...Option) *Generator {
	t.Helper()
	store := template.NewStoreWithBuiltins(template.WithLogger(discardLogger()))
	base := []Option{
		WithLogger(discardLogger()),
		WithRetry(1, 0),
		WithTokenCounter(tokens.EstimatorFactory),
	}
	return New(store, newTestManager(client), append(base, opts...)...)
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func productVars() map[string]any {
	return map[string]any{
		"product_name": "Smart Watch",
		"features":     "GPS, heart rate",
		"audience":     "athletes",
	}
}
