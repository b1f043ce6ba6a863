package provider

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// mockClient is a testify double for Client.
type mockClient struct {
	mock.Mock
}

func (m *mockClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	args := m.Called(ctx, req)
	comp, _ := args.Get(0).(*Completion)
	return comp, args.Error(1)
}

func (m *mockClient) Models(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	models, _ := args.Get(0).([]string)
	return models, args.Error(1)
}

func (m *mockClient) Provider() string { return "mock-test" }

func (m *mockClient) Close() error { return nil }

// funcClient runs a function per call, for concurrency tests where
// expectation ordering does not matter.
type funcClient struct {
	name     string
	complete func(ctx context.Context, req Request) (*Completion, error)

	mu    sync.Mutex
	calls int
}

func (f *funcClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.complete == nil {
		return &Completion{Content: "ok", Usage: NewTokenUsage(1, 1)}, nil
	}
	return f.complete(ctx, req)
}

func (f *funcClient) Models(context.Context) ([]string, error) { return nil, nil }

func (f *funcClient) Provider() string {
	if f.name == "" {
		return "func"
	}
	return f.name
}

func (f *funcClient) Close() error { return nil }

func (f *funcClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
