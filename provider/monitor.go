package provider

import "context"

// Monitor observes every request the Manager sends to its Client.
// Calls are synchronous on the request path, so implementations should
// be fast and must be safe for concurrent use.
type Monitor interface {
	OnStart(ctx context.Context, requestID, prompt, model string)
	OnComplete(ctx context.Context, requestID string, resp *Response)
	OnError(ctx context.Context, requestID string, err error)
}

// NopMonitor ignores every event. It is the Manager default.
type NopMonitor struct{}

func (NopMonitor) OnStart(context.Context, string, string, string) {}
func (NopMonitor) OnComplete(context.Context, string, *Response) {}
func (NopMonitor) OnError(context.Context, string, error) {}

// Monitors fans events out to each monitor in order.
type Monitors []Monitor

func (ms Monitors) OnStart(ctx context.Context, requestID, prompt, model string) {
	for _, m := range ms {
		m.OnStart(ctx, requestID, prompt, model)
	}
}

func (ms Monitors) OnComplete(ctx context.Context, requestID string, resp *Response) {
	for _, m := range ms {
		m.OnComplete(ctx, requestID, resp)
	}
}

func (ms Monitors) OnError(ctx context.Context, requestID string, err error) {
	for _, m := range ms {
		m.OnError(ctx, requestID, err)
	}
}
