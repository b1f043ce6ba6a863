package provider

import "context"

// Client is the transport to a chat-completion backend.
// Implementations must be safe for concurrent use and must not retry;
// retries belong to the Manager.
type Client interface {
	// Complete sends one request and returns the model output.
	// Failures should be *Error values so the Manager can classify them.
	Complete(ctx context.Context, req Request) (*Completion, error)

	// Models lists the model ids visible to the credentials. It is the
	// cheapest authenticated call and backs key validation.
	Models(ctx context.Context) ([]string, error)

	// Provider returns the registered provider name.
	Provider() string

	// Close releases any resources held by the client.
	Close() error
}
