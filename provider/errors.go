package provider

import (
	"errors"
	"fmt"
)

// Kind classifies a remote-call failure.
type Kind string

// Failure kinds. The set is closed; anything unclassified is KindUnexpected.
const (
	KindInvalidPrompt  Kind = "invalid_prompt"
	KindAuthentication Kind = "authentication"
	KindRateLimit      Kind = "rate_limit"
	KindConnection     Kind = "connection"
	KindServer         Kind = "server"
	KindTimeout        Kind = "timeout"
	KindUnexpected     Kind = "unexpected"
)

// Sentinel errors for provider operations. A *Error matches the sentinel
// of its Kind with errors.Is.
var (
	// ErrUnknownProvider indicates the requested provider is not registered.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrDuplicateProvider indicates a second factory for a registered name.
	ErrDuplicateProvider = errors.New("provider already registered")

	ErrInvalidPrompt  = errors.New("invalid prompt")
	ErrAuthentication = errors.New("invalid API key")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrConnection     = errors.New("connection failed")
	ErrServer         = errors.New("server error")
	ErrTimeout        = errors.New("request timed out")
	ErrUnexpected     = errors.New("unexpected error")
)

var kindSentinels = map[Kind]error{
	KindInvalidPrompt:  ErrInvalidPrompt,
	KindAuthentication: ErrAuthentication,
	KindRateLimit:      ErrRateLimited,
	KindConnection:     ErrConnection,
	KindServer:         ErrServer,
	KindTimeout:        ErrTimeout,
	KindUnexpected:     ErrUnexpected,
}

// Error wraps provider errors with context.
type Error struct {
	Provider   string // Provider name ("openai", "mock")
	Op         string // Operation that failed ("complete", "models")
	Kind       Kind
	StatusCode int    // HTTP status, 0 when there was no response
	RequestID  string // Manager request id, when known
	Err        error  // Underlying error
	Retryable  bool   // Whether the error is likely transient
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Kind, e.Err)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	if e.Provider != "" {
		return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && target == s
}

// NewError creates a provider error. Rate-limit and connection failures
// are marked retryable.
func NewError(provider, op string, kind Kind, err error) *Error {
	return &Error{
		Provider:  provider,
		Op:        op,
		Kind:      kind,
		Err:       err,
		Retryable: kind == KindRateLimit || kind == KindConnection,
	}
}

// KindOf returns the failure kind of err. Errors that are not *Error
// values, and nil, report KindUnexpected.
func KindOf(err error) Kind {
	var provErr *Error
	if errors.As(err, &provErr) && provErr.Kind != "" {
		return provErr.Kind
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindUnexpected
}

// IsRetryable checks if an error is likely transient and worth retrying.
func IsRetryable(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrConnection)
}

// IsAuthError checks if an error is authentication-related.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.StatusCode
	}
	return 0
}
