package provider

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_IsMatchesKindSentinel(t *testing.T) {
	tests := []struct {
		kind     Kind
		sentinel error
	}{
		{KindInvalidPrompt, ErrInvalidPrompt},
		{KindAuthentication, ErrAuthentication},
		{KindRateLimit, ErrRateLimited},
		{KindConnection, ErrConnection},
		{KindServer, ErrServer},
		{KindTimeout, ErrTimeout},
		{KindUnexpected, ErrUnexpected},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", NewError("openai", "complete", tt.kind, errors.New("boom")))
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
			if got := KindOf(err); got != tt.kind {
				t.Errorf("KindOf() = %q, expected %q", got, tt.kind)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Provider: "openai", Op: "complete", Kind: KindServer, StatusCode: 503, Err: errors.New("overloaded")}
	want := "openai complete: server (status 503): overloaded"
	if err.Error() != want {
		t.Errorf("Error() = %q, expected %q", err.Error(), want)
	}

	bare := &Error{Op: "generate", Kind: KindInvalidPrompt, Err: errors.New("prompt cannot be empty")}
	if bare.Error() != "generate: invalid_prompt: prompt cannot be empty" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestNewError_Retryable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindRateLimit, true},
		{KindConnection, true},
		{KindAuthentication, false},
		{KindServer, false},
		{KindTimeout, false},
		{KindUnexpected, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := NewError("p", "op", tt.kind, errors.New("x"))
			if IsRetryable(err) != tt.want {
				t.Errorf("IsRetryable(%s) = %v, expected %v", tt.kind, !tt.want, tt.want)
			}
		})
	}
}

func TestIsRetryable_Sentinels(t *testing.T) {
	if !IsRetryable(fmt.Errorf("x: %w", ErrRateLimited)) {
		t.Error("wrapped ErrRateLimited should be retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
}

func TestHelpers(t *testing.T) {
	auth := NewError("openai", "models", KindAuthentication, errors.New("bad key"))
	auth.StatusCode = 401

	if !IsAuthError(auth) {
		t.Error("IsAuthError = false")
	}
	if StatusCode(fmt.Errorf("ctx: %w", auth)) != 401 {
		t.Errorf("StatusCode = %d, expected 401", StatusCode(auth))
	}
	if StatusCode(errors.New("x")) != 0 {
		t.Error("StatusCode of a plain error should be 0")
	}
	if KindOf(errors.New("x")) != KindUnexpected {
		t.Error("KindOf of a plain error should be unexpected")
	}
}
