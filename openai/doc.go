// Package openai is the "openai" provider: a provider.Client over the
// OpenAI chat completions API, or any server that speaks it.
//
// The client never retries on its own; provider.Manager owns retries.
// Errors are classified into provider kinds so the Manager can decide
// which ones are transient:
//
//	401, 403         → authentication
//	429              → rate limit (retryable)
//	other statuses   → server, with the status code
//	deadline         → timeout
//	network failure  → connection (retryable)
//
// Set Config.Tracing to wrap every HTTP call in an OpenTelemetry client
// span carrying gen_ai.* attributes.
package openai
