// Package provider wraps a remote chat-completion backend with the
// resilience and accounting every content generation needs.
//
// A Client is the thin transport (OpenAI-compatible HTTP, or the offline
// mock). A Manager composes a Client with request ids, a response cache,
// transient-error retries, per-model pricing, usage statistics, API key
// validation, and bounded parallel batches.
//
// # Usage
//
// Create a client through the registry and wrap it:
//
//	client, err := provider.New("openai", provider.Config{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-4o-mini",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	mgr := provider.NewManager(client, provider.WithModel("gpt-4o-mini"))
//	resp, err := mgr.Generate(ctx, provider.Request{Prompt: "Write a haiku"})
//
// Generate returns an error only for requests rejected before any network
// call (an empty or oversized prompt). Remote failures come back as a
// Response with Success false and Error set.
//
// # Available Providers
//
//   - "openai": OpenAI chat completions, or any compatible server via BaseURL
//   - "mock": deterministic offline client for tests and dry runs
//
// Import github.com/randalmurphal/contentkit/providers to register both.
package provider
