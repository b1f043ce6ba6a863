// Package contentkit generates marketing and editorial copy from prompt
// templates using a remote language model.
//
// The module is split into small packages that can be used on their own:
//
//   - template: Template store and renderer with {variable} placeholders
//   - provider: Model client wrapper with retry, cost tracking and batching
//   - openai, mock: Transports registered with the provider registry
//   - cache: LRU result cache with per-entry TTL
//   - generator: Orchestrator with history, statistics, variations and export
//   - tokens: Token counting (tiktoken with a 4 chars/token fallback)
//   - model: Price table and usage statistics
//   - extract: Pull lists, sections, FAQ pairs and data out of generated copy
//   - sanitize: Input deny-lists, output cleanup and log redaction
//   - config, metrics, server: Configuration, Prometheus metrics, HTTP API
//
// # Quick Start
//
// Rendering a built-in template:
//
//	store := template.NewStoreWithBuiltins()
//	prompt, _ := store.Render("meta_description", map[string]any{
//		"topic":   "Trail shoes",
//		"keyword": "running shoes",
//	}, template.RenderOptions{})
//
// Generating content:
//
//	import _ "github.com/randalmurphal/contentkit/providers"
//
//	mgr, _ := provider.NewManagerFromConfig(cfg.Provider)
//	gen := generator.New(store, mgr, cfg.GeneratorOptions()...)
//	defer gen.Close()
//	res := gen.Generate(ctx, "meta_description", vars,
//		generator.Overrides{}, generator.DefaultGenerateOptions())
//
// The contentkit command in cmd/contentkit wraps the same operations.
package contentkit
