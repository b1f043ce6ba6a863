// Package tokens provides token counting for chat prompts.
//
// Two counters implement Counter. TiktokenCounter uses the model's BPE
// encoding through tiktoken-go; EstimatingCounter divides the rune count by
// 4 and is used whenever the encoding cannot be loaded (for example when the
// BPE files cannot be downloaded).
//
//	counter := tokens.ForModel("gpt-3.5-turbo")
//	n := counter.Count("Hello, world!")
//
// For one-off estimates, use the convenience function:
//
//	n := tokens.EstimateTokens("Hello, world!") // 3
//
// # Context Windows
//
// ContextWindow returns the window of the OpenAI chat models the price
// table knows about, matching dated snapshots by family prefix, or
// DefaultContextWindow for anything else.
package tokens
