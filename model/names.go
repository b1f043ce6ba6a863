package model

import "strings"

// ModelName is a canonical chat model identifier.
type ModelName string

// OpenAI chat model constants.
const (
	ModelGPT4          ModelName = "gpt-4"
	ModelGPT4Turbo     ModelName = "gpt-4-turbo"
	ModelGPT4o         ModelName = "gpt-4o"
	ModelGPT4oMini     ModelName = "gpt-4o-mini"
	ModelGPT35Turbo    ModelName = "gpt-3.5-turbo"
	ModelGPT35Turbo16k ModelName = "gpt-3.5-turbo-16k"
)

// DefaultModel is used for remote calls when no model is configured.
const DefaultModel = ModelGPT35Turbo

// DefaultEstimateModel is used by offline cost estimates when the caller
// names no model.
const DefaultEstimateModel = ModelGPT4oMini

// knownModels is ordered longest first so prefix matching picks the most
// specific family.
var knownModels = []ModelName{
	ModelGPT35Turbo16k,
	ModelGPT35Turbo,
	ModelGPT4oMini,
	ModelGPT4Turbo,
	ModelGPT4o,
	ModelGPT4,
}

// KnownModels returns the model families the package has pricing and limits for.
func KnownModels() []ModelName {
	out := make([]ModelName, len(knownModels))
	copy(out, knownModels)
	return out
}

// NormalizeModelName maps a dated snapshot identifier to its family.
// For example, "gpt-3.5-turbo-0125" becomes "gpt-3.5-turbo" and
// "gpt-4o-mini-2024-07-18" becomes "gpt-4o-mini".
// Names that match no known family are returned lowercased and trimmed.
func NormalizeModelName(name string) ModelName {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, m := range knownModels {
		if n == string(m) || strings.HasPrefix(n, string(m)+"-") {
			return m
		}
	}
	return ModelName(n)
}

// IsKnown reports whether name normalizes to a known model family.
func IsKnown(name string) bool {
	n := NormalizeModelName(name)
	for _, m := range knownModels {
		if n == m {
			return true
		}
	}
	return false
}
