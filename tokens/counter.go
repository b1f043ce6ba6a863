package tokens

import (
	"strings"
	"unicode/utf8"
)

// CharsPerToken is the rough ratio for English prose.
const CharsPerToken = 4.0

// Counter counts the tokens a model sees for a piece of text.
type Counter interface {
	Count(text string) int
}

// Fits reports whether text is at most limit tokens under c.
func Fits(c Counter, text string, limit int) bool {
	return c.Count(text) <= limit
}

// EstimatingCounter divides the rune count by Ratio, or by CharsPerToken
// when Ratio is not positive. It is the fallback whenever a real tokenizer
// is unavailable.
type EstimatingCounter struct {
	Ratio float64
}

// NewEstimatingCounter returns an estimator with the default ratio.
func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{Ratio: CharsPerToken}
}

// Count returns runes/Ratio, truncated toward zero.
func (c *EstimatingCounter) Count(text string) int {
	ratio := c.Ratio
	if ratio <= 0 {
		ratio = CharsPerToken
	}
	return int(float64(utf8.RuneCountInString(text)) / ratio)
}

// EstimateTokens estimates with the default ratio.
func EstimateTokens(text string) int {
	return (&EstimatingCounter{}).Count(text)
}

// DefaultContextWindow applies to models with no known window.
const DefaultContextWindow = 16385

var contextWindows = map[string]int{
	"gpt-4":             8192,
	"gpt-4-turbo":       128000,
	"gpt-4o":            128000,
	"gpt-4o-mini":       128000,
	"gpt-3.5-turbo":     16385,
	"gpt-3.5-turbo-16k": 16385,
}

// ContextWindow returns the token window of model. Dated snapshots such as
// "gpt-4o-2024-08-06" resolve to the longest known family prefix.
func ContextWindow(model string) int {
	best, window := 0, DefaultContextWindow
	for family, n := range contextWindows {
		if strings.HasPrefix(model, family) && len(family) > best {
			best, window = len(family), n
		}
	}
	return window
}
