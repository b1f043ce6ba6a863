package truncate

import (
	"strings"
	"unicode/utf8"
)

// DefaultSuffix marks truncated text.
const DefaultSuffix = "..."

// Text truncates text to at most maxLen runes, suffix included, cutting at
// the last space before the limit. A single word longer than the limit is
// cut mid-word. When maxLen is shorter than suffix, the text is hard-cut to
// maxLen runes with no suffix.
func Text(text string, maxLen int, suffix string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	runes := []rune(text)
	suffixLen := utf8.RuneCountInString(suffix)
	if maxLen < suffixLen {
		return string(runes[:maxLen])
	}

	cut := string(runes[:maxLen-suffixLen])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + suffix
}

// Preview returns the first n runes of text followed by DefaultSuffix, or
// text unchanged when it already fits.
func Preview(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + DefaultSuffix
}
