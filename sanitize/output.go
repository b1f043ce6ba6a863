package sanitize

import (
	"regexp"
	"strings"
)

var (
	punctuation = strings.NewReplacer(
		"\u2018", "'",
		"\u2019", "'",
		"\u201c", `"`,
		"\u201d", `"`,
		"\u2013", "-",
		"\u2014", "-",
		"\u2026", "...",
		"\u00a0", " ",
	)
	spaceRun     = regexp.MustCompile(` +`)
	blankLineRun = regexp.MustCompile(`\n{3,}`)
)

// CleanOutput strips XSS markup, folds typographic punctuation to ASCII,
// collapses runs of spaces, trims every line, and keeps at most one blank
// line between paragraphs.
func CleanOutput(content string) string {
	if content == "" {
		return ""
	}

	content = XSS.Strip(content)
	content = punctuation.Replace(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}

	result := strings.Join(lines, "\n")
	result = blankLineRun.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// RedactSensitive replaces emails, phone numbers, SSNs, and any extra
// patterns with [REDACTED].
func RedactSensitive(text string, extra ...*regexp.Regexp) string {
	if text == "" {
		return text
	}
	for _, re := range Sensitive {
		text = re.ReplaceAllString(text, "[REDACTED]")
	}
	for _, re := range extra {
		text = re.ReplaceAllString(text, "[REDACTED]")
	}
	return text
}

// MaskAPIKey keeps the first three and last four characters of key.
// Keys shorter than eight characters are fully masked.
func MaskAPIKey(key string) string {
	if len(key) < 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-4:]
}
