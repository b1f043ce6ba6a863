package template

import (
	"fmt"
	"unicode/utf8"

	"github.com/randalmurphal/contentkit/sanitize"
)

// DefaultDenyList rejects variable values that look like SQL DDL, script
// tags, javascript: URIs, or inline event handlers.
var DefaultDenyList = sanitize.MustCompile(
	`(?i)(drop|delete|truncate|alter|insert|update)\s+(table|database|schema)`,
	`(?is)<script[^>]*>.*?</script>`,
	`(?i)javascript:`,
	`(?i)on\w+\s*=`,
)

// sanitizeValue rejects oversized or dangerous values. Values are returned
// unchanged: substitution is single-pass, so braces inside a value are never
// read as placeholders and need no escaping.
func sanitizeValue(name, value string, deny sanitize.DenyList) (string, error) {
	if utf8.RuneCountInString(value) > MaxVariableLength {
		return "", fmt.Errorf("%w: variable '%s' exceeds maximum length of %d", ErrSanitization, name, MaxVariableLength)
	}
	if deny.Match(value) {
		return "", fmt.Errorf("%w: variable '%s' contains potentially malicious content", ErrSanitization, name)
	}
	return value, nil
}
