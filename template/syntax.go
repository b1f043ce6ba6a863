package template

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	variablePattern   = regexp.MustCompile(`\{(\w+)\}`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_]\w*$`)
	nestedPattern     = regexp.MustCompile(`\{[^}]*\{`)
)

// ValidateSyntax checks a raw template body before registration. It never
// fails outright; ok is false when issues is non-empty.
//
// Checks: non-empty, length ceiling, balanced brace counts, identifier
// placeholder names, no nested braces, and no DefaultDenyList matches.
func ValidateSyntax(raw string) (ok bool, issues []string) {
	if raw == "" {
		return false, []string{"template string is empty"}
	}

	if utf8.RuneCountInString(raw) > MaxTemplateLength {
		issues = append(issues, fmt.Sprintf("template exceeds maximum length of %d", MaxTemplateLength))
	}

	open, closing := strings.Count(raw, "{"), strings.Count(raw, "}")
	if open != closing {
		issues = append(issues, fmt.Sprintf("unbalanced braces: %d opening, %d closing", open, closing))
	}

	for _, m := range variablePattern.FindAllStringSubmatch(raw, -1) {
		if !identifierPattern.MatchString(m[1]) {
			issues = append(issues, fmt.Sprintf("invalid variable name: '%s'", m[1]))
		}
	}

	if nestedPattern.MatchString(raw) {
		issues = append(issues, "nested braces are not supported")
	}

	if DefaultDenyList.Match(raw) {
		issues = append(issues, "template contains potentially dangerous content")
	}

	return len(issues) == 0, issues
}

// extractVariables returns deduplicated {name} matches in first-use order.
// It is the fallback when a body does not compile.
func extractVariables(body string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, m := range variablePattern.FindAllStringSubmatch(body, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			result = append(result, m[1])
		}
	}
	return result
}
