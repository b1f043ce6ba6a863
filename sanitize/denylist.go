package sanitize

import (
	"fmt"
	"regexp"
)

// DenyList is an ordered set of patterns that reject or strip content.
type DenyList []*regexp.Regexp

// Compile builds a DenyList, failing on the first invalid pattern.
func Compile(patterns ...string) (DenyList, error) {
	d := make(DenyList, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile deny pattern %q: %w", p, err)
		}
		d = append(d, re)
	}
	return d, nil
}

// MustCompile is like Compile but panics on an invalid pattern.
func MustCompile(patterns ...string) DenyList {
	d, err := Compile(patterns...)
	if err != nil {
		panic(err)
	}
	return d
}

// Match reports whether any pattern matches s.
func (d DenyList) Match(s string) bool {
	_, ok := d.FirstMatch(s)
	return ok
}

// FirstMatch returns the source of the first pattern that matches s.
func (d DenyList) FirstMatch(s string) (string, bool) {
	for _, re := range d {
		if re.MatchString(s) {
			return re.String(), true
		}
	}
	return "", false
}

// Strip removes every match of every pattern, in order.
func (d DenyList) Strip(s string) string {
	for _, re := range d {
		s = re.ReplaceAllString(s, "")
	}
	return s
}

// Patterns returns the pattern sources.
func (d DenyList) Patterns() []string {
	out := make([]string, len(d))
	for i, re := range d {
		out[i] = re.String()
	}
	return out
}

// SQLInjection flags SQL keywords only when they appear in statement shape.
var SQLInjection = MustCompile(
	`(?i)\bSELECT\s+.+\s+FROM\s+\w+`,
	`(?i)\b(INSERT|UPDATE|DELETE)\s+.*(INTO|FROM|SET)\s+\w+`,
	`(?i)\bDROP\s+(TABLE|DATABASE|INDEX|VIEW)\b`,
	`(?i)\bEXEC(UTE)?\s*\(`,
	`(?i)\bCREATE\s+(TABLE|DATABASE|INDEX|VIEW)\b`,
	`(?i)\bALTER\s+(TABLE|DATABASE)\b`,
	`;\s*--`,
	`/\*.*\*/`,
	`(?i)\bOR\b\s+['"]\d+['"]?\s*=\s*['"]\d+`,
	`(?i)\bAND\b\s+['"]\d+['"]?\s*=\s*['"]\d+`,
	`(?i)'\s*OR\s+'\w*'\s*=\s*'\w*`,
	`(?i);\s*(DROP|DELETE|TRUNCATE|INSERT|UPDATE)\b`,
	`(?i)UNION\s+(ALL\s+)?SELECT`,
	`(?i)xp_\w+`,
)

// XSS matches script and embedded-object markup stripped from model output.
var XSS = MustCompile(
	`(?is)<script[^>]*>.*?</script>`,
	`(?i)javascript:`,
	`(?i)on\w+\s*=`,
	`(?i)<iframe[^>]*>`,
	`(?i)<object[^>]*>`,
	`(?i)<embed[^>]*>`,
)

// Sensitive matches personal data masked by RedactSensitive.
var Sensitive = MustCompile(
	`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`,
	`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`,
	`\b\d{3}-\d{2}-\d{4}\b`,
)
