package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/randalmurphal/contentkit/sanitize"
)

// RenderOptions control Render.
type RenderOptions struct {
	// SkipSanitize disables the deny-list and length checks on variable values.
	SkipSanitize bool

	// IncludeSystem prepends the system instructions as "[System: ...]".
	IncludeSystem bool

	// DenyList overrides DefaultDenyList when sanitizing.
	DenyList sanitize.DenyList
}

// segment is either literal text or a placeholder name.
type segment struct {
	literal string
	field   string
}

// compiled is a parsed template body.
type compiled struct {
	segments []segment
}

// compile parses body. "{{" and "}}" are literal braces; "{name}" is a
// placeholder where name is letters, digits, and underscores.
func compile(body string) (*compiled, error) {
	c := &compiled{}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			c.segments = append(c.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(body); {
		ch := body[i]
		switch ch {
		case '{':
			if i+1 < len(body) && body[i+1] == '{' {
				lit.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexAny(body[i+1:], "{}")
			if end < 0 || body[i+1+end] == '{' {
				return nil, fmt.Errorf("%w: unmatched '{' at offset %d", ErrTemplateValidation, i)
			}
			field := body[i+1 : i+1+end]
			if !isPlaceholderName(field) {
				return nil, fmt.Errorf("%w: invalid placeholder '{%s}'", ErrTemplateValidation, field)
			}
			flush()
			c.segments = append(c.segments, segment{field: field})
			i += end + 2
		case '}':
			if i+1 < len(body) && body[i+1] == '}' {
				lit.WriteByte('}')
				i += 2
				continue
			}
			return nil, fmt.Errorf("%w: single '}' at offset %d", ErrTemplateValidation, i)
		default:
			lit.WriteByte(ch)
			i++
		}
	}
	flush()
	return c, nil
}

// fields returns placeholder names in first-use order.
func (c *compiled) fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range c.segments {
		if s.field != "" && !seen[s.field] {
			seen[s.field] = true
			out = append(out, s.field)
		}
	}
	return out
}

func isPlaceholderName(s string) bool {
	if s == "" {
		return false
	}
	digits := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		isDigit := c >= '0' && c <= '9'
		if !isDigit {
			digits = false
		}
		if !isDigit && c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return !digits
}

// Placeholders returns the variable names the body references.
func (t *Template) Placeholders() []string {
	if c, err := compile(t.Template); err == nil {
		return c.fields()
	}
	return extractVariables(t.Template)
}

// Render validates vars, merges optional defaults, sanitizes values, and
// substitutes them into the body.
//
// A required variable that is absent, nil, or blank fails with a
// *VariableError listing every missing name. When no "tone" is declared or
// supplied, DefaultTone fills it.
func (t *Template) Render(vars map[string]any, opts RenderOptions) (string, error) {
	c, err := compile(t.Template)
	if err != nil {
		return "", err
	}
	return t.render(c, vars, opts)
}

func (t *Template) render(c *compiled, vars map[string]any, opts RenderOptions) (string, error) {
	if ok, missing := t.ValidateVariables(vars); !ok {
		return "", &VariableError{Template: t.Name, Missing: missing}
	}

	merged := make(map[string]string, len(t.OptionalVariables)+len(vars)+1)
	for k, v := range t.OptionalVariables {
		merged[k] = v
	}
	if _, ok := merged["tone"]; !ok {
		if _, ok := vars["tone"]; !ok {
			merged["tone"] = t.DefaultTone
		}
	}

	deny := opts.DenyList
	if deny == nil {
		deny = DefaultDenyList
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s := FormatValue(vars[k])
		if !opts.SkipSanitize {
			var err error
			if s, err = sanitizeValue(k, s, deny); err != nil {
				return "", err
			}
		}
		merged[k] = s
	}

	var b strings.Builder
	b.Grow(len(t.Template))
	for _, seg := range c.segments {
		if seg.field == "" {
			b.WriteString(seg.literal)
			continue
		}
		v, ok := merged[seg.field]
		if !ok {
			return "", &VariableError{Template: t.Name, Missing: []string{seg.field}, Unresolved: true}
		}
		b.WriteString(v)
	}

	result := b.String()
	if opts.IncludeSystem && t.SystemInstructions != "" {
		result = "[System: " + t.SystemInstructions + "]\n\n" + result
	}
	return result, nil
}
