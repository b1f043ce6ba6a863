package template

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for template operations.
var (
	// ErrTemplateNotFound is returned when a named template is not registered.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrTemplateValidation is returned when a template fails structural
	// validation or a catalog operation would violate name uniqueness.
	ErrTemplateValidation = errors.New("template validation failed")

	// ErrVariableValidation is returned when required variables are missing
	// or a placeholder cannot be resolved.
	ErrVariableValidation = errors.New("variable validation failed")

	// ErrSanitization is returned when a variable value is rejected by the
	// deny-list or exceeds the value length ceiling.
	ErrSanitization = errors.New("variable sanitization failed")
)

// VariableError describes variables a render could not satisfy.
// It wraps ErrVariableValidation.
type VariableError struct {
	Template string
	Missing  []string

	// Unresolved is true when Missing names a placeholder with no value and
	// no default, rather than a required variable the caller left out.
	Unresolved bool
}

// Error implements the error interface.
func (e *VariableError) Error() string {
	if e.Unresolved {
		return fmt.Sprintf("template variable %s not provided and has no default", quoteList(e.Missing))
	}
	return fmt.Sprintf("missing required variables for template '%s': %s", e.Template, quoteList(e.Missing))
}

// Unwrap returns ErrVariableValidation.
func (e *VariableError) Unwrap() error {
	return ErrVariableValidation
}

// notFound wraps ErrTemplateNotFound with the template name.
func notFound(name string) error {
	return fmt.Errorf("%w: '%s'", ErrTemplateNotFound, name)
}

// quoteList renders names as ["a", "b"].
func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
