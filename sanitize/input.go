package sanitize

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Limits applied by ValidateInput.
const (
	MaxStringLength = 10_000
	MaxListItems    = 1000
	MaxMagnitude    = 1e12
)

// ErrInvalidInput is returned when a template name or variable is rejected.
var ErrInvalidInput = errors.New("invalid input")

var templateNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidTemplateName reports whether name is non-empty and uses only
// letters, digits, and underscores.
func ValidTemplateName(name string) bool {
	return templateNamePattern.MatchString(name)
}

// ValidateInput checks a template name and its variables before rendering.
// Variables are checked in key order so the reported problem is stable.
func ValidateInput(templateName string, vars map[string]any) error {
	if templateName == "" {
		return fmt.Errorf("%w: template name cannot be empty", ErrInvalidInput)
	}
	if !ValidTemplateName(templateName) {
		return fmt.Errorf("%w: template name must contain only alphanumeric characters and underscores (a-z, A-Z, 0-9, _)", ErrInvalidInput)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("%w: variable name cannot be empty", ErrInvalidInput)
		}
		if err := validateValue(k, vars[k]); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(name string, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("%w: variable '%s' cannot be nil", ErrInvalidInput, name)
	case string:
		return validateString(name, val)
	case bool:
		return nil
	case int:
		return checkInt(name, int64(val))
	case int8:
		return checkInt(name, int64(val))
	case int16:
		return checkInt(name, int64(val))
	case int32:
		return checkInt(name, int64(val))
	case int64:
		return checkInt(name, val)
	case uint, uint8, uint16, uint32, uint64:
		if reflect.ValueOf(val).Uint() > uint64(MaxMagnitude) {
			return fmt.Errorf("%w: variable '%s' integer value is unreasonably large", ErrInvalidInput, name)
		}
		return nil
	case float32:
		return checkFloat(name, float64(val))
	case float64:
		return checkFloat(name, val)
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return checkList(name, items)
	case []any:
		return checkList(name, val)
	case map[string]any, map[string]string:
		return nil
	default:
		return fmt.Errorf("%w: variable '%s' has unsupported type %T", ErrInvalidInput, name, v)
	}
}

func validateString(name, s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: variable '%s' cannot be empty or whitespace-only", ErrInvalidInput, name)
	}
	if n := utf8.RuneCountInString(s); n > MaxStringLength {
		return fmt.Errorf("%w: variable '%s' exceeds maximum length of %d characters (got %d)", ErrInvalidInput, name, MaxStringLength, n)
	}
	if SQLInjection.Match(s) {
		return fmt.Errorf("%w: variable '%s' contains potential SQL injection pattern", ErrInvalidInput, name)
	}
	return nil
}

func checkInt(name string, n int64) error {
	if n > int64(MaxMagnitude) || n < -int64(MaxMagnitude) {
		return fmt.Errorf("%w: variable '%s' integer value is unreasonably large", ErrInvalidInput, name)
	}
	return nil
}

func checkFloat(name string, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: variable '%s' is NaN or Infinity", ErrInvalidInput, name)
	}
	if math.Abs(f) > MaxMagnitude {
		return fmt.Errorf("%w: variable '%s' float value is unreasonably large", ErrInvalidInput, name)
	}
	return nil
}

func checkList(name string, items []any) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: variable '%s' list cannot be empty", ErrInvalidInput, name)
	}
	if len(items) > MaxListItems {
		return fmt.Errorf("%w: variable '%s' list is too large (max %d items)", ErrInvalidInput, name, MaxListItems)
	}
	for i, item := range items {
		if s, ok := item.(string); ok && utf8.RuneCountInString(s) > MaxStringLength {
			return fmt.Errorf("%w: variable '%s' list item %d exceeds maximum length of %d characters", ErrInvalidInput, name, i, MaxStringLength)
		}
	}
	return nil
}
