package template

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Structural limits.
const (
	MaxTemplateLength = 10000
	MaxVariableLength = 5000
	MaxNameLength     = 100
)

// Defaults applied by New and when decoding catalog entries.
const (
	DefaultMaxTokens          = 500
	DefaultTemperature        = 0.7
	DefaultVersion            = "1.0.0"
	DefaultSystemInstructions = "You are a helpful assistant."
)

// Category values used by the built-in templates.
const (
	CategoryMarketing   = "marketing"
	CategoryTechnical   = "technical"
	CategorySocialMedia = "social_media"
	CategoryEmail       = "email"
	CategorySEO         = "seo"
	CategoryBranding    = "branding"
	CategorySupport     = "support"
	CategoryContent     = "content"
	CategoryGeneral     = "general"
)

// Tone values used by the built-in templates.
const (
	ToneProfessional   = "professional"
	ToneCasual         = "casual"
	ToneCreative       = "creative"
	TonePersuasive     = "persuasive"
	ToneFriendly       = "friendly"
	ToneFormal         = "formal"
	ToneEnergetic      = "energetic"
	ToneHelpful        = "helpful"
	ToneConversational = "conversational"
	ToneAuthoritative  = "authoritative"
)

// Template is a named prompt with {variable} placeholders.
// Registered templates are never mutated in place; the Store hands out copies.
type Template struct {
	Name               string            `json:"name" yaml:"name" validate:"required,max=100,template_name" jsonschema:"required,pattern=^[A-Za-z0-9_]+$,maxLength=100"`
	Category           string            `json:"category" yaml:"category"`
	Template           string            `json:"template" yaml:"template" validate:"required,max=10000" jsonschema:"required,maxLength=10000"`
	SystemInstructions string            `json:"system_instructions" yaml:"system_instructions"`
	DefaultTone        string            `json:"default_tone" yaml:"default_tone"`
	RequiredVariables  []string          `json:"required_variables" yaml:"required_variables"`
	OptionalVariables  map[string]string `json:"optional_variables" yaml:"optional_variables"`
	MaxTokens          int               `json:"max_tokens_recommendation" yaml:"max_tokens_recommendation" validate:"gte=1" jsonschema:"minimum=1"`
	Temperature        float64           `json:"temperature_recommendation" yaml:"temperature_recommendation" validate:"gte=0,lte=2" jsonschema:"minimum=0,maximum=2"`
	Version            string            `json:"version" yaml:"version"`
	Description        string            `json:"description" yaml:"description"`
	Tags               []string          `json:"tags" yaml:"tags"`
	ABTestGroup        string            `json:"ab_test_group,omitempty" yaml:"ab_test_group,omitempty"`
	Enabled            bool              `json:"enabled" yaml:"enabled"`
}

// Option configures a Template built by New.
type Option func(*Template)

// WithCategory sets the category.
func WithCategory(c string) Option { return func(t *Template) { t.Category = c } }

// WithSystemInstructions sets the system message sent with rendered prompts.
func WithSystemInstructions(s string) Option {
	return func(t *Template) { t.SystemInstructions = s }
}

// WithDefaultTone sets the tone injected when no tone is supplied or declared.
func WithDefaultTone(tone string) Option { return func(t *Template) { t.DefaultTone = tone } }

// WithRequired declares required variables.
func WithRequired(names ...string) Option {
	return func(t *Template) { t.RequiredVariables = append([]string(nil), names...) }
}

// WithOptional declares optional variables and their defaults.
func WithOptional(defaults map[string]string) Option {
	return func(t *Template) {
		t.OptionalVariables = make(map[string]string, len(defaults))
		for k, v := range defaults {
			t.OptionalVariables[k] = v
		}
	}
}

// WithMaxTokens sets the recommended completion token limit.
func WithMaxTokens(n int) Option { return func(t *Template) { t.MaxTokens = n } }

// WithTemperature sets the recommended sampling temperature.
func WithTemperature(temp float64) Option { return func(t *Template) { t.Temperature = temp } }

// WithVersion sets the semantic version.
func WithVersion(v string) Option { return func(t *Template) { t.Version = v } }

// WithDescription sets the description.
func WithDescription(d string) Option { return func(t *Template) { t.Description = d } }

// WithTags sets the searchable tags.
func WithTags(tags ...string) Option {
	return func(t *Template) { t.Tags = append([]string(nil), tags...) }
}

// WithABTestGroup sets the A/B group id.
func WithABTestGroup(g string) Option { return func(t *Template) { t.ABTestGroup = g } }

// Disabled registers the template without making it active.
func Disabled() Option { return func(t *Template) { t.Enabled = false } }

// New builds and validates a template.
func New(name, body string, opts ...Option) (*Template, error) {
	t := defaults()
	t.Name = name
	t.Template = body
	for _, opt := range opts {
		opt(&t)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func defaults() Template {
	return Template{
		Category:           CategoryGeneral,
		SystemInstructions: DefaultSystemInstructions,
		DefaultTone:        ToneProfessional,
		MaxTokens:          DefaultMaxTokens,
		Temperature:        DefaultTemperature,
		Version:            DefaultVersion,
		Enabled:            true,
	}
}

// UnmarshalYAML decodes a catalog entry, filling defaults for absent fields.
func (t *Template) UnmarshalYAML(value *yaml.Node) error {
	type plain Template
	p := plain(defaults())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*t = Template(p)
	return nil
}

var (
	validate         = newValidator()
	templateNameExpr = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("template_name", func(fl validator.FieldLevel) bool {
		return templateNameExpr.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks structural invariants: name charset and length, non-empty
// body within MaxTemplateLength, temperature in [0, 2], and MaxTokens >= 1.
func (t *Template) Validate() error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrTemplateValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrTemplateValidation, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		switch fe.Tag() {
		case "required":
			return "template name must be a non-empty string"
		case "max":
			return fmt.Sprintf("template name exceeds maximum length of %d", MaxNameLength)
		default:
			return "template name must contain only letters, digits, and underscores"
		}
	case "template":
		if fe.Tag() == "required" {
			return "template must be a non-empty string"
		}
		return fmt.Sprintf("template exceeds maximum length of %d", MaxTemplateLength)
	case "temperature_recommendation":
		return fmt.Sprintf("temperature must be between 0.0 and 2.0, got %v", fe.Value())
	case "max_tokens_recommendation":
		return "max_tokens_recommendation must be at least 1"
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

// Clone returns a deep copy.
func (t *Template) Clone() *Template {
	c := *t
	c.RequiredVariables = append([]string(nil), t.RequiredVariables...)
	c.Tags = append([]string(nil), t.Tags...)
	if t.OptionalVariables != nil {
		c.OptionalVariables = make(map[string]string, len(t.OptionalVariables))
		for k, v := range t.OptionalVariables {
			c.OptionalVariables[k] = v
		}
	}
	return &c
}

// HasTags reports whether the template carries every tag in tags.
func (t *Template) HasTags(tags []string) bool {
	for _, want := range tags {
		found := false
		for _, have := range t.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ValidateVariables reports which required variables are absent, nil, or
// blank strings, in declaration order.
func (t *Template) ValidateVariables(vars map[string]any) (bool, []string) {
	var missing []string
	for _, name := range t.RequiredVariables {
		v, ok := vars[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			missing = append(missing, name)
		}
	}
	return len(missing) == 0, missing
}

// Lint returns non-fatal problems: placeholders that are neither required
// nor optional, and declared variables the body never uses.
func (t *Template) Lint() []string {
	used := make(map[string]bool)
	for _, p := range t.Placeholders() {
		used[p] = true
	}
	declared := make(map[string]bool)
	for _, r := range t.RequiredVariables {
		declared[r] = true
	}
	for o := range t.OptionalVariables {
		declared[o] = true
	}

	var undeclared, unused []string
	for p := range used {
		if !declared[p] {
			undeclared = append(undeclared, p)
		}
	}
	for d := range declared {
		if !used[d] {
			unused = append(unused, d)
		}
	}
	sort.Strings(undeclared)
	sort.Strings(unused)

	var warnings []string
	if len(undeclared) > 0 {
		warnings = append(warnings, fmt.Sprintf("undeclared variables %s will render only when supplied by the caller", quoteList(undeclared)))
	}
	if len(unused) > 0 {
		warnings = append(warnings, fmt.Sprintf("declared but unused variables %s", quoteList(unused)))
	}
	return warnings
}
