package sanitize

import (
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]any
		wantErr  string
	}{
		{name: "valid", template: "blog_post", vars: map[string]any{"title": "Hello World"}},
		{name: "empty template name", template: "", wantErr: "template name cannot be empty"},
		{name: "bad template charset", template: "blog-post", wantErr: "alphanumeric characters and underscores"},
		{name: "nil value", template: "t", vars: map[string]any{"x": nil}, wantErr: "variable 'x' cannot be nil"},
		{name: "blank string", template: "t", vars: map[string]any{"x": "   "}, wantErr: "cannot be empty or whitespace-only"},
		{name: "too long", template: "t", vars: map[string]any{"x": strings.Repeat("a", MaxStringLength+1)}, wantErr: "exceeds maximum length of 10000"},
		{name: "sql select", template: "t", vars: map[string]any{"q": "SELECT name FROM users"}, wantErr: "SQL injection"},
		{name: "sql tautology", template: "t", vars: map[string]any{"id": "1' OR '1'='1"}, wantErr: "SQL injection"},
		{name: "sql union", template: "t", vars: map[string]any{"q": "x union all select"}, wantErr: "SQL injection"},
		{name: "prose with sql words", template: "t", vars: map[string]any{"q": "Select the best option for your team"}},
		{name: "int ok", template: "t", vars: map[string]any{"n": 42}},
		{name: "int too large", template: "t", vars: map[string]any{"n": int64(2e12)}, wantErr: "integer value is unreasonably large"},
		{name: "float nan", template: "t", vars: map[string]any{"f": math.NaN()}, wantErr: "NaN or Infinity"},
		{name: "float inf", template: "t", vars: map[string]any{"f": math.Inf(-1)}, wantErr: "NaN or Infinity"},
		{name: "float too large", template: "t", vars: map[string]any{"f": 1e13}, wantErr: "float value is unreasonably large"},
		{name: "empty list", template: "t", vars: map[string]any{"l": []any{}}, wantErr: "list cannot be empty"},
		{name: "list too big", template: "t", vars: map[string]any{"l": make([]string, MaxListItems+1)}, wantErr: "list is too large"},
		{name: "list item too long", template: "t", vars: map[string]any{"l": []string{"ok", strings.Repeat("b", MaxStringLength+1)}}, wantErr: "list item 1 exceeds"},
		{name: "bool and map allowed", template: "t", vars: map[string]any{"b": true, "m": map[string]any{"k": 1}}},
		{name: "unsupported type", template: "t", vars: map[string]any{"c": make(chan int)}, wantErr: "unsupported type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.template, tt.vars)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateInput_StableOrder(t *testing.T) {
	vars := map[string]any{"b": nil, "a": nil, "c": nil}
	for i := 0; i < 10; i++ {
		err := ValidateInput("t", vars)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "variable 'a'")
	}
}

func TestCleanOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "script removed", in: "<script>alert('xss')</script>Hello", want: "Hello"},
		{name: "multiline script removed", in: "A<SCRIPT type=x>\nbad()\n</script>B", want: "AB"},
		{name: "iframe tag removed", in: `before<iframe src="x">after`, want: "beforeafter"},
		{name: "javascript uri removed", in: "go javascript:void(0)", want: "go void(0)"},
		{name: "spaces collapsed", in: "Hello    World", want: "Hello World"},
		{name: "smart quotes", in: "“Smart” ‘quotes’", want: `"Smart" 'quotes'`},
		{name: "dashes and ellipsis", in: "a–b—c…", want: "a-b-c..."},
		{name: "nbsp", in: "a\u00a0b", want: "a b"},
		{name: "blank lines collapsed", in: "Line 1\n\n\n\nLine 2", want: "Line 1\n\nLine 2"},
		{name: "lines trimmed", in: "  one  \n  two  ", want: "one\ntwo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanOutput(tt.in))
		})
	}
}

func TestCleanOutput_NoScriptSurvives(t *testing.T) {
	out := CleanOutput("Intro <script>alert(1)</script> outro")
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Equal(t, "Intro outro", out)
}

func TestRedactSensitive(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "email", in: "Email: john@example.com", want: "Email: [REDACTED]"},
		{name: "phone", in: "Call 555-123-4567", want: "Call [REDACTED]"},
		{name: "ssn", in: "SSN: 123-45-6789", want: "SSN: [REDACTED]"},
		{name: "nothing", in: "plain words", want: "plain words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactSensitive(tt.in))
		})
	}
}

func TestRedactSensitive_ExtraPatterns(t *testing.T) {
	got := RedactSensitive("order ABC-999", regexp.MustCompile(`ABC-\d+`))
	assert.Equal(t, "order [REDACTED]", got)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "sk-...wxyz", MaskAPIKey("sk-abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "***", MaskAPIKey("short"))
	assert.Equal(t, "***", MaskAPIKey(""))
}

func TestDenyList(t *testing.T) {
	d, err := Compile(`foo`, `ba+r`)
	require.NoError(t, err)

	assert.True(t, d.Match("xx baaar"))
	assert.False(t, d.Match("baz"))

	p, ok := d.FirstMatch("foo bar")
	assert.True(t, ok)
	assert.Equal(t, "foo", p)

	assert.Equal(t, "x   y", d.Strip("x foo bar y"))
	assert.Equal(t, []string{"foo", "ba+r"}, d.Patterns())

	_, err = Compile(`(`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile(`(`) })
}
