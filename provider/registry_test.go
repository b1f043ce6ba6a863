package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticFactory(name string) Factory {
	return func(Config) (Client, error) { return &funcClient{name: name}, nil }
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("test", staticFactory("test")))
	assert.True(t, r.Has("test"))
	assert.False(t, r.Has("other"))

	err := r.Register("test", staticFactory("again"))
	assert.ErrorIs(t, err, ErrDuplicateProvider)
}

func TestRegistry_Build(t *testing.T) {
	r := NewRegistry()
	var got Config
	require.NoError(t, r.Register("test", func(cfg Config) (Client, error) {
		got = cfg
		return &funcClient{name: "test"}, nil
	}))

	client, err := r.Build("test", Config{Name: "ignored", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "test", client.Provider())
	assert.Equal(t, "test", got.Name, "factory sees the registered name")
	assert.Equal(t, "gpt-4o", got.Model)
}

func TestRegistry_BuildUnknown(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("openai", staticFactory("openai")))

	_, err := r.Build("nope", Config{})
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.Contains(t, err.Error(), "registered: openai")
}

func TestRegistry_FromConfig(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("test", staticFactory("test")))

	_, err := r.FromConfig(DefaultConfig().WithName("test"))
	assert.NoError(t, err)

	bad := DefaultConfig().WithName("test")
	bad.Temperature = 3
	_, err = r.FromConfig(bad)
	assert.Error(t, err, "temperature 3 is out of range")
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(name, staticFactory(name)))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
	assert.Empty(t, NewRegistry().Names())
}

func TestRegister_PanicsOnDuplicate(t *testing.T) {
	name := "registry-test-duplicate"
	Register(name, staticFactory(name))
	assert.True(t, IsRegistered(name))
	assert.Contains(t, Available(), name)
	assert.Panics(t, func() { Register(name, staticFactory(name)) })
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultConfig()},
		{name: "missing name", cfg: DefaultConfig().WithName(""), wantErr: true},
		{name: "negative max tokens", cfg: func() Config { c := DefaultConfig(); c.MaxTokens = -1; return c }(), wantErr: true},
		{name: "temperature too high", cfg: func() Config { c := DefaultConfig(); c.Temperature = 2.1; return c }(), wantErr: true},
		{name: "negative timeout", cfg: func() Config { c := DefaultConfig(); c.Timeout = -1; return c }(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Options(t *testing.T) {
	base := DefaultConfig()
	cfg := base.WithOption("content", "fixed").WithOption("fail", true).WithOption("latency", "25ms")

	if base.Options != nil {
		t.Error("WithOption must not modify the receiver")
	}
	if got := cfg.GetStringOption("content", "x"); got != "fixed" {
		t.Errorf("GetStringOption = %q", got)
	}
	if got := cfg.GetStringOption("missing", "x"); got != "x" {
		t.Errorf("GetStringOption default = %q", got)
	}
	if !cfg.GetBoolOption("fail", false) {
		t.Error("GetBoolOption = false, expected true")
	}
	if got := cfg.GetDurationOption("latency", 0); got.Milliseconds() != 25 {
		t.Errorf("GetDurationOption = %v, expected 25ms", got)
	}
	if got := cfg.GetDurationOption("content", 7); got != 7 {
		t.Errorf("GetDurationOption unparsable = %v, expected default", got)
	}
}

func TestConfig_Policy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RetryAttempts = 5
	cfg.RetryBaseDelay = 0
	cfg.RetryMultiplier = 3

	p := cfg.Policy()
	if p.MaxAttempts != 5 || p.BaseDelay != 0 || p.Multiplier != 3 {
		t.Errorf("Policy() = %+v", p)
	}
	if p.Retryable == nil {
		t.Error("Policy() must keep the transient-error predicate")
	}
}
