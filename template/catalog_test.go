package template

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
templates:
  - name: haiku
    category: creative
    template: "Write a haiku about {subject}."
    system_instructions: You are a poet
    required_variables: [subject]
    tags: [poetry]
  - name: motto
    template: "Motto for {team}"
    required_variables: [team]
    temperature_recommendation: 1.2
    enabled: false
`

func TestParseCatalog(t *testing.T) {
	templates, err := ParseCatalog([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, templates, 2)

	haiku := templates[0]
	assert.Equal(t, "haiku", haiku.Name)
	assert.Equal(t, "creative", haiku.Category)
	assert.Equal(t, DefaultMaxTokens, haiku.MaxTokens, "absent fields take defaults")
	assert.Equal(t, DefaultTemperature, haiku.Temperature)
	assert.Equal(t, DefaultVersion, haiku.Version)
	assert.True(t, haiku.Enabled)

	motto := templates[1]
	assert.Equal(t, CategoryGeneral, motto.Category)
	assert.Equal(t, 1.2, motto.Temperature)
	assert.False(t, motto.Enabled)
}

func TestParseCatalog_Invalid(t *testing.T) {
	_, err := ParseCatalog([]byte("templates:\n  - name: bad-name\n    template: x\n"))
	assert.ErrorIs(t, err, ErrTemplateValidation)

	_, err = ParseCatalog([]byte("templatez: []\n"))
	assert.ErrorIs(t, err, ErrTemplateValidation)
}

func TestSaveAndLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.yaml")

	require.NoError(t, SaveCatalog(path, Builtins()))
	loaded, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, loaded, 10)
	assert.Equal(t, Builtins()[0], loaded[0])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCatalogSchema(t *testing.T) {
	data, err := CatalogSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "contentkit template catalog", schema["title"])
	assert.Contains(t, string(data), "temperature_recommendation")
	assert.Contains(t, string(data), "required_variables")
}

func TestWatcher_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	s := quietStore()
	var got ReloadResult
	w := NewWatcher(path, s,
		WithWatchLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithReloadHook(func(r ReloadResult) { got = r }))

	res := w.Load()
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, res, got)
	assert.True(t, s.Has("haiku"))

	require.NoError(t, os.WriteFile(path, []byte("templates: [oops"), 0o644))
	assert.Error(t, w.Load().Err)
	assert.True(t, s.Has("haiku"), "failed reload keeps existing templates")
}

func TestWatcher_RunReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	s := quietStore()
	var mu sync.Mutex
	reloads := 0
	w := NewWatcher(path, s,
		WithWatchLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithPollInterval(20*time.Millisecond),
		WithReloadHook(func(ReloadResult) {
			mu.Lock()
			reloads++
			mu.Unlock()
		}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	updated := sampleCatalog + `  - name: limerick
    template: "A limerick about {subject}"
    required_variables: [subject]
`
	require.Eventually(t, func() bool {
		// Rewrite until the watcher has picked up a change; the first write
		// may land before the watch is registered.
		_ = os.WriteFile(path, []byte(updated), 0o644)
		return s.Has("limerick")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, reloads, 1)
}
