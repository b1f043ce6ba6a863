package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/contentkit/config"
	"github.com/randalmurphal/contentkit/generator"
	"github.com/randalmurphal/contentkit/mock"
	"github.com/randalmurphal/contentkit/provider"
)

// sandbox runs the test in an empty directory against the mock provider.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CONTENTKIT_LOG_LEVEL", "error")
	t.Setenv("CONTENTKIT_PROVIDER_NAME", mock.ProviderName)
	t.Setenv("CONTENTKIT_GENERATOR_TOKEN_COUNTER", config.CounterEstimate)
	return dir
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

var productArgs = []string{
	"-var", "product_name=Widget",
	"-var", "features=fast",
	"-var", "audience='small teams'",
}

func TestRun_Usage(t *testing.T) {
	sandbox(t)

	code, _, stderr := runCLI(t)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Commands:")

	code, _, stderr = runCLI(t, "frobnicate")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	code, _, _ = runCLI(t, "-h")
	assert.Equal(t, exitOK, code)

	code, _, _ = runCLI(t, "list", "-h")
	assert.Equal(t, exitOK, code)

	code, _, _ = runCLI(t, "list", "-bogus")
	assert.Equal(t, exitUsage, code)
}

func TestRun_HelpEnv(t *testing.T) {
	sandbox(t)

	code, stdout, _ := runCLI(t, "-help-env")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "CONTENTKIT_PROVIDER_API_KEY")
	assert.Contains(t, stdout, "CONTENTKIT_GENERATOR_AUTO_SAVE_DIR")
}

func TestRun_BadConfig(t *testing.T) {
	sandbox(t)

	code, _, stderr := runCLI(t, "-config", "missing.yaml", "list")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "missing.yaml")
}

func TestList(t *testing.T) {
	sandbox(t)

	code, stdout, _ := runCLI(t, "list", "-json")
	require.Equal(t, exitOK, code)
	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	assert.Len(t, infos, 10)

	code, stdout, _ = runCLI(t, "list", "-category", "marketing")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "press_release")
	assert.NotContains(t, stdout, "meta_description")

	code, stdout, _ = runCLI(t, "list", "-tag", "nonexistent")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "No templates found.\n", stdout)
}

func TestSearch(t *testing.T) {
	sandbox(t)

	code, stdout, _ := runCLI(t, "search", "newsletter")
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "email_newsletter"), stdout)

	code, _, _ = runCLI(t, "search")
	assert.Equal(t, exitUsage, code)
}

func TestGenerate(t *testing.T) {
	sandbox(t)

	code, stdout, _ := runCLI(t, append([]string{"generate", "product_description"}, productArgs...)...)
	require.Equal(t, exitOK, code)
	assert.Equal(t, mock.DefaultContent+"\n", stdout)

	// Flags may come before the template name.
	code, stdout, _ = runCLI(t, append(append([]string{"generate"}, productArgs...), "product_description", "-show-stats")...)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Tokens:")
	assert.Contains(t, stdout, "Cached:")
}

func TestGenerate_Extract(t *testing.T) {
	sandbox(t)

	args := append([]string{"generate", "product_description", "-extract", "all"}, productArgs...)
	code, stdout, _ := runCLI(t, args...)
	require.Equal(t, exitOK, code)
	var s map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &s))
	assert.Equal(t, mock.DefaultContent, s["text"])

	code, _, _ = runCLI(t, append([]string{"generate", "product_description", "-extract", "xml"}, productArgs...)...)
	assert.Equal(t, exitUsage, code)
	code, _, _ = runCLI(t, append([]string{"generate", "product_description", "-extract", "items", "-json"}, productArgs...)...)
	assert.Equal(t, exitUsage, code)
}

func TestGenerate_OutputAndJSON(t *testing.T) {
	dir := sandbox(t)
	out := filepath.Join(dir, "copy", "widget.txt")

	args := append([]string{"generate", "product_description", "-json", "-output", out}, productArgs...)
	code, stdout, _ := runCLI(t, args...)
	require.Equal(t, exitOK, code)

	var res generator.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "product_description", res.TemplateUsed)
	assert.Equal(t, "small teams", res.Variables["audience"], "quotes are stripped")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, mock.DefaultContent, string(data))
}

func TestGenerate_Failures(t *testing.T) {
	sandbox(t)

	code, _, stderr := runCLI(t, "generate", "product_description", "-var", "product_name=Widget")
	assert.Equal(t, exitGenerate, code)
	assert.Contains(t, stderr, "generation failed")

	code, _, _ = runCLI(t, "generate")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, "generate", "product_description", "-var", "novalue")
	assert.Equal(t, exitUsage, code)
}

func TestVariations(t *testing.T) {
	dir := sandbox(t)
	outDir := filepath.Join(dir, "variations")

	args := append([]string{"variations", "product_description", "-count", "2", "-min", "0.2", "-max", "0.8", "-output-dir", outDir}, productArgs...)
	code, stdout, _ := runCLI(t, args...)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "--- Variation 1 (temperature 0.20) ---")
	assert.Contains(t, stdout, "--- Variation 2 (temperature 0.80) ---")
	assert.FileExists(t, filepath.Join(outDir, "variation_1.txt"))
	assert.FileExists(t, filepath.Join(outDir, "variation_2.txt"))

	code, _, _ = runCLI(t, append([]string{"variations", "product_description", "-min", "0.2"}, productArgs...)...)
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, append([]string{"variations", "product_description", "-min", "0.9", "-max", "0.1"}, productArgs...)...)
	assert.Equal(t, exitUsage, code)
}

func TestBatch(t *testing.T) {
	dir := sandbox(t)
	input := filepath.Join(dir, "batch.json")
	require.NoError(t, os.WriteFile(input, []byte(`[
		{"template": "meta_description", "variables": {"topic": "coffee", "keyword": "beans"}},
		{"template_name": "meta_description", "variables": {"topic": "tea", "keyword": "leaves"}},
		{"variables": {"topic": "tea"}}
	]`), 0o644))
	outDir := filepath.Join(dir, "results")

	code, stdout, _ := runCLI(t, "batch", "-input", input, "-output", outDir)
	assert.Equal(t, exitGenerate, code)
	assert.Contains(t, stdout, "Successful: 2/3")
	assert.FileExists(t, filepath.Join(outDir, "batch_1_meta_description.json"))
	assert.FileExists(t, filepath.Join(outDir, "batch_2_meta_description.json"))
	assert.FileExists(t, filepath.Join(outDir, "batch_3_unknown.json"))

	code, _, _ = runCLI(t, "batch")
	assert.Equal(t, exitUsage, code)
}

func TestHistoryAndStats(t *testing.T) {
	dir := sandbox(t)
	t.Setenv("CONTENTKIT_GENERATOR_AUTO_SAVE_DIR", filepath.Join(dir, "history"))

	code, _, _ := runCLI(t, "generate", "meta_description", "-var", "topic=coffee", "-var", "keyword=beans")
	require.Equal(t, exitOK, code)
	code, _, _ = runCLI(t, append([]string{"generate", "product_description"}, productArgs...)...)
	require.Equal(t, exitOK, code)

	saved, err := filepath.Glob(filepath.Join(dir, "history", "content_history_*.json"))
	require.NoError(t, err)
	assert.Len(t, saved, 2)

	code, stdout, _ := runCLI(t, "history", "-json")
	require.Equal(t, exitOK, code)
	var entries []generator.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	assert.Len(t, entries, 2)

	code, stdout, _ = runCLI(t, "history", "-template", "meta_description")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "meta_description")
	assert.NotContains(t, stdout, "product_description")

	export := filepath.Join(dir, "all.csv")
	code, _, _ = runCLI(t, "history", "-export", export)
	require.Equal(t, exitOK, code)
	assert.FileExists(t, export)

	code, stdout, _ = runCLI(t, "stats", "-json")
	require.Equal(t, exitOK, code)
	var stats generator.Statistics
	require.NoError(t, json.Unmarshal([]byte(stdout), &stats))
	assert.Equal(t, 2, stats.TotalGenerations)
	assert.Equal(t, 1, stats.TemplatesUsed["meta_description"])

	code, stdout, _ = runCLI(t, "stats", "-detailed")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Total generations:")
	assert.Contains(t, stdout, "TEMPLATE")

	// Reading history must not write a new session file.
	saved, err = filepath.Glob(filepath.Join(dir, "history", "content_history_*.json"))
	require.NoError(t, err)
	assert.Len(t, saved, 2)

	code, _, _ = runCLI(t, "history", "-since", "yesterday")
	assert.Equal(t, exitUsage, code)
}

func TestHistory_NoSource(t *testing.T) {
	sandbox(t)

	code, _, stderr := runCLI(t, "history")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "-from")
}

func TestValidate(t *testing.T) {
	sandbox(t)

	code, _, stderr := runCLI(t, "validate", "meta_description", "-var", "topic=coffee")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "keyword")

	code, stdout, _ := runCLI(t, "validate", "meta_description", "-var", "topic=coffee", "-var", "keyword=beans")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "All required variables")

	code, _, _ = runCLI(t, "validate", "missing_template")
	assert.Equal(t, exitUsage, code)
}

func TestInitThenUseCatalog(t *testing.T) {
	dir := sandbox(t)

	code, stdout, _ := runCLI(t, "init")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "contentkit.yaml")
	for _, name := range []string{configFileName, catalogFileName, envExampleName} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	code, _, _ = runCLI(t, "init")
	assert.Equal(t, exitUsage, code)
	code, _, _ = runCLI(t, "init", "-force")
	assert.Equal(t, exitOK, code)

	code, stdout, _ = runCLI(t, "validate", "-catalog", catalogFileName)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "10 templates valid")

	code, stdout, _ = runCLI(t, "-config", configFileName, "list", "-json")
	require.Equal(t, exitOK, code)
	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	assert.Len(t, infos, 10)
}

func TestValidate_BadCatalog(t *testing.T) {
	dir := sandbox(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  - name: broken\n    template: \"\"\n"), 0o644))

	code, _, _ := runCLI(t, "validate", "-catalog", path)
	assert.Equal(t, exitUsage, code)
}

func TestCostEstimate(t *testing.T) {
	sandbox(t)

	code, stdout, _ := runCLI(t, "cost-estimate", "meta_description", "-var", "topic=coffee", "-var", "keyword=beans", "-json")
	require.Equal(t, exitOK, code)
	var est generator.Estimate
	require.NoError(t, json.Unmarshal([]byte(stdout), &est))
	assert.True(t, est.Success)
	assert.Positive(t, est.EstimatedPromptTokens)
	assert.Positive(t, est.EstimatedCost)

	code, _, _ = runCLI(t, "cost-estimate", "meta_description")
	assert.Equal(t, exitUsage, code)
}

func TestSchema(t *testing.T) {
	dir := sandbox(t)

	code, stdout, _ := runCLI(t, "schema")
	require.Equal(t, exitOK, code)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, `"templates"`)

	out := filepath.Join(dir, "schema.json")
	code, _, _ = runCLI(t, "schema", "-output", out)
	require.Equal(t, exitOK, code)
	assert.FileExists(t, out)
}

func TestServe(t *testing.T) {
	sandbox(t)

	cfg := config.Default()
	cfg.Provider.Name = mock.ProviderName
	cfg.Log.Level = "error"
	cfg.Generator.TokenCounter = config.CounterEstimate

	a, err := newApp(cfg, io.Discard, io.Discard, &command{name: "serve", metrics: true})
	require.NoError(t, err)
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan string, 1)
	errc := make(chan error, 1)
	go func() { errc <- a.serve(ctx, "127.0.0.1:0", ready) }()
	base := "http://" + <-ready

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := `{"template_name": "meta_description", "variables": {"topic": "coffee", "keyword": "beans"}}`
	resp, err = http.Post(base+"/generate", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	scraped, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(scraped), `contentkit_requests_total{model="gpt-3.5-turbo",status="success"} 1`)
	assert.Contains(t, string(scraped), `contentkit_generations_total`)
	assert.Contains(t, string(scraped), "go_goroutines")

	cancel()
	require.NoError(t, <-errc)
}

func TestRun_Status(t *testing.T) {
	dir := sandbox(t)

	code, stdout, stderr := runCLI(t, "status")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Provider:")
	assert.Contains(t, stdout, "(accepted)")
	assert.Contains(t, stdout, "Rate limit:")

	code, stdout, _ = runCLI(t, "status", "-json")
	require.Equal(t, exitOK, code)
	var st providerStatus
	require.NoError(t, json.Unmarshal([]byte(stdout), &st))
	assert.Equal(t, mock.ProviderName, st.Provider)
	assert.True(t, st.KeyAccepted)
	assert.Equal(t, provider.RateLimitOK, st.RateLimit.Status)

	throttled := filepath.Join(dir, "throttled.yaml")
	require.NoError(t, os.WriteFile(throttled, []byte("provider:\n  options:\n    fail: rate_limit\n"), 0o644))
	code, stdout, stderr = runCLI(t, "-config", throttled, "status")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stdout, provider.RateLimitLimited)
	assert.Contains(t, stdout, "(not accepted)")
	assert.Contains(t, stderr, "not ready")
}
