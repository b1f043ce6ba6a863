package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/randalmurphal/contentkit/extract"
	"github.com/randalmurphal/contentkit/generator"
	"github.com/randalmurphal/contentkit/internal/fileutil"
	"github.com/randalmurphal/contentkit/provider"
	"github.com/randalmurphal/contentkit/sanitize"
	"github.com/randalmurphal/contentkit/template"
	"github.com/randalmurphal/contentkit/truncate"
)

const timestampLayout = "2006-01-02 15:04:05"

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func cmdList(a *app, args []string) error {
	fs := newFlagSet(a, "list", "[flags]")
	category := fs.String("category", "", "only templates in this category")
	tags := fs.String("tag", "", "comma-separated tags every template must carry")
	verbose := fs.Bool("verbose", false, "show required variables and descriptions")
	asJSON := fs.Bool("json", false, "print JSON")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	names := a.store.List(template.ListOptions{Category: *category, Tags: splitList(*tags)})
	infos := make([]template.Info, 0, len(names))
	for _, name := range names {
		if info, err := a.store.Info(name); err == nil {
			infos = append(infos, info)
		}
	}

	if *asJSON {
		return a.printJSON(infos)
	}
	if len(infos) == 0 {
		fmt.Fprintln(a.stdout, "No templates found.")
		return nil
	}

	tw := a.table()
	if *verbose {
		fmt.Fprintln(tw, "NAME\tCATEGORY\tVERSION\tREQUIRED\tDESCRIPTION")
	} else {
		fmt.Fprintln(tw, "NAME\tCATEGORY\tVERSION")
	}
	for _, info := range infos {
		if *verbose {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", info.Name, info.Category, info.Version,
				strings.Join(info.RequiredVariables, ", "), shortDescription(info.Description))
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, info.Category, info.Version)
	}
	return tw.Flush()
}

func cmdSearch(a *app, args []string) error {
	fs := newFlagSet(a, "search", "<query>")
	positional, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		fs.Usage()
		return usageErr("search needs a query")
	}

	names := a.store.Search(strings.Join(positional, " "))
	if len(names) == 0 {
		fmt.Fprintln(a.stdout, "No templates match.")
		return nil
	}
	tw := a.table()
	for _, name := range names {
		info, err := a.store.Info(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, shortDescription(info.Description))
	}
	return tw.Flush()
}

// descriptionWidth keeps table rows on one terminal line.
const descriptionWidth = 60

func shortDescription(d string) string {
	return truncate.Text(d, descriptionWidth, truncate.DefaultSuffix)
}

func cmdGenerate(a *app, args []string) error {
	fs := newFlagSet(a, "generate", "<template> [flags]")
	vars := varsFlag{}
	fs.Var(vars, "var", "template variable as KEY=VALUE (repeatable)")
	varsFile := fs.String("vars-file", "", "JSON object of template variables")
	var temperature optionalFloat
	fs.Var(&temperature, "temperature", "override the sampling temperature")
	maxTokens := fs.Int("max-tokens", 0, "override the completion limit")
	modelName := fs.String("model", "", "override the model")
	noCache := fs.Bool("no-cache", false, "bypass the result cache")
	noRetry := fs.Bool("no-retry", false, "do not retry a failed call")
	output := fs.String("output", "", "write the content to this file")
	asJSON := fs.Bool("json", false, "print the full result as JSON")
	showStats := fs.Bool("show-stats", false, "print tokens, cost, and timing")
	extractKind := fs.String("extract", "", "print structured content as JSON: items, sections, faq, data, or all")

	positional, err := parse(fs, args)
	if err != nil {
		return err
	}
	name, err := templateArg(fs, positional)
	if err != nil {
		return err
	}
	variables, err := loadVars(*varsFile, vars)
	if err != nil {
		return usageErr("%v", err)
	}
	var kind extract.Kind
	if *extractKind != "" {
		if *asJSON {
			return usageErr("-extract and -json cannot be combined")
		}
		if kind, err = extract.ParseKind(*extractKind); err != nil {
			return usageErr("%v", err)
		}
	}

	ov := generator.Overrides{Temperature: temperature.ptr(), Model: *modelName}
	if *maxTokens > 0 {
		ov.MaxTokens = maxTokens
	}

	ctx, stop := interruptContext()
	defer stop()
	res := a.gen.Generate(ctx, name, variables, ov, generator.GenerateOptions{
		UseCache:       !*noCache,
		RetryOnFailure: !*noRetry,
	})

	if *asJSON {
		if err := a.printJSON(res); err != nil {
			return err
		}
	}
	if !res.Success {
		return generateErr("generation failed: %s", res.Error)
	}

	if *output != "" {
		if err := fileutil.WriteAtomic(*output, []byte(res.Content)); err != nil {
			return err
		}
		fmt.Fprintf(a.stderr, "Content saved to %s\n", *output)
	}
	switch {
	case kind != "":
		if err := a.printJSON(extract.Parse(res.Content).Select(kind)); err != nil {
			return err
		}
	case *output == "" && !*asJSON:
		fmt.Fprintln(a.stdout, res.Content)
	}

	if *showStats && !*asJSON {
		fmt.Fprintln(a.stdout)
		tw := a.table()
		fmt.Fprintf(tw, "Model:\t%s\n", res.Model)
		fmt.Fprintf(tw, "Tokens:\t%d (prompt %d, completion %d)\n",
			res.TokensUsed.Total, res.TokensUsed.Prompt, res.TokensUsed.Completion)
		fmt.Fprintf(tw, "Cost:\t$%.6f\n", res.Cost)
		fmt.Fprintf(tw, "Time:\t%.2fs\n", res.GenerationTime)
		fmt.Fprintf(tw, "Cached:\t%t\n", res.Cached)
		return tw.Flush()
	}
	return nil
}

func cmdVariations(a *app, args []string) error {
	fs := newFlagSet(a, "variations", "<template> [flags]")
	vars := varsFlag{}
	fs.Var(vars, "var", "template variable as KEY=VALUE (repeatable)")
	varsFile := fs.String("vars-file", "", "JSON object of template variables")
	count := fs.Int("count", 3, "number of variations")
	var minTemp, maxTemp optionalFloat
	fs.Var(&minTemp, "min", "lowest temperature of the spread (needs -max)")
	fs.Var(&maxTemp, "max", "highest temperature of the spread (needs -min)")
	outputDir := fs.String("output-dir", "", "write each variation to variation_N.txt in this directory")
	asJSON := fs.Bool("json", false, "print the results as JSON")

	positional, err := parse(fs, args)
	if err != nil {
		return err
	}
	name, err := templateArg(fs, positional)
	if err != nil {
		return err
	}
	if *count < 1 {
		return usageErr("-count must be at least 1")
	}
	variables, err := loadVars(*varsFile, vars)
	if err != nil {
		return usageErr("%v", err)
	}

	var temps *generator.TemperatureRange
	switch {
	case minTemp.set && maxTemp.set:
		if minTemp.value > maxTemp.value {
			return usageErr("-min %v is above -max %v", minTemp.value, maxTemp.value)
		}
		temps = &generator.TemperatureRange{Min: minTemp.value, Max: maxTemp.value}
	case minTemp.set || maxTemp.set:
		return usageErr("-min and -max must be given together")
	}

	ctx, stop := interruptContext()
	defer stop()
	results := a.gen.GenerateMultipleVariations(ctx, name, variables, *count, temps)

	if *outputDir != "" {
		if err := os.MkdirAll(*outputDir, 0o755); err != nil {
			return err
		}
	}

	failed := 0
	for _, res := range results {
		if !res.Success {
			failed++
		}
		if *outputDir != "" && res.Success {
			path := filepath.Join(*outputDir, fmt.Sprintf("variation_%d.txt", res.VariationNumber))
			if err := fileutil.WriteAtomic(path, []byte(res.Content)); err != nil {
				return err
			}
		}
	}

	if *asJSON {
		if err := a.printJSON(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			header := fmt.Sprintf("--- Variation %d", res.VariationNumber)
			if res.VariationTemperature != nil {
				header += fmt.Sprintf(" (temperature %.2f)", *res.VariationTemperature)
			}
			fmt.Fprintln(a.stdout, header+" ---")
			if res.Success {
				fmt.Fprintln(a.stdout, res.Content)
			} else {
				fmt.Fprintln(a.stdout, "failed:", res.Error)
			}
			fmt.Fprintln(a.stdout)
		}
	}

	if failed > 0 {
		return generateErr("%d of %d variations failed", failed, len(results))
	}
	return nil
}

// batchEntry accepts "template" as a shorthand for "template_name".
type batchEntry struct {
	generator.BatchRequest
	Template string `json:"template"`
}

func readBatchFile(path string) ([]generator.BatchRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []batchEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	reqs := make([]generator.BatchRequest, len(entries))
	for i, e := range entries {
		reqs[i] = e.BatchRequest
		if reqs[i].TemplateName == "" {
			reqs[i].TemplateName = e.Template
		}
	}
	return reqs, nil
}

func cmdBatch(a *app, args []string) error {
	fs := newFlagSet(a, "batch", "-input <file> [flags]")
	input := fs.String("input", "", "JSON list of {template, variables, overrides} requests")
	parallel := fs.Bool("parallel", false, "run requests concurrently")
	outputDir := fs.String("output", "", "write each result to batch_N_<template>.json in this directory")
	asJSON := fs.Bool("json", false, "print the results as JSON")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *input == "" {
		fs.Usage()
		return usageErr("batch needs -input")
	}

	reqs, err := readBatchFile(*input)
	if err != nil {
		return usageErr("%v", err)
	}

	ctx, stop := interruptContext()
	defer stop()
	results := a.gen.GenerateBatch(ctx, reqs, *parallel)

	if *outputDir != "" {
		if err := os.MkdirAll(*outputDir, 0o755); err != nil {
			return err
		}
		for i, res := range results {
			name := res.TemplateUsed
			if name == "" {
				name = "unknown"
			}
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			path := filepath.Join(*outputDir, fmt.Sprintf("batch_%d_%s.json", i+1, name))
			if err := fileutil.WriteAtomic(path, data); err != nil {
				return err
			}
		}
	}

	failed := 0
	for _, res := range results {
		if !res.Success {
			failed++
		}
	}

	if *asJSON {
		if err := a.printJSON(results); err != nil {
			return err
		}
	} else {
		tw := a.table()
		fmt.Fprintln(tw, "#\tTEMPLATE\tSTATUS\tCOST\tDETAIL")
		for i, res := range results {
			status, detail := "ok", ""
			if !res.Success {
				status, detail = "failed", res.Error
			} else if res.Cached {
				detail = "cached"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t$%.6f\t%s\n", i+1, res.TemplateUsed, status, res.Cost, detail)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "\nSuccessful: %d/%d\n", len(results)-failed, len(results))
	}

	if failed > 0 {
		return generateErr("%d of %d requests failed", failed, len(results))
	}
	return nil
}

// loadHistory imports saved sessions into a.gen, oldest entry first. With
// no explicit file it reads every auto-saved session.
func (a *app) loadHistory(from string) (int, error) {
	var paths []string
	if from != "" {
		paths = []string{from}
	} else {
		dir := a.cfg.Generator.AutoSaveDir
		if dir == "" {
			return 0, usageErr("no saved history: pass -from or set generator.auto_save_dir")
		}
		matches, err := filepath.Glob(filepath.Join(dir, "content_history_*.json"))
		if err != nil {
			return 0, err
		}
		paths = matches
	}

	var entries []*generator.Result
	for _, path := range paths {
		doc, err := readHistoryFile(path)
		if err != nil {
			return 0, err
		}
		for _, r := range doc.History {
			if r != nil {
				entries = append(entries, r)
			}
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return a.gen.ImportHistory(entries), nil
}

func readHistoryFile(path string) (*generator.HistoryExport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := generator.ReadHistoryExport(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// formatFromPath picks the export format from the file extension.
func formatFromPath(path string) (generator.Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return generator.FormatJSON, nil
	}
	return generator.ParseFormat(ext)
}

func cmdHistory(a *app, args []string) error {
	fs := newFlagSet(a, "history", "[flags]")
	from := fs.String("from", "", "history export to read (default: every session in the auto-save directory)")
	limit := fs.Int("limit", 10, "show at most this many recent entries, 0 for all")
	templateName := fs.String("template", "", "only entries from this template")
	since := fs.String("since", "", "only entries on or after this date (YYYY-MM-DD)")
	successOnly := fs.Bool("success-only", false, "hide failed generations")
	export := fs.String("export", "", "also export the loaded history; the extension picks json, csv, or txt")
	asJSON := fs.Bool("json", false, "print JSON")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	filter := generator.HistoryFilter{
		Limit:       *limit,
		Template:    *templateName,
		SuccessOnly: *successOnly,
	}
	if *since != "" {
		t, err := time.ParseInLocation("2006-01-02", *since, time.Local)
		if err != nil {
			return usageErr("invalid -since %q: use YYYY-MM-DD", *since)
		}
		filter.Since = t
	}

	if _, err := a.loadHistory(*from); err != nil {
		return err
	}

	if *export != "" {
		format, err := formatFromPath(*export)
		if err != nil {
			return usageErr("%v", err)
		}
		if err := a.gen.ExportHistory(*export, format); err != nil {
			return err
		}
		fmt.Fprintf(a.stderr, "History exported to %s\n", *export)
	}

	entries := a.gen.History(filter)
	if *asJSON {
		if entries == nil {
			entries = []*generator.Result{}
		}
		return a.printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.stdout, "No history entries.")
		return nil
	}

	tw := a.table()
	fmt.Fprintln(tw, "TIMESTAMP\tTEMPLATE\tSTATUS\tTOKENS\tCOST\tCACHED")
	for _, r := range entries {
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t$%.6f\t%t\n",
			r.Timestamp.Local().Format(timestampLayout), r.TemplateUsed, status,
			r.TokensUsed.Total, r.Cost, r.Cached)
	}
	return tw.Flush()
}

func cmdStats(a *app, args []string) error {
	fs := newFlagSet(a, "stats", "[flags]")
	from := fs.String("from", "", "history export to read (default: every session in the auto-save directory)")
	detailed := fs.Bool("detailed", false, "break usage and cost down per template")
	asJSON := fs.Bool("json", false, "print JSON")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	if _, err := a.loadHistory(*from); err != nil {
		return err
	}
	stats := a.gen.Statistics()
	if *asJSON {
		return a.printJSON(stats)
	}

	tw := a.table()
	fmt.Fprintf(tw, "Total generations:\t%d\n", stats.TotalGenerations)
	fmt.Fprintf(tw, "Successful:\t%d (%.1f%%)\n", stats.SuccessfulGenerations, stats.SuccessRate)
	fmt.Fprintf(tw, "Failed:\t%d\n", stats.FailedGenerations)
	fmt.Fprintf(tw, "Total tokens:\t%s\n", formatCount(stats.TotalTokens))
	fmt.Fprintf(tw, "Total cost:\t$%.6f\n", stats.TotalCost)
	fmt.Fprintf(tw, "Cache hit rate:\t%.1f%%\n", stats.CacheHitRate)
	fmt.Fprintf(tw, "Average generation time:\t%.2fs\n", stats.AverageGenerationTime)
	if err := tw.Flush(); err != nil {
		return err
	}

	if !*detailed || len(stats.TemplatesUsed) == 0 {
		return nil
	}
	names := make([]string, 0, len(stats.TemplatesUsed))
	for name := range stats.TemplatesUsed {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.stdout)
	tw = a.table()
	fmt.Fprintln(tw, "TEMPLATE\tUSES\tCOST")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%d\t$%.6f\n", name, stats.TemplatesUsed[name], stats.CostByTemplate[name])
	}
	return tw.Flush()
}

func cmdValidate(a *app, args []string) error {
	fs := newFlagSet(a, "validate", "<template> [-var KEY=VALUE ...] | -catalog <file>")
	vars := varsFlag{}
	fs.Var(vars, "var", "template variable as KEY=VALUE (repeatable)")
	varsFile := fs.String("vars-file", "", "JSON object of template variables")
	catalog := fs.String("catalog", "", "validate a template catalog file instead")
	positional, err := parse(fs, args)
	if err != nil {
		return err
	}

	if *catalog != "" {
		return a.validateCatalog(*catalog)
	}

	name, err := templateArg(fs, positional)
	if err != nil {
		return err
	}
	variables, err := loadVars(*varsFile, vars)
	if err != nil {
		return usageErr("%v", err)
	}

	if !a.store.Has(name) {
		return usageErr("template '%s' not found", name)
	}
	if ok, missing := a.gen.ValidateTemplateVariables(name, variables); !ok {
		return usageErr("missing required variables for '%s': %s", name, strings.Join(missing, ", "))
	}
	fmt.Fprintf(a.stdout, "All required variables for '%s' are present.\n", name)
	return nil
}

func (a *app) validateCatalog(path string) error {
	templates, err := template.LoadCatalog(path)
	if err != nil {
		return &exitCodeError{code: exitUsage, err: err}
	}

	problems := 0
	for _, t := range templates {
		ok, issues := template.ValidateSyntax(t.Template)
		warnings := t.Lint()
		if ok && len(warnings) == 0 {
			fmt.Fprintf(a.stdout, "ok    %s\n", t.Name)
			continue
		}
		if !ok {
			problems++
		}
		fmt.Fprintf(a.stdout, "check %s\n", t.Name)
		for _, issue := range issues {
			fmt.Fprintf(a.stdout, "      error: %s\n", issue)
		}
		for _, w := range warnings {
			fmt.Fprintf(a.stdout, "      warning: %s\n", w)
		}
	}

	if problems > 0 {
		return usageErr("%d of %d templates in %s have errors", problems, len(templates), path)
	}
	fmt.Fprintf(a.stdout, "%s: %d templates valid\n", path, len(templates))
	return nil
}

func cmdCostEstimate(a *app, args []string) error {
	fs := newFlagSet(a, "cost-estimate", "<template> [flags]")
	vars := varsFlag{}
	fs.Var(vars, "var", "template variable as KEY=VALUE (repeatable)")
	varsFile := fs.String("vars-file", "", "JSON object of template variables")
	modelName := fs.String("model", "", "price against this model (default: generator.estimate_model)")
	asJSON := fs.Bool("json", false, "print JSON")

	positional, err := parse(fs, args)
	if err != nil {
		return err
	}
	name, err := templateArg(fs, positional)
	if err != nil {
		return err
	}
	variables, err := loadVars(*varsFile, vars)
	if err != nil {
		return usageErr("%v", err)
	}

	est := a.gen.EstimateCost(name, variables, *modelName)
	if *asJSON {
		if err := a.printJSON(est); err != nil {
			return err
		}
	}
	if !est.Success {
		return usageErr("estimate failed: %s", est.Error)
	}
	if *asJSON {
		return nil
	}

	tw := a.table()
	fmt.Fprintf(tw, "Model:\t%s\n", est.Model)
	fmt.Fprintf(tw, "Prompt tokens:\t%d\n", est.EstimatedPromptTokens)
	fmt.Fprintf(tw, "Completion tokens:\t%d\n", est.EstimatedCompletionTokens)
	fmt.Fprintf(tw, "Total tokens:\t%d\n", est.EstimatedTotalTokens)
	fmt.Fprintf(tw, "Estimated cost:\t$%.6f\n", est.EstimatedCost)
	return tw.Flush()
}

// providerStatus is the output of the status command.
type providerStatus struct {
	Provider    string                   `json:"provider"`
	Model       string                   `json:"model"`
	APIKey      string                   `json:"api_key"`
	KeyAccepted bool                     `json:"key_accepted"`
	RateLimit   provider.RateLimitStatus `json:"rate_limit"`
}

func cmdStatus(a *app, args []string) error {
	fs := newFlagSet(a, "status", "[flags]")
	asJSON := fs.Bool("json", false, "print JSON")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if a.mgr == nil {
		return fmt.Errorf("model provider %q is unavailable", a.cfg.Provider.Name)
	}

	ctx, cancel := interruptContext()
	defer cancel()

	st := providerStatus{
		Provider:    a.mgr.Provider(),
		Model:       a.mgr.Model(),
		APIKey:      sanitize.MaskAPIKey(a.cfg.Provider.APIKey),
		KeyAccepted: a.mgr.ValidateAPIKey(ctx, true),
		RateLimit:   a.mgr.CheckRateLimit(ctx),
	}

	if *asJSON {
		if err := a.printJSON(st); err != nil {
			return err
		}
	} else {
		key := "not accepted"
		if st.KeyAccepted {
			key = "accepted"
		}
		tw := a.table()
		fmt.Fprintf(tw, "Provider:\t%s\n", st.Provider)
		fmt.Fprintf(tw, "Model:\t%s\n", st.Model)
		fmt.Fprintf(tw, "API key:\t%s (%s)\n", st.APIKey, key)
		fmt.Fprintf(tw, "Rate limit:\t%s\n", st.RateLimit.Status)
		if st.RateLimit.Message != "" {
			fmt.Fprintf(tw, "Detail:\t%s\n", st.RateLimit.Message)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if !st.KeyAccepted || st.RateLimit.Status != provider.RateLimitOK {
		return fmt.Errorf("provider %s is not ready: %s", st.Provider, st.RateLimit.Status)
	}
	return nil
}

const (
	configFileName  = "contentkit.yaml"
	catalogFileName = "templates.yaml"
	envExampleName  = ".env.example"
)

const starterConfig = `# contentkit configuration. Environment variables (CONTENTKIT_*) override
# these values; run "contentkit -help-env" for the list.
provider:
  name: openai
  model: gpt-3.5-turbo
  max_tokens: 2000
  temperature: 0.7
  timeout: 30s
  retry_attempts: 3
  retry_base_delay: 2s

generator:
  cache_size: 100
  cache_ttl: 1h
  history_size: 1000
  cost_alert: 1.0
  estimate_model: gpt-4o-mini
  auto_save_dir: history

templates:
  catalog_path: templates.yaml
  watch: false
  load_builtins: true

log:
  level: info
  format: text

server:
  addr: 127.0.0.1:8080
`

const starterEnv = `# Copy to .env and fill in.
CONTENTKIT_PROVIDER_API_KEY=
# CONTENTKIT_PROVIDER_BASE_URL=
# CONTENTKIT_LOG_LEVEL=debug
`

func cmdInit(a *app, args []string) error {
	fs := newFlagSet(a, "init", "[flags]")
	dir := fs.String("dir", ".", "directory to write the starter files into")
	force := fs.Bool("force", false, "overwrite existing files")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return err
	}
	configPath := filepath.Join(*dir, configFileName)
	catalogPath := filepath.Join(*dir, catalogFileName)
	envPath := filepath.Join(*dir, envExampleName)

	if !*force {
		for _, path := range []string{configPath, catalogPath, envPath} {
			if _, err := os.Stat(path); err == nil {
				return usageErr("%s already exists; use -force to overwrite", path)
			}
		}
	}

	if err := fileutil.WriteAtomic(configPath, []byte(starterConfig)); err != nil {
		return err
	}
	if err := template.SaveCatalog(catalogPath, a.store.Export()); err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(envPath, []byte(starterEnv)); err != nil {
		return err
	}

	for _, path := range []string{configPath, catalogPath, envPath} {
		fmt.Fprintln(a.stdout, "Created", path)
	}
	return nil
}

func cmdSchema(a *app, args []string) error {
	fs := newFlagSet(a, "schema", "[flags]")
	output := fs.String("output", "", "write the schema to this file instead of stdout")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	data, err := template.CatalogSchema()
	if err != nil {
		return err
	}
	if *output != "" {
		return fileutil.WriteAtomic(*output, append(data, '\n'))
	}
	_, err = fmt.Fprintln(a.stdout, string(data))
	return err
}

// formatCount renders n with a thousands separator.
func formatCount(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + formatCount(-n)
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
