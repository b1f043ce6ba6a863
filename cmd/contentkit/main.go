// Command contentkit generates marketing and editorial copy from prompt
// templates.
//
// Usage:
//
//	contentkit [global flags] <command> [flags] [args]
//
// Commands: list, search, generate, variations, batch, history, stats,
// validate, cost-estimate, init, schema, serve. Run "contentkit -help-env"
// for the environment variables.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/randalmurphal/contentkit/config"
	_ "github.com/randalmurphal/contentkit/providers"
)

// Exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitUsage    = 2
	exitGenerate = 3
)

// exitCodeError carries a specific exit code out of a command.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

func usageErr(format string, args ...any) error {
	return &exitCodeError{code: exitUsage, err: fmt.Errorf(format, args...)}
}

func generateErr(format string, args ...any) error {
	return &exitCodeError{code: exitGenerate, err: fmt.Errorf(format, args...)}
}

type command struct {
	name    string
	summary string
	run     func(a *app, args []string) error

	// offline commands never build a model client.
	offline bool

	// metrics commands get a Prometheus registry wired to the client.
	metrics bool
}

var commands = []command{
	{name: "list", summary: "List available templates", run: cmdList, offline: true},
	{name: "search", summary: "Fuzzy-search templates", run: cmdSearch, offline: true},
	{name: "generate", summary: "Generate content using a template", run: cmdGenerate},
	{name: "variations", summary: "Generate several variations", run: cmdVariations},
	{name: "batch", summary: "Process batch requests from a JSON file", run: cmdBatch},
	{name: "history", summary: "Show saved generation history", run: cmdHistory, offline: true},
	{name: "stats", summary: "Show usage statistics of saved history", run: cmdStats, offline: true},
	{name: "validate", summary: "Validate template variables or a catalog file", run: cmdValidate, offline: true},
	{name: "cost-estimate", summary: "Estimate cost before generation", run: cmdCostEstimate, offline: true},
	{name: "init", summary: "Write a starter config and template catalog", run: cmdInit, offline: true},
	{name: "status", summary: "Check the API key and rate limit of the provider", run: cmdStatus},
	{name: "schema", summary: "Print the JSON Schema of template catalogs", run: cmdSchema, offline: true},
	{name: "serve", summary: "Serve the HTTP API", run: cmdServe, metrics: true},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("contentkit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "YAML or TOML config file")
	envFile := fs.String("env-file", "", "dotenv file to load (default .env when present)")
	providerName := fs.String("provider", "", "override the model provider (openai, mock)")
	helpEnv := fs.Bool("help-env", false, "list the recognized environment variables")
	fs.Usage = func() { printUsage(fs, stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *helpEnv {
		if err := config.Usage(stdout); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return exitError
		}
		return exitOK
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	name, rest := fs.Arg(0), fs.Args()[1:]
	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "error: unknown command %q\n", name)
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(config.LoadOptions{File: *configFile, EnvFile: *envFile})
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitError
	}
	if *providerName != "" {
		cfg.Provider.Name = *providerName
	}

	a, err := newApp(cfg, stdout, stderr, cmd)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitError
	}

	err = cmd.run(a, rest)
	if cerr := a.close(); err == nil && cerr != nil {
		err = cerr
	}
	if err == nil {
		return exitOK
	}
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}

	fmt.Fprintln(stderr, "error:", err)
	var ce *exitCodeError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitError
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: contentkit [global flags] <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-14s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global flags:")
	fs.PrintDefaults()
}
