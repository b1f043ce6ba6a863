package main

import (
	"errors"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/randalmurphal/contentkit/config"
	"github.com/randalmurphal/contentkit/generator"
	"github.com/randalmurphal/contentkit/metrics"
	"github.com/randalmurphal/contentkit/provider"
	"github.com/randalmurphal/contentkit/template"
)

// app holds what a command needs.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer

	store *template.Store
	mgr   *provider.Manager
	gen   *generator.Generator

	// Set for commands that expose metrics.
	registry  *prometheus.Registry
	collector *metrics.Collector
}

// newApp builds the template store and, for online commands, the model
// client. A client that cannot be built is logged and left out, so
// generations fail cleanly instead of the process exiting.
func newApp(cfg config.Config, stdout, stderr io.Writer, cmd *command) (*app, error) {
	logger, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}

	if a.store, err = newStore(cfg.Templates, logger); err != nil {
		return nil, err
	}

	mgrOpts := []provider.ManagerOption{
		provider.WithLogger(logger),
		provider.WithTokenCounter(cfg.Generator.CounterFactory()),
	}
	if cmd.metrics {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if a.collector, err = metrics.New(a.registry, metrics.WithKnownTemplates(a.store.Has)); err != nil {
			return nil, err
		}
		mgrOpts = append(mgrOpts, provider.WithMonitor(a.collector))
	}

	var client generator.Completer
	if !cmd.offline {
		a.mgr, err = provider.NewManagerFromConfig(cfg.Provider, mgrOpts...)
		if err != nil {
			logger.Warn("model provider unavailable, generations will fail",
				slog.String("provider", cfg.Provider.Name),
				slog.Any("error", err))
		} else {
			client = a.mgr
		}
	}

	opts := append([]generator.Option{generator.WithLogger(logger)}, cfg.GeneratorOptions()...)
	if cmd.offline {
		// Offline commands must not leave auto-saved sessions behind.
		opts = append(opts, generator.WithAutoSaveDir(""))
	}
	a.gen = generator.New(a.store, client, opts...)
	if a.collector != nil {
		a.gen.RegisterCallback(a.collector.ObserveResult)
	}
	return a, nil
}

func newStore(cfg config.TemplatesConfig, logger *slog.Logger) (*template.Store, error) {
	store := template.NewStore(template.WithLogger(logger))
	if cfg.LoadBuiltins {
		store.LoadBuiltins()
	}
	if cfg.CatalogPath != "" {
		templates, err := template.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		store.Import(templates, true)
	}
	return store, nil
}

func (a *app) close() error {
	var errs []error
	if a.gen != nil {
		errs = append(errs, a.gen.Close())
	}
	if a.mgr != nil {
		errs = append(errs, a.mgr.Close())
	}
	return errors.Join(errs...)
}
