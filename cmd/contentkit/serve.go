package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/contentkit/metrics"
	"github.com/randalmurphal/contentkit/server"
	"github.com/randalmurphal/contentkit/template"
)

func cmdServe(a *app, args []string) error {
	fs := newFlagSet(a, "serve", "[flags]")
	addr := fs.String("addr", a.cfg.Server.Addr, "listen address")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return a.serve(ctx, *addr, nil)
}

// serve runs the HTTP API and, when configured, the catalog watcher until
// ctx is done. ready, if set, receives the bound address.
func (a *app) serve(ctx context.Context, addr string, ready chan<- string) error {
	opts := []server.Option{
		server.WithLogger(a.logger),
		server.WithRequestTimeout(a.cfg.Server.RequestTimeout),
	}
	if a.registry != nil {
		opts = append(opts, server.WithMetrics(metrics.Handler(a.registry)))
	}
	srv := server.New(a.gen, opts...)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	wg, ctx := errgroup.WithContext(ctx)
	httpServer := &http.Server{
		BaseContext:       func(net.Listener) context.Context { return ctx },
		Handler:           srv.Routes(),
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
	}

	if path := a.cfg.Templates.CatalogPath; a.cfg.Templates.Watch && path != "" {
		watcher := template.NewWatcher(path, a.store, template.WithWatchLogger(a.logger))
		wg.Go(func() error {
			a.logger.Info("watching template catalog", slog.String("path", path))
			return watcher.Run(ctx)
		})
	}

	wg.Go(func() error {
		a.logger.Info("starting HTTP server", slog.String("addr", ln.Addr().String()))
		if ready != nil {
			ready <- ln.Addr().String()
		}
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	wg.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := wg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
