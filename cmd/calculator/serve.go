package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"
	"go-chi-calculator/internal/viewstore"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator page and JSON API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Addr = serveAddr
		}
		return runServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
}

func runServer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Logger
	if err := observability.InitLogger(cfg.LogLevel, logOutputs("stdout")...); err != nil {
		return err
	}

	// Tracing, metrics, log export
	telemetryShutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := telemetryShutdown(shutdownCtx); err != nil {
			observability.Logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	// Views
	reg := observability.NewPrometheusRegistry()
	views, err := viewstore.New(reg)
	if err != nil {
		return err
	}

	// Router
	router := server.NewRouter(server.Options{
		Views:    views,
		Gatherer: reg,
		DarkMode: cfg.DarkMode,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return serve(ctx, srv, views)
}

// serve runs the listener and the idle-view sweeper until ctx is cancelled or
// the listener fails, then shuts the server down.
func serve(ctx context.Context, srv *http.Server, views *viewstore.Store) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		observability.Logger.Info("server started",
			zap.String("addr", srv.Addr),
			zap.Bool("telemetry", cfg.Telemetry),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		views.Run(gctx, sweepInterval(cfg.ViewIdleTimeout), cfg.ViewIdleTimeout)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return waitForShutdown(srv)
	})

	return g.Wait()
}

func waitForShutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	observability.Logger.Info("server shutting down")

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// sweepInterval checks for idle views a few times per idle period.
func sweepInterval(idle time.Duration) time.Duration {
	interval := idle / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// logOutputs sends logs to the configured file, or to fallback when none is
// set.
func logOutputs(fallback string) []string {
	if cfg.LogFile != "" {
		return []string{cfg.LogFile}
	}
	if fallback == "" {
		return nil
	}
	return []string{fallback}
}
