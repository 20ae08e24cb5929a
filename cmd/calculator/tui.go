package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	tuiDark      bool
	tuiAltScreen bool
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the calculator in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("dark") {
			cfg.DarkMode = tuiDark
		}
		return runTUI(cmd.Context())
	},
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiDark, "dark", false, "start in dark mode")
	tuiCmd.Flags().BoolVar(&tuiAltScreen, "alt-screen", true, "use the full terminal window")
}

func runTUI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	// The terminal belongs to the view: log to a file or not at all.
	if err := observability.InitLogger(cfg.LogLevel, logOutputs("")...); err != nil {
		return err
	}

	telemetryShutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(context.Background()); err != nil {
			observability.Logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	return tui.Run(ctx, tui.Options{
		DarkMode:  cfg.DarkMode,
		AltScreen: tuiAltScreen,
	})
}
