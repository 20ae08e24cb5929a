package main

import (
	"fmt"
	"os"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	logLevel   string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "calculator",
	Short: "Two-operand calculator with history, as a web page or in the terminal",
	Long: `calculator adds, subtracts, multiplies and divides two numbers and keeps a
most-recent-first history of every calculation.

Shortcuts: a=add s=subtract m=multiply d=divide c=clear.

Run "calculator serve" for the web front end or "calculator tui" for the
terminal front end.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		observability.SyncLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, tuiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
