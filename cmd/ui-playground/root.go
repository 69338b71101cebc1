// Package main provides the CLI entrypoint for the overlay playground.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/timjonaswechler/ui/internal/config"
	"github.com/timjonaswechler/ui/internal/tui"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		watch      bool
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ui-playground",
	Short: "Interactive playground for the overlay engine",
	Long: `ui-playground is an interactive terminal playground for the overlay
engine: anchors, collision-aware positioning, timed open/close, focus
traps and dismissal.

Move the cursor over the canvas, open preset overlays on the anchor
boxes and watch the engine react to clicks, Escape and resizes.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if globalOpts.watch {
			path := globalOpts.configPath
			if path == "" {
				path = config.ConfigPath()
			}
			fw, err := config.NewFileWatcher(path, func(next *config.Config) {
				logger.Info("config reloaded, restart to apply", "path", path)
			})
			if err != nil {
				return fmt.Errorf("failed to watch config: %w", err)
			}
			if err := fw.Start(); err != nil {
				return fmt.Errorf("failed to watch config: %w", err)
			}
			defer fw.Stop()
		}

		return tui.Run(cfg)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/ui/config.toml)")
	rootCmd.Flags().BoolVar(&globalOpts.watch, "watch", false,
		"Watch the config file and log reloads")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
