// Package main provides the CLI entrypoint for watchface.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/watchface/internal/clock"
	"github.com/jmylchreest/watchface/internal/config"
	"github.com/jmylchreest/watchface/internal/face"
	"github.com/jmylchreest/watchface/internal/health"
	"github.com/jmylchreest/watchface/internal/tui"
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
		verbose      bool
		configPath   string
		faceVersion  int
		clockFormat  string
		healthSource string
	}
	logger *slog.Logger
)

var runOpts struct {
	showHelp bool
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "watchface",
	Short: "Terminal watch face showing the time and today's steps",
	Long: `watchface renders a watch face in the terminal.

Three face versions are available:
  1  a fixed "00:00" placeholder, no timers
  2  the time, refreshed every minute, and today's step count
  3  the time, refreshed every minute, without health data

Step counts come from a health source: a D-Bus health service, a YAML
sample file (watched for changes), or a static value.

Running watchface without a subcommand launches the face.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(os.Stderr)

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return applyOverrides(cmd, cfg)
	},
	RunE: runFace,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/watchface/config.toml)")
	rootCmd.PersistentFlags().IntVar(&globalOpts.faceVersion, "face-version", 0,
		"Watch face version 1, 2 or 3 (default from config)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.clockFormat, "clock", "",
		"Clock format: auto, 12h, 24h (default from config)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.healthSource, "health-source", "",
		"Health source: auto, dbus, file, static, none (default from config)")

	rootCmd.Flags().BoolVar(&runOpts.showHelp, "show-help", true,
		"Show the key help below the face")
}

// applyOverrides copies explicitly set flags over the loaded config.
func applyOverrides(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("face-version") {
		c.Face.Version = globalOpts.faceVersion
	}
	if flags.Changed("clock") {
		c.Clock.Format = globalOpts.clockFormat
	}
	if flags.Changed("health-source") {
		c.Health.Source = globalOpts.healthSource
	}
	return c.Validate()
}

// setupLogger configures the global slog logger.
func setupLogger(w io.Writer) {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(w, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// openHealth resolves the health capability. A source that cannot be opened
// is logged and treated as no capability.
func openHealth(c *config.Config) health.Service {
	svc, err := health.NewService(c, logger)
	if err != nil {
		if errors.Is(err, health.ErrNoCapability) {
			logger.Info("no health source available")
		} else {
			logger.Error("failed to open health source", "source", c.Health.Source, "error", err)
		}
		return nil
	}
	logger.Debug("health source opened", "source", svc.Name())
	return svc
}

// newApp builds the watch face app from the effective config.
func newApp(c *config.Config, svc health.Service) (*tui.App, error) {
	v, err := face.ParseVersion(c.Face.Version)
	if err != nil {
		return nil, err
	}
	return tui.NewApp(tui.AppOptions{
		Version: v,
		Clock:   clock.NewSystem(c.Clock.Format),
		Health:  svc,
		Logger:  logger,
	}), nil
}

// runFace runs the face in the terminal. The face owns the screen, so logs
// go to the log file.
func runFace(cmd *cobra.Command, args []string) error {
	logPath := cfg.LogFilePath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	setupLogger(logFile)

	svc := openHealth(cfg)
	defer func() {
		if err := health.Close(svc); err != nil {
			logger.Warn("failed to close health source", "error", err)
		}
	}()

	app, err := newApp(cfg, svc)
	if err != nil {
		return err
	}

	return tui.Run(tui.RunOptions{
		App:      app,
		ShowHelp: runOpts.showHelp,
	})
}
