package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/observer/internal/config"
)

var (
	verbose    bool
	configPath string
)

// errInvalid signals an invalid outcome that has already been printed.
var errInvalid = errors.New("validation failed")

var rootCmd = &cobra.Command{
	Use:   "observer",
	Short: "Validate extracted repository change metadata",
	Long: `Observer validates metadata extracted from repository changes
(owner, date, description and an optional version change) before it is
handed to downstream consumers.

Core capabilities:
- Rule-based completeness and content checks
- Optional advisory validation through OpenAI or Anthropic
- Bounded re-extraction with feedback from earlier failures
- Failure and summary reports in text, JSON or HTML`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(verbose)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: XDG config plus .observer.yaml)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogging installs a text handler on stderr.
func setupLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig honours --config when set.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		if err := config.LoadDotEnv(".env"); err != nil {
			return nil, err
		}
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}
