package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/cmd/slotctl/logger"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	metrics  bool
	logLevel string
	logDir   string
)

var rootCmd = &cobra.Command{
	Use:   "slotctl",
	Short: "Exercise slotkit storages and report allocator accounting",
	Long: `slotctl runs workloads against the slotkit storage backends
(inline, alloc, small, borrowed, arena) over a heap or mmap allocator,
verifies the stored data and reports allocation counts, peak usage and leaks.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
	SilenceUsage: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		BoolVar(&metrics, "metrics", false, "Print allocator metrics in Prometheus text format")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "", "Log allocator calls at this level (debug, info, warn, error)")
	rootCmd.PersistentFlags().
		StringVar(&logDir, "log-dir", "", "Write logs to dated files in this directory instead of stderr")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogging() error {
	if logLevel == "" {
		return logger.Init(logger.Options{})
	}
	level, err := parseLevel(logLevel)
	if err != nil {
		return err
	}
	return logger.Init(logger.Options{
		Enabled: true,
		LogDir:  logDir,
		Level:   level,
		JSON:    jsonOut,
	})
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q: %w", s, err)
	}
	return level, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
