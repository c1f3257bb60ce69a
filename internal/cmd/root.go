package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "toolwire",
	Short: "Tool-call extraction and tool output normalization for model loops",
	Long: `toolwire sits between a language model and the developer tools it drives.

It extracts tool calls from raw model output, including malformed and
degraded encodings, and normalizes the output of type checkers, linters,
test runners, git and language servers into small structured results with
derived counts and an explicit diagnostic when a format was not recognized.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with a cancellable context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default is ./"+defaultConfigName+" when present)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json or text")
	rootCmd.PersistentFlags().StringP("format", "f", "", "output format: json, yaml, msgpack or text")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable styled text output")
	rootCmd.PersistentFlags().String("metrics-file", "", "write Prometheus metrics of this run to a textfile")
}
