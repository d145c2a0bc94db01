package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rxc/internal/version"
)

// errFailed reports that diagnostics or test failures were already printed;
// main only sets the exit status.
var errFailed = errors.New("check failed")

var rootCmd = &cobra.Command{
	Use:           "rxc",
	Short:         "Semantic checker for a Rust-like language",
	Long:          `rxc resolves names, checks self/Self placement, types and mutability of rxc source files`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return startProfiling(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopProfiling()
		runTraceCleanup()
	},
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("timings", false, "print phase timings to stderr")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	flags.String("config", "", "path to rxc.toml (default: nearest one above the working directory)")
	flags.String("trace", "", "write trace events to a file ('-' for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "text", "trace format (text|ndjson)")
	flags.String("cpuprofile", "", "write a CPU profile to file")
	flags.String("memprofile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	// PersistentPostRun is skipped when RunE fails
	stopProfiling()
	runTraceCleanup()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "rxc: %v\n", err)
		}
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
