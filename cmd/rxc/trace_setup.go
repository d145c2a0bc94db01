package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rxc/internal/trace"
)

var traceCleanup func()

func runTraceCleanup() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}

// setupTracing builds the tracer from rxc.toml [trace] and the --trace
// flags, and attaches it to the command context.
func setupTracing(cmd *cobra.Command) (func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	flags := cmd.Root().PersistentFlags()
	levelStr, formatStr, output := cfg.Trace.Level, cfg.Trace.Format, cfg.Trace.Output
	if flags.Changed("trace-level") {
		levelStr, _ = flags.GetString("trace-level")
	}
	if flags.Changed("trace-format") {
		formatStr, _ = flags.GetString("trace-format")
	}
	if flags.Changed("trace") {
		output, _ = flags.GetString("trace")
		// asking for output implies at least phase events
		if !flags.Changed("trace-level") && levelStr == "off" {
			levelStr = "phase"
		}
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(trace.Config{Level: level, Format: format, Output: output})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
		}
	}, nil
}
