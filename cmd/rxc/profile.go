package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rxc/internal/prof"
)

var profSession *prof.Session

func startProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var paths prof.Paths
	paths.CPU, _ = flags.GetString("cpuprofile")
	paths.Mem, _ = flags.GetString("memprofile")
	paths.Trace, _ = flags.GetString("runtime-trace")
	if !paths.Enabled() {
		return nil
	}
	s, err := prof.Start(paths)
	if err != nil {
		return fmt.Errorf("profiling: %w", err)
	}
	profSession = s
	return nil
}

func stopProfiling() {
	if profSession == nil {
		return
	}
	if err := profSession.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "profiling: %v\n", err)
	}
	profSession = nil
}
