package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rxc/internal/diagfmt"
	"rxc/internal/driver"
	"rxc/internal/suite"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] <suite.yaml>",
	Short: "Run a suite of files with expected outcomes",
	Long: `batch checks every case listed in a YAML suite manifest and compares
the outcome with the expectation (pass, or fail with given codes).`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	addCheckFlags(batchCmd)
	batchCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	batchCmd.Flags().BoolP("verbose", "v", false, "print diagnostics of failing cases")
}

func runBatch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	uiStr, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiStr)
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	m, err := suite.LoadManifest(args[0])
	if err != nil {
		return err
	}
	opts := suite.RunOptions{
		Jobs:       s.cfg.Batch.Jobs,
		MaxTimeout: s.cfg.Batch.Timeout,
		Diagnose:   s.diagnoseOptions(driver.DiagnoseStageAll),
	}

	var report *suite.Report
	if shouldUseTUI(mode) {
		report, err = runSuiteWithUI(cmd.Context(), m, opts)
	} else {
		report, err = suite.Run(cmd.Context(), m, opts)
	}
	if err != nil {
		return err
	}
	if err := printSuiteReport(os.Stdout, report, s, verbose); err != nil {
		return err
	}
	if !report.OK() {
		return errFailed
	}
	return nil
}

func printSuiteReport(w io.Writer, report *suite.Report, s *settings, verbose bool) error {
	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	if !s.color {
		pass.DisableColor()
		fail.DisableColor()
	}
	for _, r := range report.Results {
		if r.Status == suite.StatusPass {
			continue
		}
		fmt.Fprintf(w, "%s %s: %s\n", fail.Sprint(string(r.Status)), r.Display, r.Reason)
		if verbose && r.Result != nil && r.Result.Bag.Len() > 0 {
			if err := diagfmt.Render(w, r.Result.Bag, r.Result.FileSet, s.renderOpts(diagfmt.FormatShort)); err != nil {
				return err
			}
		}
	}
	passed := report.Count(suite.StatusPass)
	label := pass.Sprint("ok")
	if !report.OK() {
		label = fail.Sprint("FAILED")
	}
	fmt.Fprintf(w, "%s: %d passed, %d failed, %d timed out, %d errors in %.1f ms\n",
		label, passed, report.Count(suite.StatusFail), report.Count(suite.StatusTimeout),
		report.Count(suite.StatusError), float64(report.Elapsed.Microseconds())/1000)
	return nil
}
