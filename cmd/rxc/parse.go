package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"

	"rxc/internal/ast"
	"rxc/internal/diagfmt"
	"rxc/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.rx>",
	Short: "Parse a source file and dump its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().Bool("quiet", false, "report syntax errors only, without the tree")
}

func runParse(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}

	res, err := driver.Parse(cmd.Context(), args[0], s.cfg.Check.MaxDiagnostics)
	if err != nil {
		return err
	}
	if !quiet {
		w := bufio.NewWriter(os.Stdout)
		if err := ast.Dump(w, res.Builder, res.FileID); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	if res.Bag.Len() > 0 {
		if err := diagfmt.Render(os.Stderr, res.Bag, res.FileSet, s.renderOpts(diagfmt.FormatPretty)); err != nil {
			return err
		}
	}
	if res.Bag.HasErrors() {
		return errFailed
	}
	return nil
}
