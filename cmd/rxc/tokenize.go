package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rxc/internal/diagfmt"
	"rxc/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.rx>",
	Short: "Print the token stream of a source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	res, err := driver.Tokenize(args[0], s.cfg.Check.MaxDiagnostics)
	if err != nil {
		return err
	}
	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(os.Stdout, res.Tokens, res.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(os.Stdout, res.Tokens)
	default:
		return fmt.Errorf("unknown format %q (want pretty or json)", format)
	}
	if err != nil {
		return err
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
