package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rxc/internal/diagfmt"
	"rxc/internal/driver"
	"rxc/internal/project"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [files or directories...]",
	Short: "Run the semantic passes over source files",
	Long: `check parses every file and runs name resolution, the self/Self
checker and the type checker. Without arguments the source roots of the
nearest rxc.toml are checked.`,
	RunE: runCheck,
}

func init() {
	addCheckFlags(checkCmd)
	checkCmd.Flags().String("format", "pretty", "diagnostic format (pretty|short|json)")
	checkCmd.Flags().String("stage", "all", "last stage to run (tokenize|syntax|sema|all)")
	checkCmd.Flags().Bool("no-cache", false, "ignore and do not update the diagnostic cache")
	checkCmd.Flags().Bool("clear-cache", false, "remove cached diagnostics before checking")
}

type checkFileJSON struct {
	Path        string                    `json:"path"`
	Cached      bool                      `json:"cached,omitempty"`
	Aborted     bool                      `json:"aborted,omitempty"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	formatStr, _ := flags.GetString("format")
	format, err := diagfmt.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	stageStr, _ := flags.GetString("stage")
	stage, ok := driver.ParseStage(stageStr)
	if !ok {
		return fmt.Errorf("unknown stage %q (want tokenize, syntax, sema or all)", stageStr)
	}
	noCache, _ := flags.GetBool("no-cache")
	clearCache, _ := flags.GetBool("clear-cache")

	paths, baseDir, err := checkInputs(s.cfg, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files to check", driver.SourceExt)
	}

	opts := driver.BatchOptions{
		DiagnoseOptions: s.diagnoseOptions(stage),
		Jobs:            s.cfg.Batch.Jobs,
		BaseDir:         baseDir,
	}
	if s.cfg.Batch.Cache && !noCache {
		cache, err := driver.OpenDiskCache("rxc")
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: diagnostic cache disabled: %v\n", err)
		} else {
			if clearCache {
				if err := cache.Clear(); err != nil {
					return err
				}
			}
			opts.Cache = cache
		}
	}

	results, err := driver.CheckBatch(cmd.Context(), paths, opts)
	if err != nil {
		return err
	}
	if err := printCheckResults(os.Stderr, results, format, s, baseDir); err != nil {
		return err
	}

	summary := driver.Summarize(results)
	if s.timings {
		fmt.Fprint(os.Stderr, summary.Timing.Summary())
	}
	if format != diagfmt.FormatJSON && len(results) > 1 {
		fmt.Fprintf(os.Stderr, "checked %d files: %d failed, %d errors (%d cached)\n",
			summary.Files, summary.Failed, summary.Errors, summary.Cached)
	}
	if summary.Failed > 0 {
		return errFailed
	}
	return nil
}

// checkInputs expands args, falling back to the configured source roots.
func checkInputs(cfg project.Config, args []string) ([]string, string, error) {
	if len(args) > 0 {
		paths, err := driver.ExpandPaths(args)
		return paths, "", err
	}
	root := "."
	if cfg.Path != "" {
		root = filepath.Dir(cfg.Path)
	}
	var dirs []string
	for _, src := range cfg.Project.Sources {
		dir, err := project.ResolveSourceRoot(root, src)
		if err != nil {
			return nil, "", err
		}
		dirs = append(dirs, dir)
	}
	paths, err := driver.ExpandPaths(dirs)
	return paths, root, err
}

func printCheckResults(w io.Writer, results []driver.BatchResult, format diagfmt.Format, s *settings, baseDir string) error {
	if format == diagfmt.FormatJSON {
		out := make([]checkFileJSON, 0, len(results))
		for _, r := range results {
			out = append(out, checkFileJSON{
				Path:    r.Display,
				Cached:  r.Cached,
				Aborted: r.Result.Abort != nil,
				Diagnostics: diagfmt.BuildDiagnosticsOutput(r.Result.Bag, r.Result.FileSet, diagfmt.JSONOpts{
					IncludePositions: true,
					IncludeNotes:     true,
					BaseDir:          baseDir,
				}),
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	opts := s.renderOpts(format)
	opts.BaseDir = baseDir
	for _, r := range results {
		if r.Result.Bag.Len() == 0 {
			continue
		}
		if err := diagfmt.Render(w, r.Result.Bag, r.Result.FileSet, opts); err != nil {
			return err
		}
	}
	return nil
}
