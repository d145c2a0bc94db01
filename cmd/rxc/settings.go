package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rxc/internal/diagfmt"
	"rxc/internal/driver"
	"rxc/internal/project"
)

// settings is rxc.toml with command-line overrides applied.
type settings struct {
	cfg     project.Config
	color   bool
	timings bool
}

func loadConfig(cmd *cobra.Command) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, err
	}
	if path != "" {
		return project.Load(path)
	}
	return project.LoadNearest(".")
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	root := cmd.Root().PersistentFlags()
	if root.Changed("max-diagnostics") {
		if cfg.Check.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
			return nil, err
		}
	}
	local := cmd.Flags()
	if local.Lookup("throw-on-error") != nil && local.Changed("throw-on-error") {
		if cfg.Check.ThrowOnError, err = local.GetBool("throw-on-error"); err != nil {
			return nil, err
		}
	}
	if local.Lookup("pointer-width") != nil && local.Changed("pointer-width") {
		w, err := local.GetUint8("pointer-width")
		if err != nil {
			return nil, err
		}
		if w != 32 && w != 64 {
			return nil, fmt.Errorf("--pointer-width must be 32 or 64, got %d", w)
		}
		cfg.Check.PointerWidth = w
	}
	if local.Lookup("jobs") != nil && local.Changed("jobs") {
		if cfg.Batch.Jobs, err = local.GetInt("jobs"); err != nil {
			return nil, err
		}
	}

	s := &settings{cfg: cfg}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, err
	}
	colorFlag, err := root.GetString("color")
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(colorFlag) {
	case "on":
		s.color = true
	case "off":
	case "auto":
		s.color = isTerminal(os.Stderr) && os.Getenv("NO_COLOR") == ""
	default:
		return nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	return s, nil
}

func (s *settings) diagnoseOptions(stage driver.DiagnoseStage) driver.DiagnoseOptions {
	return driver.DiagnoseOptions{
		Stage:          stage,
		MaxDiagnostics: s.cfg.Check.MaxDiagnostics,
		ThrowOnError:   s.cfg.Check.ThrowOnError,
		PointerWidth:   s.cfg.Check.PointerWidth,
		EnableTimings:  s.timings,
	}
}

func (s *settings) renderOpts(format diagfmt.Format) diagfmt.RenderOpts {
	return diagfmt.RenderOpts{Format: format, Color: s.color, Notes: true}
}

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("throw-on-error", false, "stop resolution and type checking at the first error")
	cmd.Flags().Uint8("pointer-width", 64, "bit width of usize (32|64)")
	cmd.Flags().IntP("jobs", "j", 0, "files checked in parallel (0 = GOMAXPROCS)")
}
