// Package project loads rxc.toml, the per-project configuration of the
// checker. Keys that are absent keep their defaults; unknown keys are an
// error so typos do not silently change behavior.
package project

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the decoded rxc.toml.
type Config struct {
	Project ProjectConfig
	Check   CheckConfig
	Trace   TraceConfig
	Batch   BatchConfig

	// Path is the file the config was read from; empty for defaults.
	Path string
}

type ProjectConfig struct {
	Name string
	// Sources are directories, relative to the project root, that
	// `rxc check` scans when no files are given.
	Sources []string
}

type CheckConfig struct {
	ThrowOnError   bool
	MaxDiagnostics int
	// PointerWidth is 32 or 64.
	PointerWidth uint8
}

type TraceConfig struct {
	Level  string
	Format string
	Output string
}

type BatchConfig struct {
	Jobs    int
	// Timeout caps the per-case timeout of `rxc batch` suites.
	Timeout time.Duration
	// Cache enables the on-disk diagnostic cache.
	Cache bool
}

// Default returns the configuration used without rxc.toml.
func Default() Config {
	return Config{
		Project: ProjectConfig{Sources: []string{"src"}},
		Check:   CheckConfig{MaxDiagnostics: 100, PointerWidth: 64},
		Trace:   TraceConfig{Level: "off", Format: "text", Output: "-"},
		Batch:   BatchConfig{Timeout: 10 * time.Second, Cache: true},
	}
}

type fileConfig struct {
	Project struct {
		Name    string   `toml:"name"`
		Sources []string `toml:"sources"`
	} `toml:"project"`
	Check struct {
		ThrowOnError   bool `toml:"throw_on_error"`
		MaxDiagnostics int  `toml:"max_diagnostics"`
		PointerWidth   int  `toml:"pointer_width"`
	} `toml:"check"`
	Trace struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
		Output string `toml:"output"`
	} `toml:"trace"`
	Batch struct {
		Jobs    int    `toml:"jobs"`
		Timeout string `toml:"timeout"`
		Cache   bool   `toml:"cache"`
	} `toml:"batch"`
}

// ErrUnknownKeys reports keys rxc.toml does not define.
var ErrUnknownKeys = errors.New("unknown keys")

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg, err := merge(meta, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes configuration text; used by tests and `rxc init --print`.
func Parse(text string) (Config, error) {
	var fc fileConfig
	meta, err := toml.Decode(text, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return merge(meta, &fc)
}

// LoadNearest loads the rxc.toml above startDir, or the defaults when none
// exists.
func LoadNearest(startDir string) (Config, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func merge(meta toml.MetaData, fc *fileConfig) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
	}

	cfg := Default()
	if meta.IsDefined("project", "name") {
		cfg.Project.Name = strings.TrimSpace(fc.Project.Name)
	}
	if meta.IsDefined("project", "sources") {
		cfg.Project.Sources = fc.Project.Sources
	}

	if meta.IsDefined("check", "throw_on_error") {
		cfg.Check.ThrowOnError = fc.Check.ThrowOnError
	}
	if meta.IsDefined("check", "max_diagnostics") {
		if fc.Check.MaxDiagnostics < 0 {
			return Config{}, fmt.Errorf("check.max_diagnostics must not be negative, got %d", fc.Check.MaxDiagnostics)
		}
		cfg.Check.MaxDiagnostics = fc.Check.MaxDiagnostics
	}
	if meta.IsDefined("check", "pointer_width") {
		switch fc.Check.PointerWidth {
		case 32, 64:
			cfg.Check.PointerWidth = uint8(fc.Check.PointerWidth)
		default:
			return Config{}, fmt.Errorf("check.pointer_width must be 32 or 64, got %d", fc.Check.PointerWidth)
		}
	}

	if meta.IsDefined("trace", "level") {
		cfg.Trace.Level = fc.Trace.Level
	}
	if meta.IsDefined("trace", "format") {
		cfg.Trace.Format = fc.Trace.Format
	}
	if meta.IsDefined("trace", "output") {
		cfg.Trace.Output = fc.Trace.Output
	}

	if meta.IsDefined("batch", "jobs") {
		if fc.Batch.Jobs < 0 {
			return Config{}, fmt.Errorf("batch.jobs must not be negative, got %d", fc.Batch.Jobs)
		}
		cfg.Batch.Jobs = fc.Batch.Jobs
	}
	if meta.IsDefined("batch", "timeout") {
		d, err := time.ParseDuration(fc.Batch.Timeout)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("batch.timeout must be a positive duration, got %q", fc.Batch.Timeout)
		}
		cfg.Batch.Timeout = d
	}
	if meta.IsDefined("batch", "cache") {
		cfg.Batch.Cache = fc.Batch.Cache
	}
	return cfg, nil
}
