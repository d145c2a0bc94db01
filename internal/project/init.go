package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrManifestExists is returned by Init when rxc.toml is already present.
var ErrManifestExists = errors.New(ManifestName + " already exists")

// Encode renders cfg as rxc.toml text.
func Encode(cfg Config) ([]byte, error) {
	var fc fileConfig
	fc.Project.Name = cfg.Project.Name
	fc.Project.Sources = cfg.Project.Sources
	fc.Check.ThrowOnError = cfg.Check.ThrowOnError
	fc.Check.MaxDiagnostics = cfg.Check.MaxDiagnostics
	fc.Check.PointerWidth = int(cfg.Check.PointerWidth)
	fc.Trace.Level = cfg.Trace.Level
	fc.Trace.Format = cfg.Trace.Format
	fc.Trace.Output = cfg.Trace.Output
	fc.Batch.Jobs = cfg.Batch.Jobs
	fc.Batch.Timeout = cfg.Batch.Timeout.String()
	fc.Batch.Cache = cfg.Batch.Cache

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(fc); err != nil {
		return nil, fmt.Errorf("encode %s: %w", ManifestName, err)
	}
	return buf.Bytes(), nil
}

// Init writes a default rxc.toml named name into dir and creates the first
// source root. An existing manifest is kept unless force is set.
func Init(dir, name string, force bool) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil && !force {
		return path, ErrManifestExists
	}
	cfg := Default()
	cfg.Project.Name = name
	data, err := Encode(cfg)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(dir, cfg.Project.Sources[0]), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
