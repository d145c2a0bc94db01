package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ManifestName is the project configuration file.
const ManifestName = "rxc.toml"

// FindManifest walks up from startDir to locate rxc.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindProjectRoot returns the directory containing rxc.toml, if any.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(manifestPath), true, nil
}

// ResolveSourceRoot validates a [project].sources entry: it must be
// relative, stay inside the project and name a directory.
func ResolveSourceRoot(projectRoot, root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", errors.New("empty source root")
	}
	if filepath.IsAbs(root) {
		return "", fmt.Errorf("invalid source root %q: must be relative", root)
	}
	rootPath := filepath.Join(projectRoot, filepath.Clean(filepath.FromSlash(root)))
	if !pathWithin(projectRoot, rootPath) {
		return "", fmt.Errorf("invalid source root %q: escapes project root", root)
	}
	info, err := os.Stat(rootPath)
	if err != nil {
		return "", fmt.Errorf("invalid source root %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("invalid source root %q: not a directory", root)
	}
	return rootPath, nil
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
