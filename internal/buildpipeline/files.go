package buildpipeline

import (
	"path/filepath"
	"strings"
)

// DisplayPaths makes files relative to baseDir when they live under it and
// uses forward slashes, keeping input order. Duplicates are dropped.
func DisplayPaths(files []string, baseDir string) []string {
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	out := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		if file == "" {
			continue
		}
		path := DisplayPath(file, base)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	return out
}

// DisplayPath is DisplayPaths for a single file.
func DisplayPath(file, baseDir string) string {
	path := filepath.Clean(file)
	if baseDir != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if rel, err := filepath.Rel(baseDir, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}
