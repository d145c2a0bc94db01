package source

import (
	"fmt"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

type (
	// FileID identifies a file inside a FileSet.
	FileID uint32
	// FileFlags records how a file entered the set.
	FileFlags uint8
)

const (
	// FileVirtual marks content that did not come from disk (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one loaded source text plus its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based line/column position.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Line returns the text of the 1-based line n without its newline.
func (f *File) Line(n uint32) string {
	if n == 0 {
		return ""
	}
	size := mustLen(len(f.Content))
	var start uint32
	if n > 1 {
		if int(n-2) >= len(f.LineIdx) {
			return ""
		}
		start = f.LineIdx[n-2] + 1
	}
	end := size
	if int(n-1) < len(f.LineIdx) {
		end = f.LineIdx[n-1]
	}
	if start > size || start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// Text returns the bytes covered by sp as a string.
func (f *File) Text(sp Span) string {
	if int(sp.End) > len(f.Content) || sp.Start > sp.End {
		return ""
	}
	return string(f.Content[sp.Start:sp.End])
}

// BaseName returns the last path element.
func (f *File) BaseName() string {
	return filepath.Base(f.Path)
}

func mustLen(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("length overflow: %w", err))
	}
	return v
}

func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}
	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	var out []uint32
	for i, b := range content {
		if b == '\n' {
			out = append(out, mustLen(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// number of newlines strictly before off
	line, _ := slices.BinarySearch(lineIdx, off)
	var start uint32
	if line > 0 {
		start = lineIdx[line-1] + 1
	}
	return LineCol{Line: mustLen(line + 1), Col: off - start + 1}
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
