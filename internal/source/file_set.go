package source

import (
	"crypto/sha256"
	"fmt"
	"os"
)

// FileSet owns every file of a compilation run.
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// Add stores content under path and returns a fresh FileID.
// Re-adding a path creates a new file; lookups by path return the latest one.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	id := FileID(mustLen(len(fs.files)))
	norm := normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    norm,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[norm] = id
	return id
}

// AddVirtual adds in-memory content flagged FileVirtual.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads path from disk, strips a UTF-8 BOM and normalizes CRLF.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path comes from the command line
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	var flags FileFlags
	content, bom := removeBOM(content)
	if bom {
		flags |= FileHadBOM
	}
	content, crlf := normalizeCRLF(content)
	if crlf {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// Get returns the file for id. It panics on an unknown id.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		panic(fmt.Sprintf("source: unknown file id %d", id))
	}
	return &fs.files[id]
}

// Lookup returns the latest file added under path.
func (fs *FileSet) Lookup(path string) (*File, bool) {
	id, ok := fs.index[normalizePath(path)]
	if !ok {
		return nil, false
	}
	return &fs.files[id], true
}

// Len reports the number of files in the set.
func (fs *FileSet) Len() int { return len(fs.files) }

// Resolve converts a span to start and end line/column positions.
func (fs *FileSet) Resolve(sp Span) (start, end LineCol) {
	f := fs.Get(sp.File)
	return toLineCol(f.LineIdx, sp.Start), toLineCol(f.LineIdx, sp.End)
}
