package ast

import "rxc/internal/source"

// File is the ordered top-level item sequence of one source file.
type File struct {
	Span   source.Span
	Source source.FileID
	Items  []ItemID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{Arena: NewArena[File](capHint)}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{Span: sp, Source: sp.File}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
