package testkit

import (
	"context"
	"fmt"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/lexer"
	"rxc/internal/parser"
	"rxc/internal/source"
)

// Unit is one parsed in-memory source file.
type Unit struct {
	Files   *source.FileSet
	Source  *source.File
	Builder *ast.Builder
	File    ast.FileID
}

// Parse lexes and parses src as a virtual file and fails on any
// diagnostic, so pass tests start from a well-formed tree.
func Parse(src string) (*Unit, error) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("test.rx", []byte(src)))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{})
	lx := lexer.New(sf, lexer.Options{Reporter: rep})
	res := parser.ParseFile(context.Background(), lx, b, parser.Options{Reporter: rep})
	if bag.Len() > 0 {
		return nil, fmt.Errorf("parse %q: %v", src, bag.Items())
	}
	if err := CheckSpanInvariants(b, res.File, sf); err != nil {
		return nil, err
	}
	return &Unit{Files: fs, Source: sf, Builder: b, File: res.File}, nil
}

// Items returns the top-level items of the unit.
func (u *Unit) Items() []ast.ItemID {
	return u.Builder.Files.Get(u.File).Items
}

// FindFn returns the first function named name in allocation order,
// including impl and trait members and nested functions.
func (u *Unit) FindFn(name string) (ast.ItemID, bool) {
	id := u.Builder.Strings.Intern(name)
	for i := uint32(1); i <= u.Builder.Items.Arena.Len(); i++ {
		if fn, ok := u.Builder.Items.Fn(ast.ItemID(i)); ok && fn.Name == id {
			return ast.ItemID(i), true
		}
	}
	return ast.NoItemID, false
}
