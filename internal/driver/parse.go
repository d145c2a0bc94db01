package driver

import (
	"context"

	"fortio.org/safecast"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/lexer"
	"rxc/internal/parser"
	"rxc/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

// Parse loads and parses path without running any semantic pass.
func Parse(ctx context.Context, path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)
	builder, astFile, err := parseFile(ctx, file, bag, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		FileID:  astFile,
		Bag:     bag,
	}, nil
}

func parseFile(ctx context.Context, file *source.File, bag *diag.Bag, maxDiagnostics int) (*ast.Builder, ast.FileID, error) {
	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		return nil, ast.NoFileID, err
	}
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	builder := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(ctx, lx, builder, parser.Options{Reporter: rep, MaxErrors: maxErrors})
	return builder, res.File, nil
}
