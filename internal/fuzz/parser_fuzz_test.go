package fuzz

import (
	"context"
	"testing"
	"time"

	"rxc/internal/ast"
	"rxc/internal/diag"
	"rxc/internal/driver"
	"rxc/internal/lexer"
	"rxc/internal/parser"
	"rxc/internal/source"
)

// runTimeout bounds one input; exceeding it means an error-recovery loop.
const runTimeout = 5 * time.Second

func FuzzParserNoHang(f *testing.F) {
	addSeeds(f)
	f.Add([]byte("fn test() { let x: i32 = 1\nlet y: i32 = 2; }"))
	f.Add([]byte("fn test() { x + y\nlet z: i32 = 3; }"))
	f.Add([]byte("struct S { a: i32,, }"))
	f.Add([]byte("fn f() { if x { } else if { } }"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.rx", input))
			bag := diag.NewBag(128)
			reporter := diag.BagReporter{Bag: bag}
			lx := lexer.New(file, lexer.Options{Reporter: reporter})
			builder := ast.NewBuilder(ast.Hints{})
			_ = parser.ParseFile(ctx, lx, builder, parser.Options{Reporter: reporter, MaxErrors: 128})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang: no result after %v for %q", runTimeout, truncateForLog(input, 200))
		}
	})
}

// FuzzDiagnose runs every semantic pass. Fail-fast aborts are fine, panics
// and hangs are not.
func FuzzDiagnose(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		for _, throw := range []bool{false, true} {
			ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
			done := make(chan error, 1)
			go func() {
				_, err := driver.DiagnoseSource(ctx, "fuzz.rx", input, driver.DiagnoseOptions{
					MaxDiagnostics: 128,
					ThrowOnError:   throw,
				})
				done <- err
			}()
			select {
			case err := <-done:
				if err != nil && ctx.Err() == nil {
					t.Fatalf("diagnose (throw=%v): %v", throw, err)
				}
			case <-ctx.Done():
				t.Fatalf("diagnose hang (throw=%v) for %q", throw, truncateForLog(input, 200))
			}
			cancel()
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], "..."...)
}
