package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"rxc/internal/diag"
	"rxc/internal/lexer"
	"rxc/internal/source"
)

func sample(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	src := "fn main() {\n\tlet x = 1;\n\tx = 10;\n}\n"
	id := fs.AddVirtual("main.rx", []byte(src))
	assign := strings.Index(src, "x = 10")
	first := strings.Index(src, "x = 1;")

	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SemaAssignImmutable,
		source.Span{File: id, Start: uint32(assign), End: uint32(assign + 6)},
		"cannot assign twice to immutable variable `x`").
		WithNote(source.Span{File: id, Start: uint32(first), End: uint32(first + 1)}, "first assignment"))
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: 9}, "load other.rx: no such file"))
	return bag, fs
}

func TestPretty(t *testing.T) {
	bag, fs := sample(t)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"error[SEM3400]: cannot assign twice to immutable variable `x`",
		"--> main.rx:3:2",
		"2 |     let x = 1;",
		"3 |     x = 10;",
		"  |     ^^^^^^\n",
		"= note: main.rx:2:6: first assignment",
		"error[IO4001]: load other.rx: no such file",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("colors must be off:\n%s", out)
	}
}

func TestCaretRangeWideRunes(t *testing.T) {
	line := "let s = \"日本\";"
	// the span covers the string literal, bytes 9..17
	from, to := caretRange(line, source.LineCol{Line: 1, Col: 9}, source.LineCol{Line: 1, Col: 17})
	if from != 8 || to != 14 {
		t.Fatalf("caretRange = %d..%d, want 8..14", from, to)
	}
	from, to = caretRange("ab", source.LineCol{Line: 1, Col: 2}, source.LineCol{Line: 3, Col: 1})
	if from != 1 || to != 2 {
		t.Fatalf("multi-line span must stop at line end, got %d..%d", from, to)
	}
}

func TestShort(t *testing.T) {
	bag, fs := sample(t)
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, PathModeAuto, ""); err != nil {
		t.Fatal(err)
	}
	want := "main.rx:3:2: ERROR SEM3400: cannot assign twice to immutable variable `x`\n" +
		"ERROR IO4001: load other.rx: no such file\n"
	if buf.String() != want {
		t.Fatalf("Short =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sample(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("unexpected count %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Code != "SEM3400" || d.Location == nil || d.Location.StartLine != 3 || len(d.Notes) != 1 {
		t.Fatalf("unexpected first diagnostic %+v", d)
	}
	if out.Diagnostics[1].Location != nil {
		t.Fatalf("span outside the file set must have no location")
	}

	limited := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if len(limited.Diagnostics) != 1 || limited.Count != 2 {
		t.Fatalf("Max not applied: %+v", limited)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPretty, "SHORT": FormatShort, "json": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("sarif"); err == nil {
		t.Fatalf("unknown format accepted")
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.rx", []byte("// hi\nlet x")))
	toks := lexer.New(f, lexer.Options{}).All()

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks, fs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(pretty.String(), "line_comment") || !strings.Contains(pretty.String(), "EOF") {
		t.Fatalf("unexpected listing:\n%s", pretty.String())
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, toks); err != nil {
		t.Fatal(err)
	}
	var decoded []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil || len(decoded) != len(toks) {
		t.Fatalf("token json: %v (%d tokens)", err, len(decoded))
	}
}
