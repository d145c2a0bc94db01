package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"rxc/internal/buildpipeline"
	"rxc/internal/diag"
)

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiagnoseCleanProgram(t *testing.T) {
	src := `
struct Point { x: i32, y: i32 }
impl Point {
    fn sum(&self) -> i32 { self.x + self.y }
}
fn main() {
    let p = Point { x: 1, y: 2 };
    let total = p.sum();
    println("done");
    exit(total);
}
`
	var events []PhaseEvent
	res, err := DiagnoseSource(context.Background(), "main.rx", []byte(src), DiagnoseOptions{
		EnableTimings: true,
		PhaseObserver: func(ev PhaseEvent) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("DiagnoseSource: %v", err)
	}
	if res.Failed() || res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	if res.Sema == nil || res.Symbols == nil || res.StoppedAt != "" {
		t.Fatalf("pipeline did not complete: stopped at %q", res.StoppedAt)
	}
	if res.Timing == nil || len(res.Timing.Phases) != 4 {
		t.Fatalf("expected 4 timed phases, got %+v", res.Timing)
	}
	if len(events) != 8 || events[0].Status != PhaseStart || events[7].Name != "sema" {
		t.Fatalf("unexpected phase events %+v", events)
	}
}

func TestDiagnoseStopsOnSyntaxErrors(t *testing.T) {
	res, err := DiagnoseSource(context.Background(), "bad.rx", []byte(`fn main() { let = ; }`), DiagnoseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.StoppedAt != buildpipeline.StageParse || res.Symbols != nil {
		t.Fatalf("expected stop after parse, got %q", res.StoppedAt)
	}
	if !res.Failed() {
		t.Fatalf("syntax error must fail the file")
	}
}

func TestDiagnoseStages(t *testing.T) {
	src := []byte(`fn main() { let x: i32 = true; }`)
	cases := []struct {
		stage   DiagnoseStage
		symbols bool
		errors  bool
	}{
		{DiagnoseStageTokenize, false, false},
		{DiagnoseStageSyntax, false, false},
		{DiagnoseStageSema, true, true},
	}
	for _, tc := range cases {
		t.Run(string(tc.stage), func(t *testing.T) {
			res, err := DiagnoseSource(context.Background(), "s.rx", src, DiagnoseOptions{Stage: tc.stage})
			if err != nil {
				t.Fatal(err)
			}
			if (res.Symbols != nil) != tc.symbols || res.Bag.HasErrors() != tc.errors {
				t.Fatalf("symbols=%v errors=%v: %v", res.Symbols != nil, res.Bag.HasErrors(), res.Bag.Items())
			}
		})
	}
}

func TestSelfViolationAbortsBeforeSema(t *testing.T) {
	res, err := DiagnoseSource(context.Background(), "s.rx", []byte(`fn f() -> Self { f() } fn main() {}`), DiagnoseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.StoppedAt != buildpipeline.StageSelfCheck || res.Abort == nil || res.Sema != nil {
		t.Fatalf("expected self check abort, got stop=%q abort=%v", res.StoppedAt, res.Abort)
	}
	if res.Abort.Diagnostic.Code != diag.SemaSelfTypeOutsideImpl {
		t.Fatalf("abort code = %s", res.Abort.Diagnostic.Code.ID())
	}
}

func TestThrowOnErrorKeepsFirstError(t *testing.T) {
	src := []byte(`fn main() { let a: i32 = true; let b: bool = 1; }`)
	collected, _ := DiagnoseSource(context.Background(), "s.rx", src, DiagnoseOptions{})
	thrown, _ := DiagnoseSource(context.Background(), "s.rx", src, DiagnoseOptions{ThrowOnError: true})
	if collected.Bag.ErrorCount() < 2 {
		t.Fatalf("collect mode should report both errors: %v", collected.Bag.Items())
	}
	if thrown.Abort == nil || thrown.Bag.ErrorCount() != 1 || thrown.StoppedAt != buildpipeline.StageSema {
		t.Fatalf("fail-fast run: abort=%v bag=%v", thrown.Abort, thrown.Bag.Items())
	}
}

func TestDiagnoseMissingFile(t *testing.T) {
	if _, err := Diagnose(context.Background(), filepath.Join(t.TempDir(), "none.rx"), DiagnoseOptions{}); err == nil {
		t.Fatalf("expected a load error")
	}
}

func TestTokenizeAndParse(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.rx", "fn main() { let x = 1; }")
	toks, err := Tokenize(path, 0)
	if err != nil || len(toks.Tokens) < 10 || toks.Bag.Len() != 0 {
		t.Fatalf("Tokenize: %v, %d tokens", err, len(toks.Tokens))
	}
	parsed, err := Parse(context.Background(), path, 0)
	if err != nil || parsed.Bag.Len() != 0 {
		t.Fatalf("Parse: %v %v", err, parsed.Bag.Items())
	}
	if items := parsed.Builder.Files.Get(parsed.FileID).Items; len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestParseStage(t *testing.T) {
	for _, in := range []string{"", "tokenize", "syntax", "sema", "all"} {
		if _, ok := ParseStage(in); !ok {
			t.Fatalf("ParseStage(%q) rejected", in)
		}
	}
	if _, ok := ParseStage("codegen"); ok {
		t.Fatalf("unknown stage accepted")
	}
	if !slices.Contains([]DiagnoseStage{DiagnoseStageAll}, DiagnoseOptions{}.stage()) {
		t.Fatalf("default stage must be all")
	}
}
