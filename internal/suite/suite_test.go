package suite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rxc/internal/buildpipeline"
)

func writeSuite(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "suite.yaml")
}

func TestDecodeDefaultsAndValidation(t *testing.T) {
	m, err := Decode(strings.NewReader(`
timeout: 3s
cases:
  - path: a.rx
  - path: b.rx
    codes: [SEM3400]
  - path: c.rx
    expect: pass
    timeout: 1s
`), "/suite")
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "suite" || len(m.Cases) != 3 {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if m.Cases[0].Expect != ExpectPass || m.Cases[0].Timeout != 3*time.Second {
		t.Fatalf("case defaults not applied: %+v", m.Cases[0])
	}
	if m.Cases[1].Expect != ExpectFail {
		t.Fatalf("codes imply fail: %+v", m.Cases[1])
	}
	if m.Cases[2].Timeout != time.Second || m.Cases[2].Path != filepath.Join("/suite", "c.rx") {
		t.Fatalf("case overrides not applied: %+v", m.Cases[2])
	}
}

func TestDecodeRejects(t *testing.T) {
	cases := []struct {
		name, text, want string
	}{
		{"empty", "", "empty manifest"},
		{"no cases", "name: x\n", "cases must not be empty"},
		{"unknown field", "cases:\n  - path: a.rx\n    expected: pass\n", "expected"},
		{"bad expect", "cases:\n  - path: a.rx\n    expect: maybe\n", "pass or fail"},
		{"pass with codes", "cases:\n  - path: a.rx\n    expect: pass\n    codes: [SEM3400]\n", "lists codes"},
		{"duplicate", "cases:\n  - path: a.rx\n  - path: a.rx\n", "repeats"},
		{"bad timeout", "timeout: -1s\ncases:\n  - path: a.rx\n", "positive"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.text), "/s")
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
	_, err := Decode(strings.NewReader("cases:\n  - expect: pass\n"), "/s")
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Issues) != 1 {
		t.Fatalf("expected a ValidationError with one issue, got %v", err)
	}
}

func TestRun(t *testing.T) {
	path := writeSuite(t, map[string]string{
		"suite.yaml": `
name: smoke
cases:
  - path: ok.rx
  - path: assign.rx
    codes: [SEM3400]
  - path: wrong.rx
    expect: fail
  - path: missing.rx
`,
		"ok.rx":     "fn main() { let mut x = 1; x = 2; }",
		"assign.rx": "fn main() { let x = 1; x = 2; }",
		"wrong.rx":  "fn main() {}",
	})
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	var rec buildpipeline.Recorder
	report, err := Run(context.Background(), m, RunOptions{Jobs: 2, Progress: &rec})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []Status{StatusPass, StatusPass, StatusFail, StatusError}
	for i, st := range want {
		if got := report.Results[i]; got.Status != st {
			t.Fatalf("case %s: status %s (%s), want %s", got.Display, got.Status, got.Reason, st)
		}
	}
	if report.OK() || report.Count(StatusPass) != 2 {
		t.Fatalf("unexpected totals: pass=%d", report.Count(StatusPass))
	}
	if final := rec.Final(); final["ok.rx"] != buildpipeline.StatusDone || final["wrong.rx"] != buildpipeline.StatusError {
		t.Fatalf("unexpected progress %v", final)
	}
}

func TestRunCaseTimesOut(t *testing.T) {
	path := writeSuite(t, map[string]string{
		"suite.yaml": "cases:\n  - path: a.rx\n",
		"a.rx":       "fn main() {}",
	})
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	m.Cases[0].Timeout = time.Nanosecond
	report, err := Run(context.Background(), m, RunOptions{Jobs: 1})
	if err != nil {
		t.Fatal(err)
	}
	// the pipeline may still win the race against a 1ns deadline
	if st := report.Results[0].Status; st != StatusTimeout && st != StatusPass {
		t.Fatalf("status = %s (%s)", st, report.Results[0].Reason)
	}
}
