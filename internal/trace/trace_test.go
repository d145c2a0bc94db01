package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"off", LevelOff, true},
		{"Phase", LevelPhase, true},
		{"DEBUG", LevelDebug, true},
		{"verbose", LevelOff, false},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("ParseLevel(%q) error = %v, want ok=%v", tc.in, err, tc.ok)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLevelRecords(t *testing.T) {
	if LevelPhase.Records(ScopeFile) {
		t.Fatalf("phase level must not record file scope")
	}
	if !LevelDetail.Records(ScopeFile) || LevelDetail.Records(ScopeNode) {
		t.Fatalf("detail level records driver..file only")
	}
	if LevelOff.Records(ScopeDriver) {
		t.Fatalf("off records nothing")
	}
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStream(&buf, LevelPhase, FormatText)
	root := Begin(tr, ScopeDriver, "check", 0)
	child := Begin(tr, ScopePass, "sema", root.ID())
	child.With("exprs", "12").End("")
	Begin(tr, ScopeNode, "ignored", child.ID()).End("")
	root.End("main.rx")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "> check") {
		t.Fatalf("unexpected begin line %q", lines[0])
	}
	if !strings.Contains(lines[2], "< sema") || !strings.Contains(lines[2], "{exprs=12}") {
		t.Fatalf("unexpected end line %q", lines[2])
	}
	if !strings.Contains(lines[3], "(main.rx)") {
		t.Fatalf("detail missing in %q", lines[3])
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStream(&buf, LevelDebug, FormatNDJSON)
	Begin(tr, ScopeFile, "parse", 7).End("")

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var ev map[string]any
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("invalid json %q: %v", line, err)
		}
		if ev["name"] != "parse" || ev["scope"] != "file" {
			t.Fatalf("unexpected event %v", ev)
		}
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRing(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeNode, name, "")
	}
	events := r.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	var names []string
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ""); got != "cde" {
		t.Fatalf("ring order = %q, want cde", got)
	}
}

func TestNewFansOut(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Writer: &buf, RingSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopePass, "resolve", 0).End("")
	ring, ok := RingOf(tr)
	if !ok {
		t.Fatalf("expected a ring behind the tracer")
	}
	if len(ring.Events()) != 2 || buf.Len() == 0 {
		t.Fatalf("events not fanned out: ring=%d stream=%d bytes", len(ring.Events()), buf.Len())
	}
}

func TestDisabledTracerIsInert(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("LevelOff must yield Nop, got %v %v", tr, err)
	}
	span := Begin(FromContext(context.Background()), ScopeDriver, "x", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Fatalf("span from Nop must be inert")
	}
	ctx := WithTracer(context.Background(), NewRing(4, LevelDebug))
	if FromContext(ctx).Level() != LevelDebug {
		t.Fatalf("tracer not carried by context")
	}
}
