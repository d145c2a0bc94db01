package buildpipeline

import (
	"path/filepath"
	"testing"
)

func TestStageProgressIsMonotonic(t *testing.T) {
	prev := -1.0
	for _, st := range Stages {
		p := st.Progress()
		if p <= prev || p >= 1 {
			t.Fatalf("stage %s progress %f not in order", st, p)
		}
		prev = p
	}
	if Stage("unknown").Progress() != 0 {
		t.Fatalf("unknown stage must report zero progress")
	}
}

func TestRecorderFinal(t *testing.T) {
	var r Recorder
	EmitQueued(&r, []string{"a.rx", "b.rx"})
	Emit(&r, Event{File: "a.rx", Stage: StageParse, Status: StatusWorking})
	Emit(&r, Event{File: "a.rx", Status: StatusError})
	Emit(&r, Event{File: "b.rx", Status: StatusCached})
	Emit(nil, Event{File: "c.rx", Status: StatusDone})

	final := r.Final()
	if final["a.rx"] != StatusError || final["b.rx"] != StatusCached || len(final) != 2 {
		t.Fatalf("unexpected final statuses %v", final)
	}
	if len(r.Events()) != 4 {
		t.Fatalf("expected 4 events, got %d", len(r.Events()))
	}
}

func TestDisplayPaths(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "src", "main.rx"),
		filepath.Join(base, "src", "main.rx"),
		"other/lib.rx",
		"",
	}
	got := DisplayPaths(files, base)
	if len(got) != 2 || got[0] != "src/main.rx" {
		t.Fatalf("DisplayPaths = %v", got)
	}
}
