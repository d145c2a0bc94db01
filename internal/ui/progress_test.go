package ui

import (
	"strings"
	"testing"

	"rxc/internal/buildpipeline"
)

func newModel(files ...string) *progressModel {
	return NewProgressModel("checking", files, nil).(*progressModel)
}

func TestApplyEventTracksStatus(t *testing.T) {
	m := newModel("a.rx", "b.rx")
	m.applyEvent(buildpipeline.Event{File: "a.rx", Stage: buildpipeline.StageSema, Status: buildpipeline.StatusWorking})
	m.applyEvent(buildpipeline.Event{File: "b.rx", Status: buildpipeline.StatusError})
	m.applyEvent(buildpipeline.Event{File: "b.rx", Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{File: "unknown.rx", Status: buildpipeline.StatusDone})

	if m.items[1].status != buildpipeline.StatusError {
		t.Fatalf("terminal status must stick, got %s", m.items[1].status)
	}
	finished, failed := m.counts()
	if finished != 1 || failed != 1 {
		t.Fatalf("counts = %d/%d", finished, failed)
	}
	want := (1 + buildpipeline.StageSema.Progress()) / 2
	if got := m.percent(); got != want {
		t.Fatalf("percent = %f, want %f", got, want)
	}
}

func TestViewListsFiles(t *testing.T) {
	m := newModel("src/main.rx")
	m.applyEvent(buildpipeline.Event{File: "src/main.rx", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
	view := m.View()
	if !strings.Contains(view, "parse") || !strings.Contains(view, "src/main.rx") || !strings.Contains(view, "0/1") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestVisibleCapsRows(t *testing.T) {
	var files []string
	for i := range maxRows + 5 {
		files = append(files, strings.Repeat("f", i+1)+".rx")
	}
	m := newModel(files...)
	last := files[len(files)-1]
	m.applyEvent(buildpipeline.Event{File: last, Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
	rows := m.visible()
	if len(rows) != maxRows || rows[0].path != last {
		t.Fatalf("running file must be listed first, got %d rows starting with %q", len(rows), rows[0].path)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("日本語のパス", 5); got != "日..." {
		t.Fatalf("wide truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate kept = %q", got)
	}
}
