package driver

import (
	"context"
	"path/filepath"
	"testing"

	"rxc/internal/buildpipeline"
	"rxc/internal/diag"
)

func TestCheckBatchKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.rx", "fn main() {}")
	bad := writeFile(t, dir, "bad.rx", "fn main() { let x: i32 = true; }")
	missing := filepath.Join(dir, "missing.rx")

	var rec buildpipeline.Recorder
	results, err := CheckBatch(context.Background(), []string{good, bad, missing}, BatchOptions{
		DiagnoseOptions: DiagnoseOptions{Progress: &rec, EnableTimings: true},
		Jobs:            2,
		BaseDir:         dir,
	})
	if err != nil {
		t.Fatalf("CheckBatch: %v", err)
	}
	if results[0].Result.Failed() || !results[1].Result.Failed() {
		t.Fatalf("unexpected outcomes: %v / %v", results[0].Result.Bag.Items(), results[1].Result.Bag.Items())
	}
	if results[2].Err == nil || results[2].Result.Bag.Items()[0].Code != diag.IOLoadFileError {
		t.Fatalf("missing file should carry an IO diagnostic: %+v", results[2])
	}

	final := rec.Final()
	want := map[string]buildpipeline.Status{
		"good.rx":    buildpipeline.StatusDone,
		"bad.rx":     buildpipeline.StatusError,
		"missing.rx": buildpipeline.StatusError,
	}
	for file, status := range want {
		if final[file] != status {
			t.Fatalf("%s final status %q, want %q (all: %v)", file, final[file], status, final)
		}
	}

	sum := Summarize(results)
	if sum.Files != 3 || sum.Failed != 2 || sum.Errors != 2 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if len(sum.Timing.Phases) == 0 {
		t.Fatalf("timings not merged")
	}
}

func TestCheckBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := writeFile(t, t.TempDir(), "a.rx", "fn main() {}")
	if _, err := CheckBatch(ctx, []string{path, path}, BatchOptions{Jobs: 1}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestCheckBatchUsesCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, dir, "src/a.rx", "fn f() -> Self { f() } fn main() {}")
	opts := BatchOptions{Cache: cache}

	first, err := CheckBatch(context.Background(), []string{path}, opts)
	if err != nil || first[0].Cached {
		t.Fatalf("first run: cached=%v err=%v", first[0].Cached, err)
	}
	second, err := CheckBatch(context.Background(), []string{path}, opts)
	if err != nil || !second[0].Cached {
		t.Fatalf("second run must hit the cache: err=%v", err)
	}
	a, b := first[0].Result, second[0].Result
	if a.Bag.Len() != b.Bag.Len() || b.Abort == nil || b.StoppedAt != a.StoppedAt {
		t.Fatalf("cached result differs: %v vs %v", a.Bag.Items(), b.Bag.Items())
	}
	if a.Bag.Items()[0].Primary != b.Bag.Items()[0].Primary {
		t.Fatalf("span not restored: %v vs %v", a.Bag.Items()[0].Primary, b.Bag.Items()[0].Primary)
	}

	other, _ := CheckBatch(context.Background(), []string{path}, BatchOptions{Cache: cache, DiagnoseOptions: DiagnoseOptions{ThrowOnError: true}})
	if other[0].Cached {
		t.Fatalf("different options must not share a cache entry")
	}
	if err := cache.Clear(); err != nil {
		t.Fatal(err)
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.rx", "")
	writeFile(t, dir, "sub/a.rx", "")
	writeFile(t, dir, "notes.txt", "")
	single := writeFile(t, t.TempDir(), "x.rx", "")

	got, err := ExpandPaths([]string{dir, single})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || filepath.Base(got[0]) != "b.rx" || got[2] != single {
		t.Fatalf("ExpandPaths = %v", got)
	}
	if _, err := ExpandPaths([]string{filepath.Join(dir, "nope")}); err == nil {
		t.Fatalf("expected stat error")
	}
}
