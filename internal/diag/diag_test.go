package diag

import (
	"errors"
	"testing"

	"rxc/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("testdata/sample.rx", []byte("a\nb\n"))

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes:    []Note{{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"}},
		},
		{
			Severity: SevWarning,
			Code:     SemaError,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
	}

	want := "error SYN2001 testdata/sample.rx:1:1 first line second\n" +
		"note SYN2001 testdata/sample.rx:2:1 note line\n" +
		"warning SEM3000 testdata/sample.rx:2:1 another"
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	r.Report(SemaTypeMismatch, SevError, source.Span{Start: 9, End: 10}, "b", nil)
	r.Report(SemaUnresolvedSymbol, SevError, source.Span{Start: 1, End: 2}, "a", nil)
	r.Report(SemaArgCount, SevError, source.Span{Start: 0, End: 1}, "dropped", nil)

	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", bag.Len(), bag.Dropped())
	}
	bag.Sort()
	if got := bag.Items()[0].Code; got != SemaUnresolvedSymbol {
		t.Fatalf("sort: first code %s", got.ID())
	}
	if !bag.HasErrors() || bag.ErrorCount() != 2 {
		t.Fatalf("error accounting broken")
	}
}

func TestFailFastCatch(t *testing.T) {
	bag := NewBag(0)
	run := func() (err error) {
		defer Catch(&err)
		rep := FailFast{Next: BagReporter{Bag: bag}}
		rep.Report(SemaUnresolvedSymbol, SevWarning, source.Span{}, "warning only", nil)
		rep.Report(SemaTypeMismatch, SevError, source.Span{}, "boom", nil)
		t.Fatalf("report did not abort")
		return nil
	}
	err := run()
	var de *Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if de.Diagnostic.Code != SemaTypeMismatch {
		t.Fatalf("code %s", de.Diagnostic.Code.ID())
	}
	if bag.Len() != 2 {
		t.Fatalf("fail-fast must still record diagnostics, got %d", bag.Len())
	}
}

func TestCatchRepanicsForeignValues(t *testing.T) {
	defer func() {
		if r := recover(); r != "internal" {
			t.Fatalf("expected foreign panic to propagate, got %v", r)
		}
	}()
	func() (err error) {
		defer Catch(&err)
		panic("internal")
	}()
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for range 3 {
		r.Report(SemaTypeMismatch, SevError, source.Span{Start: 1, End: 2}, "same", nil)
	}
	if bag.Len() != 1 {
		t.Fatalf("dedup kept %d", bag.Len())
	}
}
