package diag

import (
	"testing"

	"bitflags/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		ok := b.Add(NewError(DefNonConstantValue, span(0, 1), "x"))
		if want := i < 2; ok != want {
			t.Fatalf("Add #%d = %v, want %v", i, ok, want)
		}
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}

	unlimited := NewBag(0)
	for i := 0; i < 100; i++ {
		unlimited.Add(NewError(DefNonConstantValue, span(0, 1), "x"))
	}
	if unlimited.Len() != 100 {
		t.Fatalf("unlimited bag dropped diagnostics: %d", unlimited.Len())
	}
}

func TestBagSeverities(t *testing.T) {
	b := NewBag(10)
	if b.HasErrors() || b.HasWarnings() {
		t.Fatal("empty bag reports problems")
	}
	b.Add(New(SevWarning, DefZeroFlag, span(0, 1), "zero"))
	if b.HasErrors() || !b.HasWarnings() {
		t.Fatal("warning-only bag misreported")
	}
	b.Add(NewError(DefDuplicateFlagName, span(0, 1), "dup"))
	if !b.HasErrors() || b.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d", b.ErrorCount())
	}

	b.Filter(func(d Diagnostic) bool { return d.Severity != SevWarning })
	if b.Len() != 1 {
		t.Fatalf("Filter kept %d items", b.Len())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(New(SevWarning, DefZeroFlag, span(10, 12), "later"))
	b.Add(NewError(DefDuplicateFlagName, span(3, 4), "dup"))
	b.Add(NewError(DefDuplicateFlagName, span(3, 4), "dup again"))
	b.Add(New(SevWarning, DefAliasedFlag, span(3, 4), "alias"))

	b.Sort()
	items := b.Items()
	if items[0].Severity != SevError || items[len(items)-1].Primary.Start != 10 {
		t.Fatalf("unexpected order: %+v", items)
	}

	b.Dedup()
	if b.Len() != 3 {
		t.Fatalf("Dedup left %d items, want 3", b.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(0)
	rb := ReportError(BagReporter{Bag: b}, DefUndefinedFlagReference, span(5, 9), "undefined flag \"Z\"").
		WithNote(span(0, 1), "declared later here").
		WithFix("remove reference", FixEdit{Span: span(5, 9), NewText: ""})
	rb.Emit()
	rb.Emit()

	if b.Len() != 1 {
		t.Fatalf("Emit stored %d diagnostics, want 1", b.Len())
	}
	d := b.Items()[0]
	if len(d.Notes) != 1 || len(d.Fixes) != 1 {
		t.Fatalf("notes/fixes lost: %+v", d)
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: b})
	r.Report(SynUnexpectedToken, SevError, span(1, 2), "unexpected", nil, nil)
	r.Report(SynUnexpectedToken, SevError, span(1, 2), "unexpected", nil, nil)
	r.Report(SynUnexpectedToken, SevError, span(2, 3), "unexpected", nil, nil)
	if b.Len() != 2 {
		t.Fatalf("DedupReporter forwarded %d, want 2", b.Len())
	}
}
