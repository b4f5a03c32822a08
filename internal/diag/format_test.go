package diag

import "testing"

func TestFormatShort(t *testing.T) {
	bag := NewBag(8)
	r := BagReporter{Bag: bag}

	ReportWarning(r, SchEmptyClass, Location{File: "tp.toml", Path: "provider[0].class[1]"}, "class \"idle\" has\nno instances").Emit()
	ReportError(r, SchDuplicateFunc, Location{File: "tp.toml", Path: "provider[1].class[0].instance[0]"}, "duplicate function app_net_send_tp").
		WithNote(Location{File: "tp.toml", Path: "provider[0].class[0].instance[0]"}, "first generated here").
		Emit()

	bag.Sort()
	expected := "warning SCH3006 tp.toml:provider[0].class[1] class \"idle\" has no instances\n" +
		"error SCH3001 tp.toml:provider[1].class[0].instance[0] duplicate function app_net_send_tp\n" +
		"note SCH3001 tp.toml:provider[0].class[0].instance[0] first generated here"

	if got := FormatShort(bag.Items(), FormatOpts{IncludeNotes: true}); got != expected {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected errors and warnings to be reported")
	}
	if bag.Count(SevError) != 1 || bag.Count(SevWarning) != 1 || bag.Count(SevInfo) != 0 {
		t.Fatalf("unexpected counts: %d errors, %d warnings", bag.Count(SevError), bag.Count(SevWarning))
	}
}

func TestFormatShortEmpty(t *testing.T) {
	if got := FormatShort(nil, FormatOpts{}); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(Diagnostic{Code: SchDecode}) {
		t.Fatalf("first diagnostic must fit")
	}
	if bag.Add(Diagnostic{Code: SchDecode}) {
		t.Fatalf("second diagnostic must be rejected")
	}
	if got := NewBag(1 << 20).Cap(); got != ^uint16(0) {
		t.Fatalf("expected clamped capacity, got %d", got)
	}
	if got := NewBag(-3).Cap(); got != 0 {
		t.Fatalf("expected zero capacity for negative limit, got %d", got)
	}
}

func TestEmitOnce(t *testing.T) {
	bag := NewBag(4)
	b := ReportInfo(BagReporter{Bag: bag}, SchEmptyClass, Location{}, "hello")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected a single diagnostic, got %d", bag.Len())
	}
	if got := bag.Items()[0].Location.String(); got != "<schema>" {
		t.Fatalf("unexpected location %q", got)
	}
}
