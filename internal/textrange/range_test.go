package textrange

import "testing"

func TestRangeExtend(t *testing.T) {
	a := Range{Start: Position{1, 1}, End: Position{1, 5}}
	b := Range{Start: Position{2, 1}, End: Position{2, 9}}

	got := a.Extend(b)
	want := Range{Start: Position{1, 1}, End: Position{2, 9}}
	if got != want {
		t.Fatalf("Extend: got %+v want %+v", got, want)
	}

	// Extending with a range fully inside a should not shrink a.
	inner := Range{Start: Position{1, 2}, End: Position{1, 3}}
	if got := a.Extend(inner); got != a {
		t.Fatalf("Extend with inner range: got %+v want %+v", got, a)
	}
}

func TestRangeStringRoundTrip(t *testing.T) {
	r := Range{Start: Position{3, 4}, End: Position{5, 1}}
	s := r.String()
	if s != "3.4,5.1" {
		t.Fatalf("String() = %q", s)
	}
	got, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != r {
		t.Fatalf("Parse round trip: got %+v want %+v", got, r)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, s := range []string{"", "1.1", "1.1,2", "a.1,2.2", "1.1,2.b"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", s)
		}
	}
}

func TestPositionLess(t *testing.T) {
	if !(Position{1, 1}).Less(Position{1, 2}) {
		t.Fatal("expected 1.1 < 1.2")
	}
	if !(Position{1, 9}).Less(Position{2, 1}) {
		t.Fatal("expected 1.9 < 2.1")
	}
	if (Position{2, 1}).Less(Position{1, 9}) {
		t.Fatal("expected 2.1 not < 1.9")
	}
}
