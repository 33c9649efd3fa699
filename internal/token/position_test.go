package token

import "testing"

func TestNoPosIsInvalid(t *testing.T) {
	if NoPos.IsValid() {
		t.Error("NoPos.IsValid() = true, want false")
	}
	if NoPos.String() != "-" {
		t.Errorf("NoPos.String() = %q, want %q", NoPos.String(), "-")
	}
}

func TestPositionStringWithFilename(t *testing.T) {
	p := Position{Filename: "r.rules", Line: 4, Column: 10}
	if got := p.String(); got != "r.rules:4:10" {
		t.Errorf("String() = %q, want r.rules:4:10", got)
	}
}

func TestPositionStringWithoutFilename(t *testing.T) {
	p := Position{Line: 4, Column: 10}
	if got := p.String(); got != "4:10" {
		t.Errorf("String() = %q, want 4:10", got)
	}
}

func TestPositionBeforeOrdersByFileThenLineThenColumn(t *testing.T) {
	a := Position{Filename: "a", Line: 1, Column: 1}
	b := Position{Filename: "b", Line: 1, Column: 1}
	if !a.Before(b) {
		t.Error("a should sort before b by filename")
	}

	a2 := Position{Filename: "f", Line: 1, Column: 9}
	b2 := Position{Filename: "f", Line: 2, Column: 1}
	if !a2.Before(b2) {
		t.Error("a2 should sort before b2 by line")
	}

	a3 := Position{Filename: "f", Line: 1, Column: 1}
	b3 := Position{Filename: "f", Line: 1, Column: 2}
	if !a3.Before(b3) {
		t.Error("a3 should sort before b3 by column")
	}

	if NoPos.Before(NoPos) {
		t.Error("a position should never sort before itself")
	}
}

func TestTrackerAdvanceSingleLine(t *testing.T) {
	src := []byte("rule r { a == 1 }")
	tr := NewTracker("t.rules")
	pos := tr.Advance(src, 5)
	if pos.Line != 1 || pos.Column != 6 {
		t.Errorf("Advance(5) = %+v, want line 1 col 6", pos)
	}
}

func TestTrackerAdvanceAcrossLines(t *testing.T) {
	src := []byte("rule r {\n  a == 1\n}\n")
	tr := NewTracker("t.rules")

	// "a" sits on line 2, at byte offset 11.
	pos := tr.Advance(src, 11)
	if pos.Line != 2 {
		t.Fatalf("Advance(11).Line = %d, want 2", pos.Line)
	}
	if pos.Column != 3 {
		t.Errorf("Advance(11).Column = %d, want 3", pos.Column)
	}

	// Closing brace sits on line 3; a later, non-decreasing offset must
	// continue accumulating line count rather than rescanning from zero.
	pos2 := tr.Advance(src, 19)
	if pos2.Line != 3 {
		t.Errorf("Advance(19).Line = %d, want 3", pos2.Line)
	}
}

func TestTrackerAdvanceCarriesFilename(t *testing.T) {
	tr := NewTracker("named.rules")
	pos := tr.Advance([]byte("x"), 0)
	if pos.Filename != "named.rules" {
		t.Errorf("Filename = %q, want named.rules", pos.Filename)
	}
}
