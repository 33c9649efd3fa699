package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/confrule/confrule/internal/token"
)

func TestRangeConstructionRejectsInverted(t *testing.T) {
	if _, err := RangeInt(token.NoPos, 10, 5, LowerInclusive|UpperInclusive); err == nil {
		t.Fatal("RangeInt(10, 5) should reject an inverted range")
	}
	if _, err := RangeFloat(token.NoPos, 1.5, 1.0, LowerInclusive); err == nil {
		t.Fatal("RangeFloat(1.5, 1.0) should reject an inverted range")
	}
}

func TestInRangeInclusivityMask(t *testing.T) {
	tests := []struct {
		name   string
		mask   Inclusivity
		x      float64
		accept bool
	}{
		{"both-inclusive-lower-bound", LowerInclusive | UpperInclusive, 10, true},
		{"both-inclusive-upper-bound", LowerInclusive | UpperInclusive, 20, true},
		{"both-inclusive-inside", LowerInclusive | UpperInclusive, 15, true},
		{"both-inclusive-below", LowerInclusive | UpperInclusive, 9, false},
		{"both-inclusive-above", LowerInclusive | UpperInclusive, 21, false},
		{"both-exclusive-lower-bound", 0, 10, false},
		{"both-exclusive-upper-bound", 0, 20, false},
		{"lower-inclusive-only-lower", LowerInclusive, 10, true},
		{"lower-inclusive-only-upper", LowerInclusive, 20, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := RangeInt(token.NoPos, 10, 20, tt.mask)
			if err != nil {
				t.Fatalf("RangeInt: %v", err)
			}
			if got := r.InRange(tt.x); got != tt.accept {
				t.Errorf("InRange(%v) = %v, want %v", tt.x, got, tt.accept)
			}
		})
	}
}

func TestOrderedMapInsertionOrderPreserved(t *testing.T) {
	m := NewOrderedMap()
	m.Set("c", Int(token.NoPos, 3))
	m.Set("a", Int(token.NoPos, 1))
	m.Set("b", Int(token.NoPos, 2))

	want := []string{"c", "a", "b"}
	got := m.Keys()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderedMapDuplicateKeyLastWinsInPlace(t *testing.T) {
	m := NewOrderedMap()
	m.Set("a", Int(token.NoPos, 1))
	m.Set("b", Int(token.NoPos, 2))
	m.Set("a", Int(token.NoPos, 99)) // re-insertion: same slot, new value

	if got := m.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Keys() = %v, want [a b] (original slot retained)", got)
	}
	v, ok := m.Get("a")
	if !ok || v.IntValue() != 99 {
		t.Fatalf("Get(a) = %v, %v, want 99, true", v, ok)
	}
}

func TestBadValuePreservesRawLexeme(t *testing.T) {
	v := BadValue(token.NoPos, "0xZZ")
	if v.Kind() != KindBad {
		t.Fatalf("Kind() = %v, want KindBad", v.Kind())
	}
	if v.StringValue() != "0xZZ" {
		t.Fatalf("StringValue() = %q, want %q", v.StringValue(), "0xZZ")
	}
}

func TestIsEmpty(t *testing.T) {
	empty := List(token.NoPos, nil)
	if !IsEmpty(empty) {
		t.Error("empty list should report IsEmpty")
	}
	nonEmpty := List(token.NoPos, []Value{Int(token.NoPos, 1)})
	if IsEmpty(nonEmpty) {
		t.Error("non-empty list should not report IsEmpty")
	}
	if IsEmpty(Int(token.NoPos, 1)) {
		t.Error("a scalar is never empty")
	}
}
