package value

import (
	"testing"

	"github.com/confrule/confrule/internal/token"
)

func TestEqualWidensIntFloat(t *testing.T) {
	i := Int(token.NoPos, 10)
	f := Float(token.NoPos, 10.0)
	if !Equal(i, f) {
		t.Error("Equal(10, 10.0) should hold via Int<->Float widening")
	}
	if !Equal(f, i) {
		t.Error("Equal(10.0, 10) should hold via Int<->Float widening")
	}
}

func TestEqualStructural(t *testing.T) {
	pos := token.NoPos
	a := List(pos, []Value{String(pos, "x"), Int(pos, 1)})
	b := List(pos, []Value{String(pos, "x"), Int(pos, 1)})
	c := List(pos, []Value{String(pos, "x"), Int(pos, 2)})
	if !Equal(a, b) {
		t.Error("structurally identical lists should be Equal")
	}
	if Equal(a, c) {
		t.Error("structurally different lists should not be Equal")
	}
}

func TestEqualMapIgnoresOrder(t *testing.T) {
	pos := token.NoPos
	m1 := NewOrderedMap()
	m1.Set("a", Int(pos, 1))
	m1.Set("b", Int(pos, 2))
	m2 := NewOrderedMap()
	m2.Set("b", Int(pos, 2))
	m2.Set("a", Int(pos, 1))
	if !Equal(Map(pos, m1), Map(pos, m2)) {
		t.Error("maps with the same entries in a different insertion order should be Equal")
	}
}

func TestComparableAndCompare(t *testing.T) {
	pos := token.NoPos
	if !Comparable(Int(pos, 1), Float(pos, 2.0)) {
		t.Error("Int and Float should be comparable")
	}
	if Comparable(Int(pos, 1), String(pos, "x")) {
		t.Error("Int and String should not be comparable")
	}
	if Compare(Int(pos, 1), Int(pos, 2)) >= 0 {
		t.Error("Compare(1, 2) should be negative")
	}
	if Compare(String(pos, "b"), String(pos, "a")) <= 0 {
		t.Error("Compare(\"b\", \"a\") should be positive")
	}
}

func TestCompareIncomparablePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Compare on incomparable kinds should panic")
		}
	}()
	Compare(String(token.NoPos, "x"), Bool(token.NoPos, true))
}
