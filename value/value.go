// Package value implements the uniform, location-tagged value model that
// the data loader populates and the query/predicate engine walks (spec §3).
package value

import (
	"fmt"
	"regexp"

	"github.com/confrule/confrule/internal/token"
)

// Kind identifies which variant of the Value sum type a node holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindChar
	KindString
	KindRegex
	KindRangeInt
	KindRangeFloat
	KindList
	KindMap
	KindBad
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindRegex:
		return "regex"
	case KindRangeInt:
		return "range(int)"
	case KindRangeFloat:
		return "range(float)"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindBad:
		return "bad"
	default:
		return "unknown"
	}
}

// Inclusivity is the 2-bit mask described in spec §3: bit 0 is lower
// inclusive, bit 1 is upper inclusive.
type Inclusivity uint8

const (
	LowerInclusive Inclusivity = 1 << 0
	UpperInclusive Inclusivity = 1 << 1
)

func (m Inclusivity) lowerInclusive() bool { return m&LowerInclusive != 0 }
func (m Inclusivity) upperInclusive() bool { return m&UpperInclusive != 0 }

// Value is a node in the loaded document tree or in a materialized rule
// literal. It is a closed sum type: callers switch on Kind() rather than
// implementing a visitor, matching the "double dispatch over a tagged
// union" guidance in spec §9.
//
// A Value is immutable once constructed; see Map and List for the only
// mutable-looking operations, which in fact build new Values.
type Value struct {
	kind Kind
	pos  token.Position

	boolVal   bool
	intVal    int64
	floatVal  float64
	charVal   rune
	strVal    string // used by KindString, KindRegex, and KindBad's raw lexeme
	regexVal  *regexp.Regexp
	rangeLo   float64
	rangeHi   float64
	rangeMask Inclusivity
	rangeInt  bool // true: RangeInt semantics, endpoints truncate to int64

	list []Value
	m    *OrderedMap
}

// Pos returns the Value's source location.
func (v Value) Pos() token.Position { return v.pos }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Null constructs a Null value.
func Null(pos token.Position) Value { return Value{kind: KindNull, pos: pos} }

// Bool constructs a Bool value.
func Bool(pos token.Position, b bool) Value { return Value{kind: KindBool, pos: pos, boolVal: b} }

// Int constructs a 64-bit signed Int value.
func Int(pos token.Position, n int64) Value { return Value{kind: KindInt, pos: pos, intVal: n} }

// Float constructs a 64-bit Float value.
func Float(pos token.Position, f float64) Value { return Value{kind: KindFloat, pos: pos, floatVal: f} }

// Char constructs a Char value.
func Char(pos token.Position, r rune) Value { return Value{kind: KindChar, pos: pos, charVal: r} }

// String constructs a String value.
func String(pos token.Position, s string) Value { return Value{kind: KindString, pos: pos, strVal: s} }

// Regex constructs a Regex value. The pattern is compiled eagerly; callers
// that need lazy compilation errors (e.g. the parser, which must still
// produce an AST node for a malformed regex) should compile separately and
// construct BadValue on failure instead.
func Regex(pos token.Position, pattern string) (Value, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindRegex, pos: pos, strVal: pattern, regexVal: re}, nil
}

// BadValue preserves a lexically recognized but semantically invalid
// literal for diagnostics (spec §3, §4.7).
func BadValue(pos token.Position, rawLexeme string) Value {
	return Value{kind: KindBad, pos: pos, strVal: rawLexeme}
}

// RangeInt constructs an integer range. It fails if lower > upper (spec §3).
func RangeInt(pos token.Position, lower, upper int64, mask Inclusivity) (Value, error) {
	if lower > upper {
		return Value{}, fmt.Errorf("range lower bound %d exceeds upper bound %d", lower, upper)
	}
	return Value{
		kind: KindRangeInt, pos: pos,
		rangeLo: float64(lower), rangeHi: float64(upper), rangeMask: mask, rangeInt: true,
	}, nil
}

// RangeFloat constructs a floating-point range. It fails if lower > upper.
func RangeFloat(pos token.Position, lower, upper float64, mask Inclusivity) (Value, error) {
	if lower > upper {
		return Value{}, fmt.Errorf("range lower bound %v exceeds upper bound %v", lower, upper)
	}
	return Value{kind: KindRangeFloat, pos: pos, rangeLo: lower, rangeHi: upper, rangeMask: mask}, nil
}

// List constructs a List value from elements in index order.
func List(pos token.Position, elems []Value) Value {
	return Value{kind: KindList, pos: pos, list: elems}
}

// Map constructs a Map value from an already-built OrderedMap.
func Map(pos token.Position, m *OrderedMap) Value {
	if m == nil {
		m = NewOrderedMap()
	}
	return Value{kind: KindMap, pos: pos, m: m}
}

// Bool, Int, Float, Char, String, Regex pattern, and raw BadValue lexeme
// accessors. Callers must check Kind() first; these panic on mismatch to
// surface engine bugs loudly rather than silently returning zero values
// (UnexpectedExpr in spec §7 terms).

func (v Value) BoolValue() bool {
	v.mustBe(KindBool)
	return v.boolVal
}

func (v Value) IntValue() int64 {
	v.mustBe(KindInt)
	return v.intVal
}

func (v Value) FloatValue() float64 {
	v.mustBe(KindFloat)
	return v.floatVal
}

func (v Value) CharValue() rune {
	v.mustBe(KindChar)
	return v.charVal
}

func (v Value) StringValue() string {
	if v.kind != KindString && v.kind != KindRegex && v.kind != KindBad {
		panic(fmt.Sprintf("value: StringValue called on %s", v.kind))
	}
	return v.strVal
}

func (v Value) RegexValue() *regexp.Regexp {
	v.mustBe(KindRegex)
	return v.regexVal
}

// RangeBounds returns the lower and upper bound and the inclusivity mask.
// For KindRangeInt the bounds are exact integers stored as float64.
func (v Value) RangeBounds() (lower, upper float64, mask Inclusivity) {
	if v.kind != KindRangeInt && v.kind != KindRangeFloat {
		panic(fmt.Sprintf("value: RangeBounds called on %s", v.kind))
	}
	return v.rangeLo, v.rangeHi, v.rangeMask
}

// ListValues returns the elements of a List in index order. The returned
// slice must not be mutated by callers.
func (v Value) ListValues() []Value {
	v.mustBe(KindList)
	return v.list
}

// MapValue returns the OrderedMap backing a Map value.
func (v Value) MapValue() *OrderedMap {
	v.mustBe(KindMap)
	return v.m
}

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("value: expected %s, got %s", k, v.kind))
	}
}

// InRange reports whether x falls within v's range per the inclusivity
// mask (spec §3): lower op1 x and x op2 upper, where op is <= when the
// corresponding bit is set and < otherwise.
func (v Value) InRange(x float64) bool {
	lo, hi, mask := v.RangeBounds()
	lowOK := x > lo || (mask.lowerInclusive() && x == lo)
	highOK := x < hi || (mask.upperInclusive() && x == hi)
	return lowOK && highOK
}
