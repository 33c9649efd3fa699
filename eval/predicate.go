package eval

import (
	"github.com/confrule/confrule/report"
	"github.com/confrule/confrule/rules/ast"
	"github.com/confrule/confrule/value"
)

// evalComparison evaluates a binary comparison predicate (spec §4.4). Per
// spec §8 property 6, a multi-valued operand (typically the LHS of a
// wildcard query) is evaluated with universal quantification: the
// predicate must hold for every value in the cross product of LHS and RHS
// resolutions for the clause to PASS.
func (e *Evaluator) evalComparison(x *ast.BinaryOperation, scope *Scope) (status, error) {
	lhs, err := e.evalOperand(x.LHS, scope)
	if err != nil {
		return statusFail, err
	}
	rhs, err := e.evalOperand(x.RHS, scope)
	if err != nil {
		return statusFail, err
	}
	if len(lhs) == 0 || len(rhs) == 0 {
		if e.opts.EmptyListIsVacuousTrue {
			return statusPass, nil
		}
		return statusSkip, nil
	}

	result := statusPass
	for _, lv := range lhs {
		for _, rv := range rhs {
			ok, err := compareOp(x.Op, lv, rv)
			if err != nil {
				return statusFail, err
			}
			if x.Negate {
				ok = !ok
			}
			st := statusFail
			if ok {
				st = statusPass
			}
			if err := e.reporter.Evaluation(report.Evaluation{
				From: lv, Op: x.Op, Negate: x.Negate, To: rv,
				DataFile: e.dataFile, Node: x, Result: st,
			}); err != nil {
				return statusFail, err
			}
			if st == statusFail {
				result = statusFail
			}
		}
	}
	return result, nil
}

func compareOp(op ast.Operator, lv, rv value.Value) (bool, error) {
	// `in` already treats a List operand as a membership test (inValue),
	// which is a different relation than the list-quantifier rule below, so
	// it takes priority over the Kind==KindList check regardless of side.
	if op == ast.OpIn {
		return inValue(lv, rv), nil
	}
	// spec §3/§8 property 6: a comparison between a scalar and a List
	// quantifies universally over the List's elements, vacuously true for
	// an empty List.
	if lv.Kind() == value.KindList {
		return quantifyOverList(op, lv.ListValues(), rv, true)
	}
	if rv.Kind() == value.KindList {
		return quantifyOverList(op, rv.ListValues(), lv, false)
	}
	return scalarCompare(op, lv, rv)
}

// quantifyOverList evaluates op between other and every element of elems,
// succeeding iff every element satisfies it. lhsIsList records which side
// of op the List originally occupied so ordering comparisons (>, <, ...)
// compare in the right direction once the List is replaced by one element.
func quantifyOverList(op ast.Operator, elems []value.Value, other value.Value, lhsIsList bool) (bool, error) {
	for _, e := range elems {
		var (
			ok  bool
			err error
		)
		if lhsIsList {
			ok, err = scalarCompare(op, e, other)
		} else {
			ok, err = scalarCompare(op, other, e)
		}
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func scalarCompare(op ast.Operator, lv, rv value.Value) (bool, error) {
	switch op {
	case ast.OpEq:
		return equalOrRegexMatch(lv, rv), nil
	case ast.OpNe:
		return !equalOrRegexMatch(lv, rv), nil
	case ast.OpGt, ast.OpGe, ast.OpLt, ast.OpLe:
		return orderedCompare(op, lv, rv), nil
	default:
		return false, nil
	}
}

// equalOrRegexMatch implements "==" (spec §4.4): a String/Regex pair
// matches by substring search of the regex against the string rather than
// structural equality, in either operand order; every other pair falls
// back to value.Equal.
func equalOrRegexMatch(lv, rv value.Value) bool {
	if lv.Kind() == value.KindRegex && rv.Kind() == value.KindString {
		return lv.RegexValue().MatchString(rv.StringValue())
	}
	if lv.Kind() == value.KindString && rv.Kind() == value.KindRegex {
		return rv.RegexValue().MatchString(lv.StringValue())
	}
	return value.Equal(lv, rv)
}

// orderedCompare evaluates an ordering comparison. Against a Range
// right-hand operand, `<` and `<=` test membership via InRange and `>`/`>=`
// are always false; everything else compares via value.Compare.
func orderedCompare(op ast.Operator, lv, rv value.Value) bool {
	if rv.Kind() == value.KindRangeInt || rv.Kind() == value.KindRangeFloat {
		return rangeOrderedCompare(op, lv, rv)
	}
	if !value.Comparable(lv, rv) {
		return false
	}
	c := value.Compare(lv, rv)
	if c == 2 {
		return false // a NaN operand is unordered
	}
	switch op {
	case ast.OpGt:
		return c > 0
	case ast.OpGe:
		return c >= 0
	case ast.OpLt:
		return c < 0
	case ast.OpLe:
		return c <= 0
	default:
		return false
	}
}

func rangeOrderedCompare(op ast.Operator, lv, rv value.Value) bool {
	x, ok := numericOf(lv)
	if !ok {
		return false
	}
	switch op {
	case ast.OpLe, ast.OpLt:
		return rv.InRange(x)
	default:
		return false
	}
}

func numericOf(v value.Value) (float64, bool) {
	switch v.Kind() {
	case value.KindInt:
		return float64(v.IntValue()), true
	case value.KindFloat:
		return v.FloatValue(), true
	default:
		return 0, false
	}
}

// inValue implements the `in` operator: list membership, map key
// membership, substring containment, or range membership depending on
// rv's kind (spec §4.4's informal description of `in`).
func inValue(lv, rv value.Value) bool {
	switch rv.Kind() {
	case value.KindList:
		for _, el := range rv.ListValues() {
			if value.Equal(lv, el) {
				return true
			}
		}
		return false
	case value.KindMap:
		if lv.Kind() != value.KindString {
			return false
		}
		_, ok := rv.MapValue().Get(lv.StringValue())
		return ok
	case value.KindRangeInt, value.KindRangeFloat:
		x, ok := numericOf(lv)
		return ok && rv.InRange(x)
	case value.KindString:
		return lv.Kind() == value.KindString && contains(rv.StringValue(), lv.StringValue())
	default:
		return false
	}
}

func contains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

// evalUnary evaluates a unary type/existence predicate (spec §4.4).
// Non-existence/type predicates are universally quantified the same way
// as evalComparison.
func (e *Evaluator) evalUnary(x *ast.UnaryOperation, scope *Scope) (status, error) {
	vals, err := e.evalOperand(x.Operand, scope)
	if err != nil {
		return statusFail, err
	}

	switch x.Op {
	case ast.OpExists:
		ok := len(vals) > 0
		return reportUnary(e, x, ok), nil
	case ast.OpEmpty:
		ok := len(vals) == 0
		if len(vals) == 1 {
			ok = value.IsEmpty(vals[0])
		}
		return reportUnary(e, x, ok), nil
	}

	if len(vals) == 0 {
		if e.opts.EmptyListIsVacuousTrue {
			return statusPass, nil
		}
		return statusSkip, nil
	}
	for _, v := range vals {
		ok := kindMatches(x.Op, v)
		if x.Negate {
			ok = !ok
		}
		if !ok {
			return statusFail, nil
		}
	}
	return statusPass, nil
}

func reportUnary(e *Evaluator, x *ast.UnaryOperation, ok bool) status {
	if x.Negate {
		ok = !ok
	}
	if ok {
		return statusPass
	}
	return statusFail
}

func kindMatches(op ast.Operator, v value.Value) bool {
	switch op {
	case ast.OpIsString:
		return v.Kind() == value.KindString
	case ast.OpIsList:
		return v.Kind() == value.KindList
	case ast.OpIsMap:
		return v.Kind() == value.KindMap
	case ast.OpIsInt:
		return v.Kind() == value.KindInt
	case ast.OpIsFloat:
		return v.Kind() == value.KindFloat
	case ast.OpIsBool:
		return v.Kind() == value.KindBool
	case ast.OpIsRegex:
		return v.Kind() == value.KindRegex
	default:
		return false
	}
}
