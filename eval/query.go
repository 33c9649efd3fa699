package eval

import (
	"github.com/confrule/confrule/internal/errors"
	"github.com/confrule/confrule/report"
	"github.com/confrule/confrule/rules/ast"
	"github.com/confrule/confrule/value"
)

// evalQuery resolves q against scope's current root, applying each
// Segment in source order (spec §4.3, §5's ordering guarantee). A step
// that cannot be satisfied prunes that branch of the traversal and is
// reported via MissingValue or MismatchTraversal, never as an error: the
// engine's correctness never depends on what the Reporter does with the
// event (spec §4.8).
func (e *Evaluator) evalQuery(q *ast.QueryExpr, scope *Scope) ([]value.Value, error) {
	parts := q.Parts
	cur := []value.Value{scope.root}

	// A query's leading `%name` segment starts the path at the variable's
	// own resolved value rather than looking up a key named by it (spec
	// §4.3: "the first segment is an identifier or %name variable
	// reference"). A %name segment anywhere else in the path is a dynamic
	// key lookup against the value reached so far, handled directly by
	// applySegmentTo's SegmentVariable case.
	if len(parts) > 0 && parts[0].Kind == ast.SegmentVariable {
		b, bindScope := scope.lookup(parts[0].Variable)
		if b == nil {
			return nil, errors.Newf(errors.Computation, parts[0].Position, "undefined variable %%%s in query segment", parts[0].Variable)
		}
		vals, err := e.materialize(b, bindScope)
		if err != nil {
			return nil, err
		}
		cur, err = e.applyFilter(parts[0], vals, scope)
		if err != nil {
			return nil, err
		}
		parts = parts[1:]
	}

	for _, seg := range parts {
		next, err := e.applySegment(seg, cur, scope)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func (e *Evaluator) applySegment(seg ast.Segment, cur []value.Value, scope *Scope) ([]value.Value, error) {
	var out []value.Value
	for _, v := range cur {
		matched, err := e.applySegmentTo(seg, v, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, matched...)
	}
	return out, nil
}

func (e *Evaluator) applySegmentTo(seg ast.Segment, v value.Value, scope *Scope) ([]value.Value, error) {
	switch seg.Kind {
	case ast.SegmentIdent, ast.SegmentString:
		key := seg.Ident
		if v.Kind() != value.KindMap {
			return e.reportMismatch(v, seg)
		}
		child, ok := v.MapValue().Get(key)
		if !ok {
			return e.reportMissing(v, seg)
		}
		return e.applyFilter(seg, e.filterCandidates(seg, child), scope)

	case ast.SegmentIndex:
		if v.Kind() != value.KindList {
			return e.reportMismatch(v, seg)
		}
		elems := v.ListValues()
		i := seg.Index
		if i < 0 || int(i) >= len(elems) {
			return e.reportMissing(v, seg)
		}
		return e.applyFilter(seg, []value.Value{elems[i]}, scope)

	case ast.SegmentVariable:
		b, bindScope := scope.lookup(seg.Variable)
		if b == nil {
			return nil, errors.Newf(errors.Computation, seg.Position, "undefined variable %%%s in query segment", seg.Variable)
		}
		vals, err := e.materialize(b, bindScope)
		if err != nil {
			return nil, err
		}
		key, ok := asKey(vals)
		if !ok {
			return nil, errors.Newf(errors.Computation, seg.Position, "variable %%%s does not resolve to a single key", seg.Variable)
		}
		if v.Kind() == value.KindMap {
			if child, ok := v.MapValue().Get(key); ok {
				return e.applyFilter(seg, e.filterCandidates(seg, child), scope)
			}
			return e.reportMissing(v, seg)
		}
		return e.reportMismatch(v, seg)

	case ast.SegmentWildcard:
		switch v.Kind() {
		case value.KindList:
			return e.applyFilter(seg, v.ListValues(), scope)
		case value.KindMap:
			return e.applyFilter(seg, v.MapValue().Values(), scope)
		default:
			return e.reportMismatch(v, seg)
		}

	default:
		return nil, errors.Newf(errors.Unexpected, seg.Position, "unknown query segment kind")
	}
}

// filterCandidates decides what a segment's trailing `[ ... ]` filter
// block actually runs over for a singular (non-wildcard) match. A bare
// selector addresses the single matched value itself (e.g. picking one of
// several same-named captures), but a predicate or capture filter is
// written against "the current element" of a collection (spec §4.3): when
// child is itself a Map or List, the filter iterates its entries, the same
// way a wildcard segment's filter does. `Resources[ Type == '...' ]` reads
// the same as `Resources.*[ Type == '...' ]` for this reason.
func (e *Evaluator) filterCandidates(seg ast.Segment, child value.Value) []value.Value {
	switch seg.Filter {
	case ast.FilterPredicate, ast.FilterCapture, ast.FilterCaptureAndPredicate:
		switch child.Kind() {
		case value.KindList:
			return child.ListValues()
		case value.KindMap:
			return child.MapValue().Values()
		}
	}
	return []value.Value{child}
}

// applyFilter applies a segment's trailing `[ ... ]` filter, if any, to
// the values matched by the segment's bare selector (spec §4.3).
func (e *Evaluator) applyFilter(seg ast.Segment, vals []value.Value, scope *Scope) ([]value.Value, error) {
	switch seg.Filter {
	case ast.FilterNone:
		return vals, nil
	case ast.FilterSelector:
		return e.applySelectorFilter(seg, vals, scope)
	case ast.FilterCapture:
		// A bare capture name binds nothing and filters nothing: the values
		// pass through unchanged.
		return vals, nil
	case ast.FilterPredicate, ast.FilterCaptureAndPredicate:
		var out []value.Value
		for _, v := range vals {
			inner := scope
			if seg.Filter == ast.FilterCaptureAndPredicate {
				inner = newScope(scope, v, nil)
				inner.vars[seg.CaptureName] = &binding{
					let: &ast.LetExpr{Name: seg.CaptureName, Value: literalRef(v), Position: seg.Position},
					kind: bindingComputed, materialized: true, computed: v,
				}
			} else {
				inner = newScope(scope, v, nil)
			}
			st, err := e.evalClauseExpr(seg.Predicate, inner)
			if err != nil {
				return nil, err
			}
			if st != statusFail {
				out = append(out, v)
			}
		}
		return out, nil
	default:
		return vals, nil
	}
}

func (e *Evaluator) applySelectorFilter(seg ast.Segment, vals []value.Value, scope *Scope) ([]value.Value, error) {
	sel, err := e.evalToValue(seg.FilterSelector, scope)
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, v := range vals {
		if value.Comparable(sel, v) && value.Compare(sel, v) == 0 {
			out = append(out, v)
		} else if value.Equal(sel, v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// literalRef wraps an already-resolved Value as a pseudo-literal AST node
// so it can sit behind the ordinary binding materialization path without a
// second evaluation; once materialized=true, materialize returns the
// binding's cached Value directly, so the Value itself is never re-derived
// from this placeholder.
func literalRef(v value.Value) ast.Expr { return &ast.NullLit{Position: v.Pos()} }

func asKey(vals []value.Value) (string, bool) {
	if len(vals) != 1 {
		return "", false
	}
	v := vals[0]
	switch v.Kind() {
	case value.KindString:
		return v.StringValue(), true
	default:
		return "", false
	}
}

func (e *Evaluator) reportMissing(prefix value.Value, seg ast.Segment) ([]value.Value, error) {
	if err := e.reporter.MissingValue(report.MissingValue{Prefix: prefix, DataFile: e.dataFile, Node: seg}); err != nil {
		return nil, err
	}
	return nil, nil
}

func (e *Evaluator) reportMismatch(prefix value.Value, seg ast.Segment) ([]value.Value, error) {
	if err := e.reporter.MismatchTraversal(report.MismatchTraversal{Prefix: prefix, DataFile: e.dataFile, Node: seg}); err != nil {
		return nil, err
	}
	return nil, nil
}
