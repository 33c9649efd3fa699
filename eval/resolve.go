package eval

import (
	"github.com/confrule/confrule/internal/errors"
	"github.com/confrule/confrule/rules/ast"
	"github.com/confrule/confrule/value"
)

// materialize returns the cached or newly-computed resolution of b,
// evaluated against bindScope (the scope the Let was introduced in, per
// spec §4.6 — not necessarily the scope doing the referencing).
func (e *Evaluator) materialize(b *binding, bindScope *Scope) ([]value.Value, error) {
	if b.materialized {
		if b.kind == bindingQuery {
			return b.multi, nil
		}
		return []value.Value{b.computed}, nil
	}
	switch b.kind {
	case bindingQuery:
		if q, ok := b.let.Value.(*ast.QueryExpr); ok {
			vals, err := e.evalQuery(q, bindScope)
			if err != nil {
				return nil, err
			}
			b.multi, b.materialized = vals, true
			return vals, nil
		}
		v, err := e.evalToValue(b.let.Value, bindScope)
		if err != nil {
			return nil, err
		}
		b.multi, b.materialized = []value.Value{v}, true
		return b.multi, nil
	default: // bindingLiteral, bindingComputed
		v, err := e.evalToValue(b.let.Value, bindScope)
		if err != nil {
			return nil, err
		}
		b.computed, b.materialized = v, true
		return []value.Value{v}, nil
	}
}

// evalOperand resolves e to its multi-set of Values in operand position
// (either side of a comparison, or a unary predicate's operand).
func (e *Evaluator) evalOperand(ex ast.Expr, scope *Scope) ([]value.Value, error) {
	switch x := ex.(type) {
	case *ast.QueryExpr:
		return e.evalQuery(x, scope)
	case *ast.VariableReference:
		b, bindScope := scope.lookup(x.Name)
		if b == nil {
			return nil, errors.Newf(errors.Computation, x.Position, "undefined variable %%%s", x.Name)
		}
		return e.materialize(b, bindScope)
	default:
		v, err := e.evalToValue(ex, scope)
		if err != nil {
			return nil, err
		}
		return []value.Value{v}, nil
	}
}

// evalToValue evaluates e to a single Value, used for literal containers,
// computed Let bindings, and comparison operands that aren't queries.
func (e *Evaluator) evalToValue(ex ast.Expr, scope *Scope) (value.Value, error) {
	switch x := ex.(type) {
	case *ast.StringLit:
		return value.String(x.Position, x.Value), nil
	case *ast.RegexLit:
		v, err := value.Regex(x.Position, x.Pattern)
		if err != nil {
			return value.Value{}, errors.Wrapf(errors.Computation, x.Position, err, "invalid regex literal")
		}
		return v, nil
	case *ast.BoolLit:
		return value.Bool(x.Position, x.Value), nil
	case *ast.IntLit:
		return value.Int(x.Position, x.Value), nil
	case *ast.FloatLit:
		return value.Float(x.Position, x.Value), nil
	case *ast.CharLit:
		return value.Char(x.Position, x.Value), nil
	case *ast.NullLit:
		return value.Null(x.Position), nil
	case *ast.RangeIntLit:
		v, err := value.RangeInt(x.Position, x.Lower, x.Upper, value.Inclusivity(x.Mask))
		if err != nil {
			return value.Value{}, errors.Wrapf(errors.Computation, x.Position, err, "invalid range literal")
		}
		return v, nil
	case *ast.RangeFloatLit:
		v, err := value.RangeFloat(x.Position, x.Lower, x.Upper, value.Inclusivity(x.Mask))
		if err != nil {
			return value.Value{}, errors.Wrapf(errors.Computation, x.Position, err, "invalid range literal")
		}
		return v, nil
	case *ast.ArrayExpr:
		elems := make([]value.Value, len(x.Elements))
		for i, el := range x.Elements {
			v, err := e.evalToValue(el, scope)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = v
		}
		return value.List(x.Position, elems), nil
	case *ast.MapExpr:
		m := value.NewOrderedMap()
		for _, entry := range x.Entries {
			v, err := e.evalToValue(entry.Value, scope)
			if err != nil {
				return value.Value{}, err
			}
			m.Set(entry.Key, v)
		}
		return value.Map(x.Position, m), nil
	case *ast.VariableReference:
		b, bindScope := scope.lookup(x.Name)
		if b == nil {
			return value.Value{}, errors.Newf(errors.Computation, x.Position, "undefined variable %%%s", x.Name)
		}
		vals, err := e.materialize(b, bindScope)
		if err != nil {
			return value.Value{}, err
		}
		if len(vals) != 1 {
			return value.Value{}, errors.Newf(errors.Computation, x.Position, "variable %%%s has %d resolutions, expected exactly one in value position", x.Name, len(vals))
		}
		return vals[0], nil
	case *ast.QueryExpr:
		vals, err := e.evalQuery(x, scope)
		if err != nil {
			return value.Value{}, err
		}
		return value.List(x.Position, vals), nil
	default:
		return value.Value{}, errors.Newf(errors.Unexpected, ex.Pos(), "expression cannot be evaluated in value position")
	}
}
