package eval

import (
	"github.com/confrule/confrule/rules/ast"
	"github.com/confrule/confrule/value"
)

// bindingKind classifies how a Let's right-hand side materializes at
// evaluation time (spec §4.6).
type bindingKind int

const (
	bindingLiteral bindingKind = iota
	bindingComputed
	bindingQuery
)

// binding is a variable's cached materialization. It is built once per
// scope entry and reused for the lifetime of that scope (spec §4.6:
// "caching is per scope-entry; re-entering a rule for a different outer
// value re-materializes").
type binding struct {
	let *ast.LetExpr
	kind bindingKind

	materialized bool
	computed     value.Value
	multi        []value.Value
}

// Scope is one lexical level of variable visibility: the file, a rule
// body, a when-guarded block, or a block-clause's per-element body.
// Resolution searches innermost-first (spec §4.6).
type Scope struct {
	parent *Scope
	root   value.Value
	vars   map[string]*binding
}

// newScope creates a child scope rooted at root, with name->binding
// entries for every Let in assignments.
func newScope(parent *Scope, root value.Value, assignments []*ast.LetExpr) *Scope {
	s := &Scope{parent: parent, root: root, vars: make(map[string]*binding, len(assignments))}
	for _, l := range assignments {
		s.vars[l.Name] = &binding{let: l, kind: classify(l.Value)}
	}
	return s
}

// bindParams introduces one binding per declared parameter, backed by the
// caller-scope argument expression at the same index (spec §4.5's
// "by-value-reference, no copying" parameter passing). The returned
// bindings still materialize lazily, in a scope whose parent is the
// caller's scope and whose root is the caller's root.
func bindParams(parent *Scope, root value.Value, params []string, args []ast.Expr) *Scope {
	s := &Scope{parent: parent, root: root, vars: make(map[string]*binding, len(params))}
	for i, name := range params {
		if i >= len(args) {
			break
		}
		synthetic := &ast.LetExpr{Name: name, Value: args[i], Position: args[i].Pos()}
		s.vars[name] = &binding{let: synthetic, kind: classify(args[i])}
	}
	return s
}

func classify(e ast.Expr) bindingKind {
	switch {
	case ast.IsPureLiteral(e):
		return bindingLiteral
	case ast.ContainsQuery(e):
		return bindingQuery
	default:
		return bindingComputed
	}
}

// lookup finds the binding for name, searching innermost-first, and the
// scope in which it was introduced (needed so query/computed
// materialization evaluates against the scope the Let belongs to, not the
// scope that happened to reference it).
func (s *Scope) lookup(name string) (*binding, *Scope) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			return b, cur
		}
	}
	return nil, nil
}
