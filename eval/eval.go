// Package eval implements the rule evaluator: variable resolution, the
// query/filter engine, predicate evaluation, and the rule/block/when
// driver (spec §4.3-4.6, §4.8).
package eval

import (
	"github.com/confrule/confrule/internal/errors"
	"github.com/confrule/confrule/report"
	"github.com/confrule/confrule/rules/ast"
	"github.com/confrule/confrule/value"
)

type status = report.Status

const (
	statusPass = report.Pass
	statusFail = report.Fail
	statusSkip = report.Skip
)

// Evaluator runs one rules File against one or more data documents. It is
// not safe for concurrent use by multiple goroutines; per spec §5 the
// engine is strictly single-threaded.
type Evaluator struct {
	file     *ast.File
	rules    map[string]*ast.RuleExpr
	reporter report.Reporter
	dataFile string
	opts     Options
}

// NewEvaluator builds an Evaluator for file, reporting events to reporter
// (report.Discard{} if nil) and tagging reported events with dataFile.
func NewEvaluator(file *ast.File, reporter report.Reporter, dataFile string, opts Options) *Evaluator {
	if reporter == nil {
		reporter = report.Discard{}
	}
	rules := make(map[string]*ast.RuleExpr, len(file.Rules))
	for _, r := range file.Rules {
		rules[r.Name] = r
	}
	return &Evaluator{file: file, rules: rules, reporter: reporter, dataFile: dataFile, opts: opts}
}

// RuleResult is one named rule's outcome (spec §4.5).
type RuleResult struct {
	Name   string
	Status report.Status
}

// EvaluateDocument evaluates every rule in the file that declares no
// parameters against doc as the document root, in source order (spec §5).
// A parameterized rule runs only when a clause invokes it with arguments,
// and has no entry of its own in the results.
func (e *Evaluator) EvaluateDocument(doc value.Value) ([]RuleResult, error) {
	root := newScope(nil, doc, e.file.Assignments)
	results := make([]RuleResult, 0, len(e.file.Rules))
	for _, r := range e.file.Rules {
		if len(r.Params) > 0 {
			continue
		}
		st, err := e.evalRule(r, root)
		if err != nil {
			return results, err
		}
		results = append(results, RuleResult{Name: r.Name, Status: st})
	}
	return results, nil
}

func (e *Evaluator) evalRule(r *ast.RuleExpr, parent *Scope) (status, error) {
	scope := newScope(parent, parent.root, nil)
	if r.Precondition != nil {
		st, err := e.evalClauseExpr(r.Precondition, scope)
		if err != nil {
			return statusFail, err
		}
		if st != statusPass {
			return statusSkip, nil
		}
	}
	return e.evalBlock(r.Block, scope)
}

// evalBlock evaluates every clause in block's clause list and combines
// them with the conjunction rule from spec §4.5: PASS iff all clauses
// PASS, FAIL if any clause FAILs, SKIP otherwise.
func (e *Evaluator) evalBlock(b *ast.BlockExpr, parent *Scope) (status, error) {
	scope := newScope(parent, parent.root, b.Assignments)
	result := statusPass
	sawSkip := false
	for _, c := range b.Clauses {
		st, err := e.evalClauseExpr(c, scope)
		if err != nil {
			return statusFail, err
		}
		switch st {
		case statusFail:
			result = statusFail
		case statusSkip:
			sawSkip = true
		}
	}
	if result == statusFail {
		return statusFail, nil
	}
	if sawSkip {
		return statusSkip, nil
	}
	return statusPass, nil
}

func conjoin(a, b status) status {
	if a == statusFail || b == statusFail {
		return statusFail
	}
	if a == statusPass && b == statusPass {
		return statusPass
	}
	return statusSkip
}

func disjoin(a, b status) status {
	if a == statusPass || b == statusPass {
		return statusPass
	}
	if a == statusFail && b == statusFail {
		return statusFail
	}
	return statusSkip
}

// evalClauseExpr dispatches any Clause-shaped Expr — a predicate, a
// rule invocation, a when guard, a block clause, or an and/or combination
// of the above — to its evaluation rule.
func (e *Evaluator) evalClauseExpr(ex ast.Expr, scope *Scope) (status, error) {
	switch x := ex.(type) {
	case *ast.BinaryOperation:
		switch x.Op {
		case ast.OpAnd:
			lst, err := e.evalClauseExpr(x.LHS, scope)
			if err != nil {
				return statusFail, err
			}
			rst, err := e.evalClauseExpr(x.RHS, scope)
			if err != nil {
				return statusFail, err
			}
			return conjoin(lst, rst), nil
		case ast.OpOr:
			lst, err := e.evalClauseExpr(x.LHS, scope)
			if err != nil {
				return statusFail, err
			}
			rst, err := e.evalClauseExpr(x.RHS, scope)
			if err != nil {
				return statusFail, err
			}
			return disjoin(lst, rst), nil
		default:
			return e.evalComparison(x, scope)
		}
	case *ast.UnaryOperation:
		return e.evalUnary(x, scope)
	case *ast.RuleClauseExpr:
		return e.evalRuleClause(x, scope)
	case *ast.WhenExpr:
		return e.evalWhen(x, scope)
	case *ast.BlockClauseExpr:
		return e.evalBlockClause(x, scope)
	default:
		return statusFail, errors.Newf(errors.Unexpected, ex.Pos(), "expression cannot be evaluated as a clause")
	}
}

func (e *Evaluator) evalRuleClause(rc *ast.RuleClauseExpr, scope *Scope) (status, error) {
	r, ok := e.rules[rc.Name]
	if !ok {
		return statusFail, errors.Newf(errors.Computation, rc.Position, "reference to undefined rule %q", rc.Name)
	}
	callScope := bindParams(scope, scope.root, r.Params, rc.Args)
	st, err := e.evalRule(r, callScope)
	if err != nil {
		return statusFail, err
	}
	return st, nil
}

func (e *Evaluator) evalWhen(w *ast.WhenExpr, scope *Scope) (status, error) {
	pre, err := e.evalClauseExpr(w.Precondition, scope)
	if err != nil {
		return statusFail, err
	}
	if pre != statusPass {
		return statusSkip, nil
	}
	if w.Block == nil {
		return statusPass, nil
	}
	return e.evalBlock(w.Block, scope)
}

func (e *Evaluator) evalBlockClause(bc *ast.BlockClauseExpr, scope *Scope) (status, error) {
	vals, err := e.evalQuery(bc.Select, scope)
	if err != nil {
		return statusFail, err
	}
	if len(vals) == 0 {
		if e.opts.EmptyQuerySkips {
			return statusSkip, nil
		}
		return statusPass, nil
	}
	result := statusPass
	for _, v := range vals {
		elemScope := newScope(scope, v, nil)
		st, err := e.evalBlock(bc.Block, elemScope)
		if err != nil {
			return statusFail, err
		}
		result = conjoin(result, st)
	}
	return result, nil
}
