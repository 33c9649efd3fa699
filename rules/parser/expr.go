package parser

import "github.com/confrule/confrule/rules/ast"

// parseExpr parses a value-position expression: a query, a variable
// reference, or a primary literal (string/regex/number/bool/null/range/
// array/map). It never consumes a predicate operator or `and`/`or` — those
// only apply at clause position (parseLogical).
func (p *parser) parseExpr() ast.Expr {
	p.skipSpace()
	if looksLikeQueryStart(p) {
		return p.parseQuery()
	}
	return p.parsePrimaryLiteral()
}

// looksLikeQueryStart reports whether the upcoming tokens begin a dotted
// query path rather than a bare identifier literal (true/false/null) or a
// primary literal. A bare identifier is a query start unless it spells one
// of the literal keywords.
func looksLikeQueryStart(p *parser) bool {
	c := p.peekByte()
	if c == '*' {
		return true
	}
	if !isIdentStart(c) {
		return false
	}
	if c == 'r' && (p.peekByteAt(1) == '(' || p.peekByteAt(1) == '[') {
		return false // a range literal, not a query rooted at a field named "r"
	}
	id := p.peekIdent()
	switch id {
	case "true", "True", "TRUE", "T", "false", "False", "FALSE", "F", "null", "NULL":
		return false
	default:
		return true
	}
}

// Precedence levels for the clause-level `and`/`or` combinators. Per spec
// §4.4, `or` binds tighter than `and` (the reverse of most languages), and
// a run of same-precedence operators reduces right-associatively rather
// than left-associatively.
const (
	precAnd = 1
	precOr  = 2
)

// parseLogical implements precedence-climbing for and/or over predicate
// clauses. Unlike a conventional climber it recurses at the SAME
// precedence (not prec+1) when consuming the right-hand side of an
// equal-precedence operator, which yields right-associative grouping for
// runs of the same operator — required by spec §4.4 and a deliberate
// deviation from the left-associative climb used by the teacher's own
// expression parser.
func (p *parser) parseLogical(minPrec int) ast.Expr {
	lhs := p.parsePredicate()
	if lhs == nil {
		return nil
	}
	for {
		save := p.pos
		p.skipSpace()
		op, prec, ok := p.peekLogicalOp()
		if !ok || prec < minPrec {
			p.pos = save
			return lhs
		}
		pos := p.here()
		p.consumeLogicalOp(op)
		rhs := p.parseLogical(prec)
		if rhs == nil {
			return lhs
		}
		lhs = &ast.BinaryOperation{Op: op, LHS: lhs, RHS: rhs, Position: pos}
	}
}

func (p *parser) peekLogicalOp() (ast.Operator, int, bool) {
	id := p.peekIdent()
	switch id {
	case "and", "AND":
		return ast.OpAnd, precAnd, true
	case "or", "OR":
		return ast.OpOr, precOr, true
	default:
		return 0, 0, false
	}
}

func (p *parser) consumeLogicalOp(op ast.Operator) {
	p.scanIdent()
}
