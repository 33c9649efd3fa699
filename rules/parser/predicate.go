package parser

import "github.com/confrule/confrule/rules/ast"

// parsePredicate parses one clause atom: a parenthesized logical group, a
// `when` guard, a rule invocation, a query-scoped block clause, or a
// comparison/unary predicate over a query. Leading `not`/`!` negates the
// result (spec §4.4).
func (p *parser) parsePredicate() ast.Expr {
	p.skipSpace()
	pos := p.here()

	negate := false
	if p.eatKeywordFold("not", "NOT") {
		negate = true
		p.skipSpace()
	} else if p.eatByte('!') {
		negate = true
		p.skipSpace()
	}

	if p.peekByte() == '(' {
		p.pos++
		inner := p.parseLogical(precAnd)
		p.skipSpace()
		p.expectByte(')')
		return p.applyNegation(negate, inner)
	}

	if p.eatKeyword("when") {
		return p.parseWhenClause(pos)
	}

	// Disambiguate a bare rule invocation (identifier immediately followed
	// by '(') from a query that happens to start with the same name. Only
	// an identifier-led clause can possibly be a rule invocation; queries
	// that lead with '%', '*', a quoted string, or a digit segment fall
	// straight through to parseQuery.
	if id := p.peekIdent(); id != "" && !isReservedPredicateWord(id) {
		save := p.pos
		p.scanIdent()
		p.skipSpace()
		if p.peekByte() == '(' {
			p.pos++
			args := p.parseArgList()
			p.skipSpace()
			p.expectByte(')')
			msg, _ := p.scanMessage()
			return p.applyNegation(negate, &ast.RuleClauseExpr{Name: id, Args: args, Message: msg, Position: pos})
		}
		p.pos = save
	}

	q := p.parseQuery()
	if q == nil {
		return nil
	}
	p.skipSpace()

	if p.peekByte() == '{' {
		block := p.parseBlock()
		msg, _ := p.scanMessage()
		return p.applyNegation(negate, &ast.BlockClauseExpr{Select: q, Block: block, Message: msg, Position: pos})
	}

	// `operand 'not' unary-keyword` negates the unary predicate itself
	// (spec §4.4's unary production), distinct from a leading `not` before
	// the whole predicate.
	if p.eatKeywordFold("not", "NOT") {
		p.skipSpace()
		op, ok := p.peekUnaryOp()
		if !ok {
			p.errorf("expected 'exists', 'empty', or a type predicate after 'not'")
			return nil
		}
		p.consumeUnaryOp(op)
		msg, _ := p.scanMessage()
		return &ast.UnaryOperation{Op: op, Operand: q, Negate: !negate, Message: msg, Position: pos}
	}

	if op, ok := p.peekUnaryOp(); ok {
		p.consumeUnaryOp(op)
		msg, _ := p.scanMessage()
		return &ast.UnaryOperation{Op: op, Operand: q, Negate: negate, Message: msg, Position: pos}
	}

	if op, ok := p.peekComparisonOp(); ok {
		p.consumeComparisonOp(op)
		rhs := p.parseExpr()
		msg, _ := p.scanMessage()
		return &ast.BinaryOperation{Op: op, LHS: q, RHS: rhs, Negate: negate, Message: msg, Position: pos}
	}

	// A bare query with no trailing operator is an implicit existence
	// check (spec §4.3: a selector that matches nothing is reported as a
	// missing value, which is what EXISTS tests for).
	msg, _ := p.scanMessage()
	return &ast.UnaryOperation{Op: ast.OpExists, Operand: q, Negate: negate, Message: msg, Position: pos}
}

func (p *parser) applyNegation(negate bool, e ast.Expr) ast.Expr {
	if !negate {
		return e
	}
	switch x := e.(type) {
	case *ast.BinaryOperation:
		x.Negate = !x.Negate
		return x
	case *ast.UnaryOperation:
		x.Negate = !x.Negate
		return x
	default:
		p.errorf("'not' cannot negate a rule invocation, block clause, or when guard")
		return e
	}
}

func (p *parser) parseArgList() []ast.Expr {
	p.skipSpace()
	var args []ast.Expr
	if p.peekByte() == ')' {
		return args
	}
	for {
		a := p.parseExpr()
		if a != nil {
			args = append(args, a)
		}
		p.skipSpace()
		if p.eatByte(',') {
			p.skipSpace()
			continue
		}
		break
	}
	return args
}

func (p *parser) peekComparisonOp() (ast.Operator, bool) {
	switch {
	case p.peekByte() == '=' && p.peekByteAt(1) == '=':
		return ast.OpEq, true
	case p.peekByte() == '!' && p.peekByteAt(1) == '=':
		return ast.OpNe, true
	case p.peekByte() == '>' && p.peekByteAt(1) == '=':
		return ast.OpGe, true
	case p.peekByte() == '>':
		return ast.OpGt, true
	case p.peekByte() == '<' && p.peekByteAt(1) == '=':
		return ast.OpLe, true
	case p.peekByte() == '<':
		return ast.OpLt, true
	}
	if id := p.peekIdent(); id == "in" || id == "IN" {
		return ast.OpIn, true
	}
	return 0, false
}

func (p *parser) consumeComparisonOp(op ast.Operator) {
	switch op {
	case ast.OpEq, ast.OpNe, ast.OpGe, ast.OpLe:
		p.pos += 2
	case ast.OpGt, ast.OpLt:
		p.pos++
	case ast.OpIn:
		p.scanIdent()
	}
}

func (p *parser) peekUnaryOp() (ast.Operator, bool) {
	switch p.peekIdent() {
	case "exists", "EXISTS":
		return ast.OpExists, true
	case "empty", "EMPTY":
		return ast.OpEmpty, true
	case "is_string", "IS_STRING":
		return ast.OpIsString, true
	case "is_list", "IS_LIST":
		return ast.OpIsList, true
	case "is_map", "IS_MAP":
		return ast.OpIsMap, true
	case "is_int", "IS_INT":
		return ast.OpIsInt, true
	case "is_float", "IS_FLOAT":
		return ast.OpIsFloat, true
	case "is_bool", "IS_BOOL":
		return ast.OpIsBool, true
	case "is_regex", "IS_REGEX":
		return ast.OpIsRegex, true
	default:
		return 0, false
	}
}

func (p *parser) consumeUnaryOp(ast.Operator) { p.scanIdent() }
