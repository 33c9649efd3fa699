package parser

import (
	"github.com/confrule/confrule/internal/dedup"
	"github.com/confrule/confrule/internal/errors"
	"github.com/confrule/confrule/internal/token"
	"github.com/confrule/confrule/rules/ast"
)

// ParseFile parses a complete rules document (spec §3, §4.5, §4.6). It
// enforces the document-level invariants that cannot be checked locally:
// rule names unique within the file, and `let` names unique within each
// scope (file, rule, and every nested block).
func ParseFile(filename string, src []byte) (*ast.File, errors.List) {
	p := newParser(filename, src)
	f := &ast.File{Name: filename, Position: p.here()}

	for {
		p.skipSpace()
		if p.atEOF() {
			break
		}
		switch {
		case p.eatKeyword("let"):
			if l := p.parseLetAssignment(); l != nil {
				f.Assignments = append(f.Assignments, l)
			}
		case p.eatKeyword("rule"):
			if r := p.parseRule(); r != nil {
				f.Rules = append(f.Rules, r)
			}
		default:
			p.errorf("expected 'let' or 'rule' at top level")
			p.pos++
		}
		if len(p.errs) > 500 {
			break
		}
	}

	checkUniqueRuleNames(f, &p.errs)
	checkUniqueLetNames(f.Assignments, f.Position, &p.errs)

	p.errs.Sort()
	return f, p.errs
}

func checkUniqueRuleNames(f *ast.File, errs *errors.List) {
	names := make([]string, len(f.Rules))
	for i, r := range f.Rules {
		names[i] = r.Name
	}
	for _, dupName := range dedup.Duplicates(names) {
		for _, r := range f.Rules {
			if r.Name == dupName {
				errs.AddNewf(errors.Parse, r.Position, "duplicate rule name %q", dupName)
			}
		}
	}
}

func checkUniqueLetNames(assignments []*ast.LetExpr, pos token.Position, errs *errors.List) {
	names := make([]string, len(assignments))
	for i, l := range assignments {
		names[i] = l.Name
	}
	for _, dupName := range dedup.Duplicates(names) {
		errs.AddNewf(errors.Parse, pos, "duplicate let name %q in scope", dupName)
	}
}

func (p *parser) parseLetAssignment() *ast.LetExpr {
	pos := p.here()
	p.skipSpace()
	name := p.peekIdent()
	if name == "" {
		p.errorf("expected a variable name after 'let'")
		return nil
	}
	p.scanIdent()
	p.skipSpace()
	if !p.expectByte('=') {
		return nil
	}
	val := p.parseExpr()
	if val == nil {
		return nil
	}
	return &ast.LetExpr{Name: name, Value: val, Position: pos}
}

func (p *parser) parseRule() *ast.RuleExpr {
	pos := p.here()
	p.skipSpace()
	name := p.peekIdent()
	if name == "" {
		p.errorf("expected a rule name")
		return nil
	}
	p.scanIdent()
	r := &ast.RuleExpr{Name: name, Position: pos}

	p.skipSpace()
	if p.eatByte('(') {
		r.Params = p.parseParamList()
		p.skipSpace()
		p.expectByte(')')
	}

	p.skipSpace()
	if p.eatKeyword("when") {
		r.Precondition = p.parseLogical(precAnd)
	}

	p.skipSpace()
	r.Block = p.parseBlock()
	return r
}

func (p *parser) parseParamList() []string {
	p.skipSpace()
	var params []string
	if p.peekByte() == ')' {
		return params
	}
	for {
		p.skipSpace()
		name := p.peekIdent()
		if name == "" {
			p.errorf("expected a parameter name")
			break
		}
		p.scanIdent()
		params = append(params, name)
		p.skipSpace()
		if p.eatByte(',') {
			continue
		}
		break
	}
	return params
}

// parseBlock parses a brace-delimited body: `let` assignments followed by
// conjoined clauses (spec §3, §6). Scope-local let names are checked for
// uniqueness immediately, since a block's scope ends at its own `}`.
func (p *parser) parseBlock() *ast.BlockExpr {
	pos := p.here()
	if !p.expectByte('{') {
		return &ast.BlockExpr{Position: pos}
	}
	b := &ast.BlockExpr{Position: pos}
	for {
		p.skipSpace()
		if p.atEOF() {
			p.errorf("unterminated block, expected '}'")
			break
		}
		if p.peekByte() == '}' {
			break
		}
		if p.eatKeyword("let") {
			if l := p.parseLetAssignment(); l != nil {
				b.Assignments = append(b.Assignments, l)
			}
			continue
		}
		c := p.parseLogical(precAnd)
		if clause, ok := c.(ast.Clause); ok {
			b.Clauses = append(b.Clauses, clause)
		} else if c != nil {
			p.errorf("expression cannot be used as a clause")
		} else {
			// parsePredicate already recorded an error; avoid looping forever.
			if !p.atEOF() {
				p.pos++
			}
		}
	}
	p.expectByte('}')
	checkUniqueLetNames(b.Assignments, pos, &p.errs)
	return b
}

// parseWhenClause parses `when <precondition> { <block> }` used as a
// guarded nested block inside another block (spec §4.5), distinct from a
// rule-level `when` which has no attached block.
func (p *parser) parseWhenClause(pos token.Position) ast.Expr {
	precond := p.parseLogical(precAnd)
	p.skipSpace()
	var block *ast.BlockExpr
	if p.peekByte() == '{' {
		block = p.parseBlock()
	}
	msg, _ := p.scanMessage()
	return &ast.WhenExpr{Precondition: precond, Block: block, Message: msg, Position: pos}
}
