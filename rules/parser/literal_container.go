package parser

import (
	"github.com/confrule/confrule/rules/ast"
	"github.com/confrule/confrule/rules/literal"
)

// parsePrimaryLiteral parses a primitive literal, array, or map, used both
// as a standalone clause operand and as a query filter selector (spec
// §4.2).
func (p *parser) parsePrimaryLiteral() ast.Expr {
	p.skipSpace()
	pos := p.here()
	switch c := p.peekByte(); {
	case c == '\'' || c == '"':
		s, end, err := literal.ScanString(p.src, p.pos)
		if err != nil {
			p.errorf("%v", err)
			p.pos = len(p.src)
			return nil
		}
		p.pos = end
		return &ast.StringLit{Value: s, Position: pos}
	case c == '/':
		pat, end, err := literal.ScanRegex(p.src, p.pos)
		if err != nil {
			p.errorf("%v", err)
			p.pos = len(p.src)
			return nil
		}
		p.pos = end
		return &ast.RegexLit{Pattern: pat, Position: pos}
	case c == '[':
		return p.parseArrayLit()
	case c == '{':
		return p.parseMapLit()
	case c == 'r' && (p.peekByteAt(1) == '(' || p.peekByteAt(1) == '['):
		return p.parseRangeLit()
	case c == '%':
		p.pos++
		name := p.peekIdent()
		if name == "" {
			p.errorf("expected variable name after '%%'")
			return nil
		}
		p.scanIdent()
		return &ast.VariableReference{Name: name, Position: pos}
	case c == '+' || c == '-' || isDigit(c):
		return p.parseNumberLit()
	}
	if id := p.peekIdent(); id != "" {
		switch id {
		case "true", "True", "TRUE", "T", "false", "False", "FALSE", "F":
			p.scanIdent()
			v, _ := literal.MatchBool(id)
			return &ast.BoolLit{Value: v, Position: pos}
		case "null", "NULL":
			p.scanIdent()
			return &ast.NullLit{Position: pos}
		}
	}
	p.errorf("expected a literal, variable reference, or query")
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (p *parser) parseNumberLit() ast.Expr {
	pos := p.here()
	text, isFloat, end, err := literal.ScanNumber(p.src, p.pos)
	if err != nil {
		p.errorf("expected a number")
		return nil
	}
	p.pos = end
	if isFloat {
		v, perr := literal.ParseFloat(text)
		if perr != nil {
			p.errorf("invalid float literal %q: %v", text, perr)
			return nil
		}
		return &ast.FloatLit{Value: v, Position: pos}
	}
	v, perr := literal.ParseInt(text)
	if perr != nil {
		p.errorf("invalid int literal %q: %v", text, perr)
		return nil
	}
	return &ast.IntLit{Value: v, Position: pos}
}

func (p *parser) parseArrayLit() ast.Expr {
	pos := p.here()
	p.pos++ // '['
	arr := &ast.ArrayExpr{Position: pos}
	p.skipSpace()
	for p.peekByte() != ']' {
		if p.atEOF() {
			p.errorf("unterminated array literal, expected ']'")
			return arr
		}
		el := p.parseExpr()
		if el != nil {
			arr.Elements = append(arr.Elements, el)
		}
		p.skipSpace()
		if p.eatByte(',') {
			p.skipSpace()
			continue
		}
		break
	}
	p.expectByte(']')
	return arr
}

func (p *parser) parseMapLit() ast.Expr {
	pos := p.here()
	p.pos++ // '{'
	m := &ast.MapExpr{Position: pos}
	p.skipSpace()
	for p.peekByte() != '}' {
		if p.atEOF() {
			p.errorf("unterminated map literal, expected '}'")
			return m
		}
		entryPos := p.here()
		var key string
		switch {
		case p.peekByte() == '\'' || p.peekByte() == '"':
			s, end, err := literal.ScanString(p.src, p.pos)
			if err != nil {
				p.errorf("%v", err)
				return m
			}
			p.pos = end
			key = s
		default:
			id := p.peekIdent()
			if id == "" {
				p.errorf("expected a map key")
				return m
			}
			p.scanIdent()
			key = id
		}
		p.skipSpace()
		if !p.expectByte(':') {
			return m
		}
		val := p.parseExpr()
		if val != nil {
			m.AddEntry(ast.MapEntry{Key: key, Value: val, Position: entryPos})
		}
		p.skipSpace()
		if p.eatByte(',') {
			p.skipSpace()
			continue
		}
		break
	}
	p.expectByte('}')
	return m
}

// parseRangeLit parses `r(lo,hi)` / `r[lo,hi)` / etc, where the bracket
// shape at each end independently selects inclusivity (spec §3, §4.2).
func (p *parser) parseRangeLit() ast.Expr {
	pos := p.here()
	p.scanIdent() // "r"
	p.skipSpace()
	var mask uint8
	if p.eatByte('[') {
		mask |= 1 // LowerInclusive
	} else if !p.eatByte('(') {
		p.errorf("expected '(' or '[' to start a range literal")
		return nil
	}
	p.skipSpace()
	loText, loFloat, end, err := literal.ScanNumber(p.src, p.pos)
	if err != nil {
		p.errorf("expected a range lower bound")
		return nil
	}
	p.pos = end
	p.skipSpace()
	if !p.expectByte(',') {
		return nil
	}
	p.skipSpace()
	hiText, hiFloat, end2, err := literal.ScanNumber(p.src, p.pos)
	if err != nil {
		p.errorf("expected a range upper bound")
		return nil
	}
	p.pos = end2
	p.skipSpace()
	if p.eatByte(']') {
		mask |= 2 // UpperInclusive
	} else if !p.eatByte(')') {
		p.errorf("expected ')' or ']' to close a range literal")
		return nil
	}
	if loFloat || hiFloat {
		lo, _ := literal.ParseFloat(loText)
		hi, _ := literal.ParseFloat(hiText)
		if lo > hi {
			p.errorf("range lower bound %v exceeds upper bound %v", lo, hi)
			return nil
		}
		return &ast.RangeFloatLit{Lower: lo, Upper: hi, Mask: mask, Position: pos}
	}
	lo, _ := literal.ParseInt(loText)
	hi, _ := literal.ParseInt(hiText)
	if lo > hi {
		p.errorf("range lower bound %d exceeds upper bound %d", lo, hi)
		return nil
	}
	return &ast.RangeIntLit{Lower: lo, Upper: hi, Mask: mask, Position: pos}
}
