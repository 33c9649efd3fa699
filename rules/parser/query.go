package parser

import (
	"github.com/confrule/confrule/rules/ast"
	"github.com/confrule/confrule/rules/literal"
)

// parseQuery parses a non-empty dot-joined sequence of segments (spec
// §4.3). The leading segment may be a bare identifier, a wildcard `*`, a
// quoted string (for keys that aren't valid identifiers), an integer
// index, or a `%name` variable reference.
func (p *parser) parseQuery() *ast.QueryExpr {
	pos := p.here()
	q := &ast.QueryExpr{Position: pos}
	for {
		seg, ok := p.parseSegment()
		if !ok {
			break
		}
		q.Parts = append(q.Parts, seg)
		if p.peekByte() != '.' {
			break
		}
		p.pos++ // '.'
	}
	if len(q.Parts) == 0 {
		p.errorf("expected a query segment")
		return nil
	}
	return q
}

func (p *parser) parseSegment() (ast.Segment, bool) {
	p.skipSpace()
	pos := p.here()
	var seg ast.Segment
	seg.Position = pos
	switch {
	case p.peekByte() == '*':
		p.pos++
		seg.Kind = ast.SegmentWildcard
	case p.peekByte() == '\'' || p.peekByte() == '"':
		s, end, err := literal.ScanString(p.src, p.pos)
		if err != nil {
			p.errorf("%v", err)
			return seg, false
		}
		p.pos = end
		seg.Kind = ast.SegmentString
		seg.Ident = s
	case p.peekByte() == '%':
		p.pos++
		name := p.peekIdent()
		if name == "" {
			p.errorf("expected variable name after '%%' in query segment")
			return seg, false
		}
		p.scanIdent()
		seg.Kind = ast.SegmentVariable
		seg.Variable = name
	case isDigit(p.peekByte()):
		text, isFloat, end, err := literal.ScanNumber(p.src, p.pos)
		if err != nil || isFloat {
			p.errorf("expected an integer index in query segment")
			return seg, false
		}
		p.pos = end
		n, _ := literal.ParseInt(text)
		seg.Kind = ast.SegmentIndex
		seg.Index = n
	case isIdentStart(p.peekByte()):
		seg.Kind = ast.SegmentIdent
		seg.Ident = p.scanIdent()
	default:
		return seg, false
	}
	if p.peekByte() == '[' {
		p.pos++
		p.parseSegmentFilter(&seg)
		p.skipSpace()
		p.expectByte(']')
	}
	return seg, true
}

// parseSegmentFilter parses the inside of a segment's `[ ... ]` filter
// block (spec §4.3): a bare selector (string/int/wildcard/variable
// reference), a capturing identifier followed by `| predicate`, or a bare
// predicate over the current element. An identifier with no `|` after it
// is parsed as a predicate (e.g. an existence check), never as a bare
// capture, so ast.FilterCapture is not produced here.
func (p *parser) parseSegmentFilter(seg *ast.Segment) {
	p.skipSpace()
	switch {
	case p.peekByte() == '\'' || p.peekByte() == '"' || p.peekByte() == '*' ||
		p.peekByte() == '%' || isDigit(p.peekByte()):
		seg.Filter = ast.FilterSelector
		seg.FilterSelector = p.parsePrimaryLiteral()
		return
	}
	if id := p.peekIdent(); id != "" && !isReservedPredicateWord(id) {
		save := p.pos
		p.scanIdent()
		p.skipSpace()
		if p.eatByte('|') {
			seg.CaptureName = id
			seg.Predicate = p.parseLogical(precAnd)
			seg.Filter = ast.FilterCaptureAndPredicate
			return
		}
		// Without a `|`, the identifier starts a predicate: rewind and
		// reparse it as one.
		p.pos = save
	}
	seg.Filter = ast.FilterPredicate
	seg.Predicate = p.parseLogical(precAnd)
}

// isReservedPredicateWord reports whether id is a keyword that can start a
// predicate on its own (so it cannot be mistaken for a bare capture name).
func isReservedPredicateWord(id string) bool {
	switch id {
	case "not", "NOT", "exists", "EXISTS", "empty", "EMPTY",
		"is_string", "is_list", "is_map", "is_int", "is_float", "is_bool", "is_regex",
		"in", "IN", "true", "True", "TRUE", "T", "false", "False", "FALSE", "F", "null", "NULL":
		return true
	default:
		return false
	}
}
