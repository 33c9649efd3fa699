// Package parser implements the recursive-descent parser for the rule
// grammar (spec §4.1-4.6, §6). Per spec §4.1 the lexer is not a separate
// stage: the parser consumes byte-positioned input directly, skipping
// whitespace and `#` line comments between any two tokens.
package parser

import (
	"github.com/confrule/confrule/internal/errors"
	"github.com/confrule/confrule/internal/token"
)

type parser struct {
	filename string
	src      []byte
	pos      int
	tracker  *token.Tracker
	errs     errors.List
}

func newParser(filename string, src []byte) *parser {
	return &parser{filename: filename, src: src, tracker: token.NewTracker(filename)}
}

func (p *parser) here() token.Position { return p.tracker.Advance(p.src, p.pos) }

func (p *parser) errorf(format string, args ...interface{}) {
	p.errs.AddNewf(errors.Parse, p.here(), format, args...)
}

func (p *parser) atEOF() bool { return p.pos >= len(p.src) }

func (p *parser) peekByte() byte {
	if p.atEOF() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekByteAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

// skipSpace consumes whitespace and `#`-to-end-of-line comments, which may
// appear between any two tokens (spec §4.1).
func (p *parser) skipSpace() {
	for !p.atEOF() {
		c := p.src[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.pos++
		case c == '#':
			for !p.atEOF() && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || c == '_' || (c >= '0' && c <= '9')
}

// scanIdent consumes an identifier (spec §4.1: alphabetic first character,
// alphanumeric or `_` thereafter) starting at the current position. It must
// be called only after skipSpace and after confirming isIdentStart at pos.
func (p *parser) scanIdent() string {
	start := p.pos
	p.pos++
	for !p.atEOF() && isIdentCont(p.src[p.pos]) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

// peekIdent reports the identifier starting at the current position without
// consuming it, or "" if the current position is not an identifier start.
func (p *parser) peekIdent() string {
	if p.atEOF() || !isIdentStart(p.src[p.pos]) {
		return ""
	}
	save := p.pos
	id := p.scanIdent()
	p.pos = save
	return id
}

// eatKeyword consumes word (case-sensitively, as all grammar keywords are
// spelled in their canonical or uppercase form per spec §6) if it appears
// at the current position as a whole identifier, and reports success.
func (p *parser) eatKeyword(word string) bool {
	save := p.pos
	if p.peekIdent() == word {
		p.scanIdent()
		return true
	}
	p.pos = save
	return false
}

// eatKeywordFold consumes one of several case variants of a keyword, as
// used for operators like `in`/`IN` and the unary type predicates.
func (p *parser) eatKeywordFold(words ...string) bool {
	save := p.pos
	id := p.peekIdent()
	for _, w := range words {
		if id == w {
			p.scanIdent()
			return true
		}
	}
	p.pos = save
	return false
}

func (p *parser) eatByte(c byte) bool {
	if p.peekByte() == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectByte(c byte) bool {
	p.skipSpace()
	if p.eatByte(c) {
		return true
	}
	p.errorf("expected %q", string(c))
	return false
}

// scanMessage consumes a trailing `<< text >>` user message (spec §4.4,
// §4.5) if present, returning the message text and whether one was found.
func (p *parser) scanMessage() (string, bool) {
	save := p.pos
	p.skipSpace()
	if p.peekByte() != '<' || p.peekByteAt(1) != '<' {
		p.pos = save
		return "", false
	}
	p.pos += 2
	start := p.pos
	for !p.atEOF() && !(p.peekByte() == '>' && p.peekByteAt(1) == '>') {
		p.pos++
	}
	text := string(p.src[start:p.pos])
	if p.atEOF() {
		p.errorf("unterminated message, expected '>>'")
	} else {
		p.pos += 2
	}
	return trimSpace(text), true
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && isBlank(s[i]) {
		i++
	}
	for j > i && isBlank(s[j-1]) {
		j--
	}
	return s[i:j]
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
