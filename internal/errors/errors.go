// Package errors defines the error currency shared by the rule parser, the
// data loader, and the evaluator, following the shape of cue/errors: a
// position-carrying Error interface plus a List that can accumulate more
// than one error per run.
package errors

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/confrule/confrule/internal/token"
)

// Kind classifies an Error by which of spec §7's error kinds produced it.
type Kind int

const (
	// Parse indicates the rule or data text violates the grammar.
	Parse Kind = iota
	// Data indicates a YAML/JSON value could not be coerced to its
	// explicit tag and became value.BadValue.
	Data
	// Unexpected indicates an evaluator invariant was violated (a bug, or
	// a missing grammar check).
	Unexpected
	// Computation indicates a computed variable or predicate could not
	// produce a result (e.g. a regex failed to compile).
	Computation
	// IO indicates an underlying I/O failure, propagated unchanged.
	IO
)

func (k Kind) String() string {
	switch k {
	case Parse:
		return "parse error"
	case Data:
		return "data error"
	case Unexpected:
		return "internal error"
	case Computation:
		return "computation error"
	case IO:
		return "i/o error"
	default:
		return "error"
	}
}

// Error is the common error type produced anywhere in confrule. It always
// carries a Kind and a source Position, even if that position is NoPos.
type Error interface {
	error
	Kind() Kind
	Position() token.Position
}

type posError struct {
	kind Kind
	pos  token.Position
	msg  string
}

func (e *posError) Error() string      { return e.msg }
func (e *posError) Kind() Kind         { return e.kind }
func (e *posError) Position() token.Position { return e.pos }

// Newf creates an Error of the given kind at the given position.
func Newf(kind Kind, pos token.Position, format string, args ...interface{}) Error {
	return &posError{kind: kind, pos: pos, msg: fmt.Sprintf(format, args...)}
}

// Wrapf creates an Error that folds a causal error's text into a new
// message at the given position.
func Wrapf(kind Kind, pos token.Position, cause error, format string, args ...interface{}) Error {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, cause)
	}
	return &posError{kind: kind, pos: pos, msg: msg}
}

// List accumulates Errors encountered while processing one file. The zero
// value is an empty list ready to use.
type List []Error

// Add appends err to the list; a nil err is ignored.
func (p *List) Add(err Error) {
	if err == nil {
		return
	}
	*p = append(*p, err)
}

// AddNewf is a convenience wrapper combining Newf and Add.
func (p *List) AddNewf(kind Kind, pos token.Position, format string, args ...interface{}) {
	p.Add(Newf(kind, pos, format, args...))
}

// Err returns an error equivalent to the list, or nil if the list is empty.
func (p List) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

// Sort orders the list by position, keeping it stable for equal positions.
func (p List) Sort() {
	sort.SliceStable(p, func(i, j int) bool {
		return p[i].Position().Before(p[j].Position())
	})
}

// Error implements the error interface, summarizing the first error and the
// count of the rest.
func (p List) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", p[0].Error(), len(p)-1)
	}
}

// Is reports whether any error in p matches target using errors.Is.
func (p List) Is(target error) bool {
	for _, e := range p {
		if errors.Is(e, target) {
			return true
		}
	}
	return false
}

// Print writes one line per error to w, in the style:
//
//	file:line:column: message
func Print(w io.Writer, errs List) {
	for _, e := range errs {
		fmt.Fprintf(w, "%s: %s\n", e.Position(), e.Error())
	}
}

// Details renders errs the way Print would, as a string.
func Details(errs List) string {
	var b strings.Builder
	Print(&b, errs)
	return b.String()
}
