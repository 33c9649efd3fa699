// Package report defines the Reporter contract the evaluator invokes as it
// runs (spec §4.8): a pure event sink the engine's correctness never
// depends on, mirroring the teacher's own separation between CUE's
// evaluator and its diagnostic/tracing collaborators.
package report

import (
	"github.com/confrule/confrule/rules/ast"
	"github.com/confrule/confrule/value"
)

// Status is the three-valued evaluation outcome (spec §4.5).
type Status int

const (
	Pass Status = iota
	Fail
	Skip
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// MissingValue is reported when a query step fails because the key/index
// does not exist in a container of the expected kind (spec §4.8).
type MissingValue struct {
	Prefix   value.Value
	DataFile string
	Node     ast.Node
}

// MismatchTraversal is reported when a query step fails because the
// current value is of the wrong kind (e.g. an identifier segment applied
// to a List).
type MismatchTraversal struct {
	Prefix   value.Value
	DataFile string
	Node     ast.Node
}

// Evaluation is reported when a comparison completes.
type Evaluation struct {
	From     value.Value
	Op       ast.Operator
	Negate   bool
	To       value.Value
	DataFile string
	Node     ast.Node
	Result   Status
}

// Reporter receives evaluation events. Implementations must not block the
// caller indefinitely; a Reporter error propagates as an evaluation error
// (spec §4.8).
type Reporter interface {
	MissingValue(MissingValue) error
	MismatchTraversal(MismatchTraversal) error
	Evaluation(Evaluation) error
}

// Discard is a Reporter that drops every event, useful for callers that
// only need the final Status.
type Discard struct{}

func (Discard) MissingValue(MissingValue) error             { return nil }
func (Discard) MismatchTraversal(MismatchTraversal) error   { return nil }
func (Discard) Evaluation(Evaluation) error                 { return nil }
