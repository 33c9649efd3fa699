// Package ast declares the abstract syntax tree produced by rules/parser,
// mirroring the Expr sum type from spec §3: a closed set of node kinds
// switched over by the evaluator rather than an open visitor hierarchy
// (spec §9, "double dispatch over AST variants").
package ast

import "github.com/confrule/confrule/internal/token"

// A Node is any element of the tree. Every Node carries the source position
// of its first significant character.
type Node interface {
	Pos() token.Position
}

// An Expr is implemented by every node that can appear where a value or a
// query is expected.
type Expr interface {
	Node
	exprNode()
}

// A Clause is implemented by every node that can appear directly inside a
// Block's clause list.
type Clause interface {
	Node
	clauseNode()
}

func (*RuleClauseExpr) exprNode() {}
func (*WhenExpr) exprNode()       {}
func (*QueryExpr) exprNode()      {}
func (*BinaryOperation) exprNode() {}
func (*UnaryOperation) exprNode()  {}
func (*ArrayExpr) exprNode()       {}
func (*MapExpr) exprNode()         {}
func (*StringLit) exprNode()       {}
func (*RegexLit) exprNode()        {}
func (*BoolLit) exprNode()         {}
func (*IntLit) exprNode()          {}
func (*FloatLit) exprNode()        {}
func (*CharLit) exprNode()         {}
func (*RangeIntLit) exprNode()     {}
func (*RangeFloatLit) exprNode()   {}
func (*NullLit) exprNode()         {}
func (*Variable) exprNode()        {}
func (*VariableReference) exprNode() {}

func (*RuleClauseExpr) clauseNode()  {}
func (*WhenExpr) clauseNode()        {}
func (*BlockClauseExpr) clauseNode() {}
func (*BinaryOperation) clauseNode() {}
func (*UnaryOperation) clauseNode()  {}

// File is the root of one parsed rules document (spec §3).
type File struct {
	Name        string
	Assignments []*LetExpr
	Rules       []*RuleExpr
	Position    token.Position
}

func (f *File) Pos() token.Position { return f.Position }

// RuleExpr is a named, optionally parameterized and guarded rule.
type RuleExpr struct {
	Name         string
	Params       []string // declared formal parameter names, or nil
	Precondition Expr     // the rule-level `when` expression, or nil
	Block        *BlockExpr
	Position     token.Position
}

func (r *RuleExpr) Pos() token.Position { return r.Position }

// RuleClauseExpr invokes a named rule, optionally with positional
// arguments, as a clause inside another block (spec §4.5).
type RuleClauseExpr struct {
	Name     string
	Args     []Expr
	Message  string
	Position token.Position
}

func (c *RuleClauseExpr) Pos() token.Position { return c.Position }

// LetExpr binds Name to Value within the enclosing scope.
type LetExpr struct {
	Name     string
	Value    Expr
	Position token.Position
}

func (l *LetExpr) Pos() token.Position { return l.Position }

// WhenExpr is a precondition guard. Used at rule level it gates the whole
// rule; used as a Block clause it gates only the attached nested Block.
type WhenExpr struct {
	Precondition Expr
	Block        *BlockExpr // nil when used purely as a rule precondition
	Message      string
	Position     token.Position
}

func (w *WhenExpr) Pos() token.Position { return w.Position }

// BlockExpr is a brace-delimited body: local `let` assignments followed by
// conjoined clauses (spec §3, §6).
type BlockExpr struct {
	Assignments []*LetExpr
	Clauses     []Clause
	Position    token.Position
}

func (b *BlockExpr) Pos() token.Position { return b.Position }

// BlockClauseExpr selects a set of values with Select and evaluates Block
// against each one in a fresh scope (spec §4.5).
type BlockClauseExpr struct {
	Select   *QueryExpr
	Block    *BlockExpr
	Message  string
	Position token.Position
}

func (b *BlockClauseExpr) Pos() token.Position { return b.Position }

// SegmentKind identifies the shape of one Query path segment (spec §4.3).
type SegmentKind int

const (
	SegmentIdent SegmentKind = iota
	SegmentWildcard
	SegmentString
	SegmentIndex
	SegmentVariable
)

// FilterKind identifies the shape of a segment's trailing `[ ... ]` filter
// block, per spec §4.3.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterSelector                // a bare literal selector: string, int, *, or %name
	FilterCapture                  // a bare identifier capturing the matched key/index
	FilterPredicate                // a full predicate over the current element
	FilterCaptureAndPredicate       // `name | predicate`
)

// Segment is one dotted step of a Query.
type Segment struct {
	Kind SegmentKind

	Ident    string // SegmentIdent, SegmentString
	Variable string // SegmentVariable
	Index    int64  // SegmentIndex

	Filter         FilterKind
	FilterSelector Expr   // FilterSelector
	CaptureName    string // FilterCapture, FilterCaptureAndPredicate
	Predicate      Expr   // FilterPredicate, FilterCaptureAndPredicate

	Position token.Position
}

// Pos implements Node for Segment, so a failing segment can be reported
// directly as the offending AST node (spec §4.8).
func (s Segment) Pos() token.Position { return s.Position }

// QueryExpr is a non-empty, dot-joined sequence of Segments (spec §4.3).
type QueryExpr struct {
	Parts    []Segment
	Position token.Position
}

func (q *QueryExpr) Pos() token.Position { return q.Position }

// Operator enumerates every binary and unary comparison operator (spec
// §4.4).
type Operator int

const (
	OpEq Operator = iota
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
	OpIn

	OpExists
	OpEmpty
	OpIsString
	OpIsList
	OpIsMap
	OpIsInt
	OpIsFloat
	OpIsBool
	OpIsRegex

	OpAnd
	OpOr
)

func (op Operator) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpIn:
		return "in"
	case OpExists:
		return "exists"
	case OpEmpty:
		return "empty"
	case OpIsString:
		return "is_string"
	case OpIsList:
		return "is_list"
	case OpIsMap:
		return "is_map"
	case OpIsInt:
		return "is_int"
	case OpIsFloat:
		return "is_float"
	case OpIsBool:
		return "is_bool"
	case OpIsRegex:
		return "is_regex"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return "?"
	}
}

// BinaryOperation is an infix comparison, or an `and`/`or` conjunction of
// two sub-clauses (spec §4.4).
type BinaryOperation struct {
	Op       Operator
	LHS, RHS Expr
	Negate   bool
	Message  string
	Position token.Position
}

func (b *BinaryOperation) Pos() token.Position { return b.Position }

// UnaryOperation is a postfix type/existence predicate over Operand (spec
// §4.4).
type UnaryOperation struct {
	Op       Operator
	Operand  Expr
	Negate   bool
	Message  string
	Position token.Position
}

func (u *UnaryOperation) Pos() token.Position { return u.Position }

// ArrayExpr is a literal `[ ... ]` list of expressions.
type ArrayExpr struct {
	Elements []Expr
	Position token.Position
}

func (a *ArrayExpr) Pos() token.Position { return a.Position }

// MapEntry is one `key : value` pair in a MapExpr, in textual order.
type MapEntry struct {
	Key      string
	Value    Expr
	Position token.Position
}

// MapExpr is a literal `{ ... }` map. Duplicate keys overwrite earlier
// entries in place, per spec §4.2's "last value wins, insertion point
// retained".
type MapExpr struct {
	Entries  []MapEntry
	Position token.Position
}

func (m *MapExpr) Pos() token.Position { return m.Position }

// AddEntry appends an entry, applying the last-wins-in-place duplicate key
// policy shared with value.OrderedMap.
func (m *MapExpr) AddEntry(e MapEntry) {
	for i := range m.Entries {
		if m.Entries[i].Key == e.Key {
			m.Entries[i].Value = e.Value
			return
		}
	}
	m.Entries = append(m.Entries, e)
}

// StringLit is a single- or double-quoted string literal.
type StringLit struct {
	Value    string
	Position token.Position
}

func (s *StringLit) Pos() token.Position { return s.Position }

// RegexLit is a `/.../ `-delimited regular expression literal.
type RegexLit struct {
	Pattern  string
	Position token.Position
}

func (r *RegexLit) Pos() token.Position { return r.Position }

// BoolLit is a `true`/`false` literal.
type BoolLit struct {
	Value    bool
	Position token.Position
}

func (b *BoolLit) Pos() token.Position { return b.Position }

// IntLit is a signed integer literal.
type IntLit struct {
	Value    int64
	Position token.Position
}

func (i *IntLit) Pos() token.Position { return i.Position }

// FloatLit is a floating-point literal.
type FloatLit struct {
	Value    float64
	Position token.Position
}

func (f *FloatLit) Pos() token.Position { return f.Position }

// CharLit is a single-character literal.
type CharLit struct {
	Value    rune
	Position token.Position
}

func (c *CharLit) Pos() token.Position { return c.Position }

// RangeIntLit is an `r(lo, hi)`/`r[lo, hi]` integer range literal.
type RangeIntLit struct {
	Lower, Upper int64
	Mask         uint8 // value.Inclusivity bits
	Position     token.Position
}

func (r *RangeIntLit) Pos() token.Position { return r.Position }

// RangeFloatLit is a range literal with at least one floating-point
// endpoint.
type RangeFloatLit struct {
	Lower, Upper float64
	Mask         uint8
	Position     token.Position
}

func (r *RangeFloatLit) Pos() token.Position { return r.Position }

// NullLit is a `null` literal.
type NullLit struct {
	Position token.Position
}

func (n *NullLit) Pos() token.Position { return n.Position }

// Variable is a binder-position name: a `let` LHS or a declared rule
// parameter.
type Variable struct {
	Name     string
	Position token.Position
}

func (v *Variable) Pos() token.Position { return v.Position }

// VariableReference is a use-position `%name` reference.
type VariableReference struct {
	Name     string
	Position token.Position
}

func (v *VariableReference) Pos() token.Position { return v.Position }

// IsPureLiteral reports whether e is a primitive literal, or an ArrayExpr /
// MapExpr built entirely from pure literals (spec §3's "pure literal"
// classification, used by the variable resolver to decide whether a `let`
// RHS materializes as a literal AST reference rather than a computed or
// query-valued binding).
func IsPureLiteral(e Expr) bool {
	switch x := e.(type) {
	case *StringLit, *RegexLit, *BoolLit, *IntLit, *FloatLit, *CharLit,
		*RangeIntLit, *RangeFloatLit, *NullLit:
		return true
	case *ArrayExpr:
		for _, el := range x.Elements {
			if !IsPureLiteral(el) {
				return false
			}
		}
		return true
	case *MapExpr:
		for _, entry := range x.Entries {
			if !IsPureLiteral(entry.Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ContainsQuery reports whether e contains a QueryExpr anywhere in its
// subtree, used by the resolver to distinguish "computed" from
// "query-valued" bindings (spec §3, §4.6).
func ContainsQuery(e Expr) bool {
	switch x := e.(type) {
	case *QueryExpr:
		return true
	case *ArrayExpr:
		for _, el := range x.Elements {
			if ContainsQuery(el) {
				return true
			}
		}
		return false
	case *MapExpr:
		for _, entry := range x.Entries {
			if ContainsQuery(entry.Value) {
				return true
			}
		}
		return false
	case *BinaryOperation:
		return ContainsQuery(x.LHS) || ContainsQuery(x.RHS)
	case *UnaryOperation:
		return ContainsQuery(x.Operand)
	default:
		return false
	}
}
