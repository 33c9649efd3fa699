package eval

// Options configures the evaluator's resolution of spec §9's Open
// Questions. Each defaults to the behavior SPEC_FULL.md settled on; a
// caller that needs the alternative reading can flip the corresponding
// field.
type Options struct {
	// EmptyListIsVacuousTrue makes a universally-quantified predicate over
	// an empty selector result PASS rather than SKIP, matching CUE's own
	// "a comprehension over nothing produces the unit value" convention
	// for structural iteration. Default true.
	EmptyListIsVacuousTrue bool

	// EmptyQuerySkips makes a BlockClause whose Select yields no values
	// produce SKIP (rather than PASS). The nested block is not inspected,
	// so an EMPTY clause inside it does not change the outcome. Default
	// true.
	EmptyQuerySkips bool

	// ImplicitAndIsBlockScoped records the reading in which the clause list
	// inside a Block is an implicit top-level `and` across whole clauses.
	// Neither the parser nor the evaluator reads this field: adjacent
	// clauses always conjoin, whatever its value. Default true.
	ImplicitAndIsBlockScoped bool
}

// DefaultOptions returns the Options SPEC_FULL.md's Open Questions section
// settled on.
func DefaultOptions() Options {
	return Options{
		EmptyListIsVacuousTrue:   true,
		EmptyQuerySkips:          true,
		ImplicitAndIsBlockScoped: true,
	}
}
