package report

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/confrule/confrule/internal/dedup"
	"github.com/confrule/confrule/value"
)

// Summary is a Reporter that accumulates one evaluation run's events and
// renders a deduplicated, pluralized human summary, the way cmd/cue/cmd's
// root.go wraps golang.org/x/text/message around its own pass/fail counts
// rather than hand-rolling locale-aware number formatting.
type Summary struct {
	Pass, Fail, Skip int

	lines []string
}

// NewSummary returns an empty Summary ready to receive events.
func NewSummary() *Summary { return &Summary{} }

func (s *Summary) MissingValue(e MissingValue) error {
	s.lines = append(s.lines, fmt.Sprintf("%s: missing value at %s (looking in %s)",
		e.DataFile, e.Node.Pos(), renderValue(e.Prefix)))
	return nil
}

func (s *Summary) MismatchTraversal(e MismatchTraversal) error {
	s.lines = append(s.lines, fmt.Sprintf("%s: cannot traverse %s at %s",
		e.DataFile, renderValue(e.Prefix), e.Node.Pos()))
	return nil
}

func (s *Summary) Evaluation(e Evaluation) error {
	switch e.Result {
	case Pass:
		s.Pass++
	case Fail:
		s.Fail++
		s.lines = append(s.lines, fmt.Sprintf("%s: %s at %s: %s %s %s",
			e.DataFile, Fail, e.Node.Pos(), renderValue(e.From), renderOp(e.Op, e.Negate), renderValue(e.To)))
	case Skip:
		s.Skip++
	}
	return nil
}

// Print writes the deduplicated diagnostic lines followed by a pluralized
// pass/fail/skip count, written through a message.Printer for lang. The
// counts are formatted with fmt before they reach the printer, so digits
// are not localized.
func (s *Summary) Print(w io.Writer, lang language.Tag) {
	p := message.NewPrinter(lang)
	for _, l := range dedup.Unique(s.lines) {
		fmt.Fprintln(w, l)
	}
	p.Fprintf(w, "%s, %s, %s\n", plural(s.Pass, "rule passed", "rules passed"),
		plural(s.Fail, "rule failed", "rules failed"), plural(s.Skip, "rule skipped", "rules skipped"))
}

// Overall reports FAIL if any reported comparison event failed, otherwise
// PASS. Comparisons inside query filters and when-guards are counted too,
// so this is not the same as "some rule failed".
func (s *Summary) Overall() Status {
	if s.Fail > 0 {
		return Fail
	}
	return Pass
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}

func renderOp(op interface{ String() string }, negate bool) string {
	if negate {
		return "not " + op.String()
	}
	return op.String()
}

// renderValue renders v for diagnostic output. It is deliberately terse
// rather than a full pretty-printer; github.com/kr/pretty covers the
// structural-dump case in tests.
func renderValue(v value.Value) string {
	switch v.Kind() {
	case value.KindNull:
		return "null"
	case value.KindBool:
		return fmt.Sprintf("%v", v.BoolValue())
	case value.KindInt:
		return fmt.Sprintf("%d", v.IntValue())
	case value.KindFloat:
		return fmt.Sprintf("%v", v.FloatValue())
	case value.KindChar:
		return fmt.Sprintf("%q", v.CharValue())
	case value.KindString:
		return fmt.Sprintf("%q", v.StringValue())
	case value.KindRegex:
		return fmt.Sprintf("/%s/", v.StringValue())
	case value.KindRangeInt, value.KindRangeFloat:
		lo, hi, _ := v.RangeBounds()
		return fmt.Sprintf("r(%v,%v)", lo, hi)
	case value.KindList:
		return fmt.Sprintf("[%d elements]", len(v.ListValues()))
	case value.KindMap:
		return fmt.Sprintf("{%d entries}", v.MapValue().Len())
	case value.KindBad:
		return fmt.Sprintf("<bad: %s>", v.StringValue())
	default:
		return "<?>"
	}
}
