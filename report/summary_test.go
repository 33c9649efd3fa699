package report

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kr/pretty"
	"golang.org/x/text/language"

	"github.com/confrule/confrule/internal/token"
	"github.com/confrule/confrule/rules/ast"
	"github.com/confrule/confrule/value"
)

func TestSummaryCountsEvaluations(t *testing.T) {
	s := NewSummary()
	node := &ast.BinaryOperation{Op: ast.OpEq, Position: token.NoPos}

	must(t, s.Evaluation(Evaluation{Result: Pass, Node: node}))
	must(t, s.Evaluation(Evaluation{Result: Pass, Node: node}))
	must(t, s.Evaluation(Evaluation{
		Result: Fail, Node: node, DataFile: "data.yaml",
		From: value.String(token.NoPos, "a"), Op: ast.OpEq, To: value.String(token.NoPos, "b"),
	}))
	must(t, s.Evaluation(Evaluation{Result: Skip, Node: node}))

	want := struct{ Pass, Fail, Skip int }{2, 1, 1}
	got := struct{ Pass, Fail, Skip int }{s.Pass, s.Fail, s.Skip}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	if got := s.Overall(); got != Fail {
		t.Errorf("Overall() = %v, want Fail (one failing evaluation)", got)
	}
}

func TestSummaryPassOverallWhenNoFailures(t *testing.T) {
	s := NewSummary()
	node := &ast.UnaryOperation{Op: ast.OpExists, Position: token.NoPos}
	must(t, s.Evaluation(Evaluation{Result: Pass, Node: node}))
	must(t, s.Evaluation(Evaluation{Result: Skip, Node: node}))
	if got := s.Overall(); got != Pass {
		t.Errorf("Overall() = %v, want Pass", got)
	}
}

func TestSummaryPrintDeduplicatesLines(t *testing.T) {
	s := NewSummary()
	node := &ast.BinaryOperation{Op: ast.OpEq, Position: token.NoPos}
	ev := Evaluation{
		Result: Fail, Node: node, DataFile: "data.yaml",
		From: value.String(token.NoPos, "a"), Op: ast.OpEq, To: value.String(token.NoPos, "b"),
	}
	must(t, s.Evaluation(ev))
	must(t, s.Evaluation(ev)) // identical failure reported twice

	var buf bytes.Buffer
	s.Print(&buf, language.English)
	out := buf.String()

	const wantLine = `data.yaml: FAIL at -: "a" == "b"`
	if got := countOccurrences(out, wantLine); got != 1 {
		t.Errorf("Print output contains %d copies of the failure line, want 1 (deduplicated); full output:\n%s\ndiff against pretty-printed event: %s",
			got, out, pretty.Sprint(ev))
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func countOccurrences(s, substr string) int {
	n := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			n++
			i += len(substr) - 1
		}
	}
	return n
}
