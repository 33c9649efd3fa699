package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/confrule/confrule/eval"
	"github.com/confrule/confrule/internal/errors"
	"github.com/confrule/confrule/internal/token"
	"github.com/confrule/confrule/loader"
	"github.com/confrule/confrule/report"
)

// testFixture pairs a rules file with data documents and the expected
// per-rule Status for each, per SPEC_FULL.md's "test command semantics"
// supplement (grounded in guard/src/commands/test.rs): `test`, unlike
// `validate`, reports pass/fail of the *expectations*, not of the rules.
type testFixture struct {
	Rules string                  `yaml:"rules" json:"rules"`
	Cases []testCase              `yaml:"cases" json:"cases"`
}

type testCase struct {
	Data   string            `yaml:"data" json:"data"`
	Expect map[string]string `yaml:"expect" json:"expect"`
}

func newTestCmd(c *Command) *cobra.Command {
	return &cobra.Command{
		Use:   "test [fixture files...]",
		Short: "run rule-evaluation fixtures and report expectation pass/fail",
		RunE:  mkRunE(c, runTest),
	}
}

func runTest(c *Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("test: at least one fixture file is required")
	}

	total, failed := 0, 0
	for _, fixturePath := range args {
		n, f, err := runFixture(c, fixturePath)
		if err != nil {
			return err
		}
		total += n
		failed += f
	}

	fmt.Fprintf(c.OutOrStdout(), "%d expectation(s) checked, %d failed\n", total, failed)
	if failed > 0 {
		return ErrPrintedError
	}
	return nil
}

func runFixture(c *Command, fixturePath string) (total, failed int, err error) {
	src, err := os.ReadFile(fixturePath)
	if err != nil {
		return 0, 0, errors.Newf(errors.IO, posOf(fixturePath), "%v", err)
	}
	fixture, err := decodeFixture(fixturePath, src)
	if err != nil {
		return 0, 0, err
	}

	file, err := loadRulesFile(relativeTo(fixturePath, fixture.Rules))
	if err != nil {
		return 0, 0, err
	}

	for _, cs := range fixture.Cases {
		docSrc, rerr := os.ReadFile(relativeTo(fixturePath, cs.Data))
		if rerr != nil {
			return total, failed, errors.Newf(errors.IO, posOf(cs.Data), "%v", rerr)
		}
		doc, derr := loader.DecodeOne(cs.Data, docSrc)
		if derr != nil {
			return total, failed, errors.Newf(errors.Parse, posOf(cs.Data), "%v", derr)
		}

		evaluator := eval.NewEvaluator(file, report.Discard{}, cs.Data, eval.DefaultOptions())
		results, eerr := evaluator.EvaluateDocument(doc)
		if eerr != nil {
			return total, failed, eerr
		}
		byName := make(map[string]report.Status, len(results))
		for _, r := range results {
			byName[r.Name] = r.Status
		}

		for ruleName, wantStr := range cs.Expect {
			total++
			want, ok := parseStatus(wantStr)
			if !ok {
				return total, failed, fmt.Errorf("test: %s: unknown expected status %q for rule %q", fixturePath, wantStr, ruleName)
			}
			got, ok := byName[ruleName]
			if !ok {
				failed++
				fmt.Fprintf(c.OutOrStdout(), "FAIL %s: rule %q did not run against %s\n", fixturePath, ruleName, cs.Data)
				continue
			}
			if got != want {
				failed++
				fmt.Fprintf(c.OutOrStdout(), "FAIL %s: rule %q against %s: want %s, got %s\n", fixturePath, ruleName, cs.Data, want, got)
			}
		}
	}
	return total, failed, nil
}

// decodeFixture parses a test fixture, which is itself a small YAML/JSON
// document (gopkg.in/yaml.v3 handles both, matching the loader's own
// YAML-superset-of-JSON convention).
func decodeFixture(path string, src []byte) (*testFixture, error) {
	var f testFixture
	if err := yaml.Unmarshal(src, &f); err != nil {
		return nil, errors.Newf(errors.Parse, posOf(path), "invalid test fixture: %v", err)
	}
	return &f, nil
}

// relativeTo resolves a fixture-relative path against the directory holding
// the fixture file itself, so fixtures can be run from any working
// directory.
func relativeTo(fixturePath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(fixturePath), path)
}

func posOf(path string) token.Position { return token.Position{Filename: path} }

func parseStatus(s string) (report.Status, bool) {
	switch s {
	case "PASS":
		return report.Pass, true
	case "FAIL":
		return report.Fail, true
	case "SKIP":
		return report.Skip, true
	default:
		return 0, false
	}
}
