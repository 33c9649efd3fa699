package eval

import (
	"testing"

	"github.com/confrule/confrule/loader"
	"github.com/confrule/confrule/report"
	"github.com/confrule/confrule/rules/parser"
)

func evaluate(t *testing.T, rulesSrc, docSrc string) []RuleResult {
	t.Helper()
	f, errs := parser.ParseFile("rules.txt", []byte(rulesSrc))
	if len(errs) > 0 {
		t.Fatalf("ParseFile: %v", errs)
	}
	doc, err := loader.DecodeOne("data.yaml", []byte(docSrc))
	if err != nil {
		t.Fatalf("DecodeOne: %v", err)
	}
	ev := NewEvaluator(f, report.Discard{}, "data.yaml", DefaultOptions())
	results, err := ev.EvaluateDocument(doc)
	if err != nil {
		t.Fatalf("EvaluateDocument: %v", err)
	}
	return results
}

func statusOf(t *testing.T, results []RuleResult, name string) report.Status {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			return r.Status
		}
	}
	t.Fatalf("no result for rule %q in %v", name, results)
	return report.Skip
}

// TestScenarioS1WildcardTypeMatchPasses covers spec §8's S1.
func TestScenarioS1WildcardTypeMatchPasses(t *testing.T) {
	rules := `rule r { Resources.*.Type == 'AWS::S3::Bucket' }`
	doc := `
Resources:
  a: { Type: 'AWS::S3::Bucket' }
  b: { Type: 'AWS::S3::Bucket' }
`
	results := evaluate(t, rules, doc)
	if got := statusOf(t, results, "r"); got != report.Pass {
		t.Errorf("status = %v, want Pass", got)
	}
}

// TestScenarioS2MismatchedTypeFails covers spec §8's S2.
func TestScenarioS2MismatchedTypeFails(t *testing.T) {
	rules := `rule r { Resources.*.Type == 'AWS::S3::Bucket' }`
	doc := `
Resources:
  a: { Type: 'AWS::S3::Bucket' }
  b: { Type: 'AWS::EC2::Instance' }
`
	results := evaluate(t, rules, doc)
	if got := statusOf(t, results, "r"); got != report.Fail {
		t.Errorf("status = %v, want Fail", got)
	}
}

// TestScenarioS3InMembership covers spec §8's S3.
func TestScenarioS3InMembership(t *testing.T) {
	rules := `
let t = ['AWS::S3::Bucket','AWS::KMS::Key']
rule r { Resources.*.Type in %t }
`
	passDoc := `
Resources:
  a: { Type: 'AWS::S3::Bucket' }
  b: { Type: 'AWS::KMS::Key' }
`
	if got := statusOf(t, evaluate(t, rules, passDoc), "r"); got != report.Pass {
		t.Errorf("pass-case status = %v, want Pass", got)
	}

	failDoc := `
Resources:
  a: { Type: 'AWS::S3::Bucket' }
  b: { Type: 'AWS::IAM::Role' }
`
	if got := statusOf(t, evaluate(t, rules, failDoc), "r"); got != report.Fail {
		t.Errorf("fail-case status = %v, want Fail", got)
	}
}

// TestScenarioS4PreconditionGatesRule covers spec §8's S4: SKIP when no
// bucket exists, PASS when the one bucket's name matches, FAIL otherwise.
func TestScenarioS4PreconditionGatesRule(t *testing.T) {
	rules := `
rule r when %b not empty {
    %b.Properties.BucketName == /^prod-/
}
let b = Resources[ Type == 'AWS::S3::Bucket' ]
`
	noBuckets := `
Resources:
  a: { Type: 'AWS::EC2::Instance' }
`
	if got := statusOf(t, evaluate(t, rules, noBuckets), "r"); got != report.Skip {
		t.Errorf("no-bucket status = %v, want Skip", got)
	}

	matching := `
Resources:
  a: { Type: 'AWS::S3::Bucket', Properties: { BucketName: 'prod-x' } }
`
	if got := statusOf(t, evaluate(t, rules, matching), "r"); got != report.Pass {
		t.Errorf("matching-name status = %v, want Pass", got)
	}

	mismatched := `
Resources:
  a: { Type: 'AWS::S3::Bucket', Properties: { BucketName: 'dev-x' } }
`
	if got := statusOf(t, evaluate(t, rules, mismatched), "r"); got != report.Fail {
		t.Errorf("mismatched-name status = %v, want Fail", got)
	}
}

// TestScenarioS5RangeInclusivity covers spec §8's S5.
func TestScenarioS5RangeInclusivity(t *testing.T) {
	inclusive := `rule r { x in r[10, 20] }`
	for _, tc := range []struct {
		x    int
		want report.Status
	}{
		{10, report.Pass}, {15, report.Pass}, {20, report.Pass},
		{9, report.Fail}, {21, report.Fail},
	} {
		doc := "x: " + itoa(tc.x) + "\n"
		if got := statusOf(t, evaluate(t, inclusive, doc), "r"); got != tc.want {
			t.Errorf("r[10,20] vs x=%d: status = %v, want %v", tc.x, got, tc.want)
		}
	}

	exclusive := `rule r { x in r(10, 20) }`
	for _, x := range []int{10, 20} {
		doc := "x: " + itoa(x) + "\n"
		if got := statusOf(t, evaluate(t, exclusive, doc), "r"); got != report.Fail {
			t.Errorf("r(10,20) vs x=%d: status = %v, want Fail", x, got)
		}
	}
}

func itoa(x int) string {
	if x == 0 {
		return "0"
	}
	neg := x < 0
	if neg {
		x = -x
	}
	var buf [20]byte
	i := len(buf)
	for x > 0 {
		i--
		buf[i] = byte('0' + x%10)
		x /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// TestScenarioS6ShortFormTagEquivalence covers spec §8's S6: a rule querying
// through a CloudFormation short-form tag produces the same result whether
// the document was loaded from its YAML short form or its JSON long form.
func TestScenarioS6ShortFormTagEquivalence(t *testing.T) {
	rules := `rule r { Properties.Arn.'Fn::Sub' == 'arn:${X}' }`

	yamlDoc := "Properties:\n  Arn: !Sub 'arn:${X}'\n"
	jsonDoc := `{"Properties": {"Arn": {"Fn::Sub": "arn:${X}"}}}`

	yamlResults := evaluate(t, rules, yamlDoc)
	jsonResults := evaluate(t, rules, jsonDoc)

	if got := statusOf(t, yamlResults, "r"); got != report.Pass {
		t.Errorf("yaml status = %v, want Pass", got)
	}
	if got := statusOf(t, jsonResults, "r"); got != report.Pass {
		t.Errorf("json status = %v, want Pass", got)
	}
}

func TestScopeShadowingInnerLetWins(t *testing.T) {
	rules := `
let x = 1
rule r {
    let x = 2
    %x == 2
}
`
	if got := statusOf(t, evaluate(t, rules, "{}"), "r"); got != report.Pass {
		t.Errorf("status = %v, want Pass (inner let shadows outer)", got)
	}
}

func TestBlockClausePerElementScoping(t *testing.T) {
	rules := `
rule r {
    Resources.*[ Type == 'AWS::S3::Bucket' ] {
        Properties.BucketName exists
    }
}
`
	doc := `
Resources:
  a: { Type: 'AWS::S3::Bucket', Properties: { BucketName: 'x' } }
  b: { Type: 'AWS::EC2::Instance' }
`
	if got := statusOf(t, evaluate(t, rules, doc), "r"); got != report.Pass {
		t.Errorf("status = %v, want Pass (the non-bucket resource is filtered out before the block runs)", got)
	}
}

func TestMissingTraversalPrunesRatherThanErrors(t *testing.T) {
	rules := `rule r { Resources.missing.Type == 'x' }`
	doc := `Resources: { a: { Type: 'x' } }`
	results := evaluate(t, rules, doc)
	// The missing step prunes to an empty operand set rather than
	// erroring; with EmptyListIsVacuousTrue (the default) an empty operand
	// set PASSes vacuously rather than failing (spec §9 Open Question,
	// resolved in DefaultOptions).
	if got := statusOf(t, results, "r"); got != report.Pass {
		t.Errorf("status = %v, want Pass (vacuous truth over an empty operand set)", got)
	}
}

func TestWhenBlockClauseSkipsOnFalsePrecondition(t *testing.T) {
	rules := `
rule r {
    when Resources.a.Type == 'never-matches' {
        Resources.a.Type == 'AWS::S3::Bucket'
    }
}
`
	doc := `Resources: { a: { Type: 'AWS::S3::Bucket' } }`
	if got := statusOf(t, evaluate(t, rules, doc), "r"); got != report.Skip {
		t.Errorf("status = %v, want Skip", got)
	}
}

func TestRuleClauseWithPositionalArgs(t *testing.T) {
	rules := `
rule isBucket(t) {
    %t == 'AWS::S3::Bucket'
}
rule r {
    isBucket(Resources.a.Type)
}
`
	doc := `Resources: { a: { Type: 'AWS::S3::Bucket' } }`
	if got := statusOf(t, evaluate(t, rules, doc), "r"); got != report.Pass {
		t.Errorf("status = %v, want Pass", got)
	}
}

func TestValueIdempotentMaterializationOfQueryLet(t *testing.T) {
	// A query-valued let is resolved once per scope entry; evaluating it
	// twice in the same rule must not re-run traversal or change result.
	rules := `
let b = Resources[ Type == 'AWS::S3::Bucket' ]
rule r {
    %b not empty
    %b not empty
}
`
	doc := `Resources: { a: { Type: 'AWS::S3::Bucket' } }`
	if got := statusOf(t, evaluate(t, rules, doc), "r"); got != report.Pass {
		t.Errorf("status = %v, want Pass", got)
	}
}

// TestScenarioListQuantificationPasses covers spec §8 property 6: a List
// operand compared against a scalar quantifies over the List's elements.
func TestScenarioListQuantificationPasses(t *testing.T) {
	rules := `rule r { Tags == 'prod' }`
	doc := `Tags: ['prod', 'prod']`
	if got := statusOf(t, evaluate(t, rules, doc), "r"); got != report.Pass {
		t.Errorf("status = %v, want Pass (every element equals 'prod')", got)
	}
}

func TestScenarioListQuantificationFailsOnMixedElements(t *testing.T) {
	rules := `rule r { Tags == 'prod' }`
	doc := `Tags: ['prod', 'dev']`
	if got := statusOf(t, evaluate(t, rules, doc), "r"); got != report.Fail {
		t.Errorf("status = %v, want Fail (one element does not equal 'prod')", got)
	}
}

func TestScenarioEmptyListVacuouslyPassesComparison(t *testing.T) {
	rules := `rule r { Tags == 'prod' }`
	doc := `Tags: []`
	if got := statusOf(t, evaluate(t, rules, doc), "r"); got != report.Pass {
		t.Errorf("status = %v, want Pass (empty list satisfies every predicate vacuously)", got)
	}
}

func TestParseTypePredicateCaseInsensitive(t *testing.T) {
	rules := `rule r { Name IS_STRING }`
	doc := `Name: 'bucket'`
	if got := statusOf(t, evaluate(t, rules, doc), "r"); got != report.Pass {
		t.Errorf("status = %v, want Pass (IS_STRING folds the same way EXISTS/EMPTY already do)", got)
	}
}
