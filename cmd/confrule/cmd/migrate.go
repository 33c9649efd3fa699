package cmd

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// legacySubstitutions maps pre-clause-language (1.0) keyword spellings to
// the modern grammar spec §6 describes, grounded in
// _examples/original_source/guard/src/commands/migrate.rs's token-for-token
// rewrite table. This is a peripheral, CLI-only text transform: spec §1
// explicitly places the legacy-to-modern rewriter outside THE CORE, and no
// core evaluation semantics depend on it.
var legacySubstitutions = map[string]string{
	"WHEN":         "when",
	"CHECK":        "",
	"EQUALS":       "==",
	"NOT_EQUALS":   "!=",
	"EQUAL":        "==",
	"NOT_EQUAL":    "!=",
	"GREATER_THAN": ">",
	"LESS_THAN":    "<",
	"EXISTS":       "exists",
	"EMPTY":        "empty",
	"IN":           "in",
}

func addMigrateFlags(f *pflag.FlagSet) {
	f.StringP(flagRules, "r", "", "path to the legacy rules file (required)")
	f.StringP("output", "o", "", "write migrated rules to this file instead of stdout")
}

func newMigrateCmd(c *Command) *cobra.Command {
	cc := &cobra.Command{
		Use:   "migrate",
		Short: "rewrite a legacy (pre-clause-language) rules file into the modern grammar",
		RunE:  mkRunE(c, runMigrate),
	}
	addMigrateFlags(cc.Flags())
	return cc
}

func runMigrate(c *Command, args []string) error {
	rulesPath, err := c.Flags().GetString(flagRules)
	if err != nil {
		return err
	}
	if rulesPath == "" {
		return fmt.Errorf("migrate: --rules is required")
	}
	out, err := c.Flags().GetString("output")
	if err != nil {
		return err
	}

	src, err := os.ReadFile(rulesPath)
	if err != nil {
		printError(c, err)
		return ErrPrintedError
	}

	migrated, err := migrateLegacyText(string(src))
	if err != nil {
		printError(c, err)
		return ErrPrintedError
	}

	if out == "" {
		fmt.Fprint(c.OutOrStdout(), migrated)
		return nil
	}
	if err := os.WriteFile(out, []byte(migrated), 0o644); err != nil {
		printError(c, err)
		return ErrPrintedError
	}
	return nil
}

// migrateLegacyText rewrites one legacy rules document line by line. Each
// line is tokenized with shlex purely to discover which bare words are
// legacy keywords (shlex understands quoting well enough that a keyword
// spelled inside a string or regex literal is never surfaced as its own
// token); each discovered keyword is then substituted in place in the
// original line text via a word-boundary match, so quoted string and regex
// literals are never touched. Lines shlex cannot tokenize (unbalanced
// quotes) pass through unchanged so a best-effort migration never loses
// content.
func migrateLegacyText(src string) (string, error) {
	var out strings.Builder
	for _, line := range strings.Split(src, "\n") {
		out.WriteString(migrateLegacyLine(line))
		out.WriteByte('\n')
	}
	return out.String(), nil
}

func migrateLegacyLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return line
	}
	tokens, err := shlex.Split(line)
	if err != nil {
		return line
	}
	out := line
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		if repl, ok := legacySubstitutions[tok]; ok {
			out = replaceWord(out, tok, repl)
			seen[tok] = true
		}
	}
	return out
}

// replaceWord replaces every whole-word occurrence of word in s with repl.
func replaceWord(s, word, repl string) string {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	return re.ReplaceAllString(s, repl)
}
