package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/confrule/confrule/eval"
	"github.com/confrule/confrule/report"
)

const (
	flagRules  = "rules"
	flagFormat = "format"
)

func addValidateFlags(f *pflag.FlagSet) {
	f.StringP(flagRules, "r", "", "path to the rules file (required)")
	f.String(flagFormat, "summary", "output format: summary, tree, json, yaml (summary implemented; others are peripheral renderers)")
}

func newValidateCmd(c *Command) *cobra.Command {
	cc := &cobra.Command{
		Use:   "validate [data files...]",
		Short: "validate data documents against a rules file",
		RunE:  mkRunE(c, runValidate),
	}
	addValidateFlags(cc.Flags())
	return cc
}

func runValidate(c *Command, args []string) error {
	rulesPath, err := c.Flags().GetString(flagRules)
	if err != nil {
		return err
	}
	if rulesPath == "" {
		return fmt.Errorf("validate: --rules is required")
	}
	if len(args) == 0 {
		return fmt.Errorf("validate: at least one data file is required")
	}

	file, err := loadRulesFile(rulesPath)
	if err != nil {
		return err
	}
	docs, err := loadDataFiles(args)
	if err != nil {
		return err
	}

	summary := report.NewSummary()
	opts := eval.DefaultOptions()
	anyFail := false
	for _, d := range docs {
		evaluator := eval.NewEvaluator(file, summary, d.Path, opts)
		results, err := evaluator.EvaluateDocument(d.Value)
		if err != nil {
			printError(c, err)
			return ErrPrintedError
		}
		for _, r := range results {
			if r.Status == report.Fail {
				anyFail = true
			}
		}
	}

	summary.Print(c.OutOrStdout(), getLang())
	if anyFail {
		return ErrPrintedError
	}
	return nil
}
