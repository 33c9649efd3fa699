// Package cmd implements the confrule CLI: validate, test, and migrate
// subcommands wrapping the rules/parser, loader, and eval packages, in the
// shape of cmd/cue/cmd's own cobra.Command tree (one newXCmd constructor per
// subcommand, a shared Command wrapper, and a mkRunE-style setup/teardown).
package cmd

import (
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/spf13/cobra"
)

// Command wraps a cobra.Command the way cmd/cue/cmd.Command does, so every
// subcommand shares one Stderr-tracks-exit-code convention instead of each
// one hand-rolling its own exit logic.
type Command struct {
	*cobra.Command
	root   *cobra.Command
	hasErr bool
}

type errWriter Command

func (w *errWriter) Write(b []byte) (int, error) {
	c := (*Command)(w)
	c.hasErr = len(b) > 0
	return c.Command.OutOrStderr().Write(b)
}

// Stderr returns a writer that marks the command as failed as a side effect
// of any write, so Run's exit code tracks whether anything was printed to
// it without every subcommand needing to set a flag explicitly.
func (c *Command) Stderr() io.Writer { return (*errWriter)(c) }

// ErrPrintedError indicates the error has already been rendered to Stderr,
// so Run's caller should not print it again.
var ErrPrintedError = fmt.Errorf("confrule: terminating because of errors")

type runFunction func(cmd *Command, args []string) error

// mkRunE adapts a runFunction to cobra's RunE signature, giving every
// subcommand a single place to hang shared setup (currently none needed,
// mirroring cmd/cue/cmd's mkRunE before CUE-specific profiling/stats hooks).
func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cc *cobra.Command, args []string) error {
		c.Command = cc
		return f(c, args)
	}
}

// New builds the top-level confrule command tree.
func New(args []string) *Command {
	root := &cobra.Command{
		Use:           "confrule",
		Short:         "confrule validates configuration documents against a rules file",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	c := &Command{Command: root, root: root}

	root.AddCommand(newValidateCmd(c))
	root.AddCommand(newTestCmd(c))
	root.AddCommand(newMigrateCmd(c))

	root.SetArgs(args)
	return c
}

// Run executes the parsed command tree.
func (c *Command) Run() error {
	if err := c.root.Execute(); err != nil {
		return err
	}
	if c.hasErr {
		return ErrPrintedError
	}
	return nil
}

func printError(c *Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(c.Stderr(), err)
}

// Main runs the confrule tool and returns the process exit code: 0 if every
// rule passed, 1 on any FAIL, and 2 on a parse failure, per spec §6's
// "exit code 0 on all-pass, non-zero on any FAIL, and a distinguished
// non-zero value on parse failure".
func Main() int {
	c := New(os.Args[1:])
	err := c.Run()
	switch {
	case err == nil:
		return 0
	case err == ErrPrintedError:
		return 1
	case isParseFailure(err):
		if !testing.Testing() {
			fmt.Fprintln(os.Stderr, err)
		}
		return 2
	default:
		if !testing.Testing() {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
}
