// Package cli implements the convcompare command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// exitError carries an exit code out of a command. An empty message means
// the command already reported the problem.
type exitError struct {
	code    int
	message string
}

func (e *exitError) Error() string {
	return e.message
}

func usageErrorf(format string, args ...any) error {
	return &exitError{code: ExitUsage, message: fmt.Sprintf(format, args...)}
}

func failf(format string, args ...any) error {
	return &exitError{code: ExitError, message: fmt.Sprintf(format, args...)}
}

// globalOptions holds flags shared by every command.
type globalOptions struct {
	specPath string
	noColor  bool
	logLevel string
}

// Run executes the CLI and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return ExitOK
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.message != "" {
			fmt.Fprintln(stderr, exit.message)
		}
		if exit.code == ExitUsage {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.Name())
		}
		return exit.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintln(stderr)
		_ = root.Usage()
		return ExitUsage
	}
	return ExitError
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "convcompare",
		Short:         "Compare chat-server AI replies across configurations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return &exitError{code: ExitUsage}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&opts.specPath, "spec", "", "Path to config file (default: search for .convcompare/config.yml, then the built-in catalog)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colors")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Diagnostic log level (debug|info|warn|error)")

	root.AddCommand(
		newInitCommand(opts),
		newValidateCommand(opts),
		newRunCommand(opts),
		newReportCommand(opts),
		newScenariosCommand(opts),
		newEvalCommand(opts),
		newServeCommand(opts),
	)
	return root
}

// exactArgs wraps cobra.ExactArgs so argument errors map to ExitUsage.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageErrorf("%v", err)
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("unexpected arguments: %s", strings.Join(args, " "))
	}
	return nil
}
