// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/luthersystems/telan/telan"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Run telan code",
	Long: `Run telan code supplied via the command line or a file.

Sources are evaluated in order in a single environment, so variables and
operators defined by one source are visible to the next.  A structural
error (unbalanced parentheses) stops the run.  Runtime errors are reported
and evaluation continues.

Exit codes:
  0  All sources ran without errors
  1  An error was reported
  2  Bad invocation (invalid flags or settings)

Examples:
  telan run fib.tln
  telan run -e '(print (+ 1 2))'
  telan run -p -e '(concat "a" "b")'
  telan --diagnostics=plain --max-depth=100 run deep.tln`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := loadSettings()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		os.Exit(runSources(s, args, os.Stdin, os.Stdout, os.Stderr))
	},
}

// runSources evaluates args as files, or as expressions with -e, and returns
// the process exit code.
func runSources(s *settings, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	sess, err := newSession(s, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	code := 0
	for i, arg := range args {
		var v *telan.Value
		reported := sess.errors
		if runExpression {
			name := "<expr>"
			if len(args) > 1 {
				name = fmt.Sprintf("<expr%d>", i+1)
			}
			v, err = sess.load(name, arg)
		} else {
			v, err = sess.loadFile(arg)
		}
		if err != nil {
			if sess.errors == reported {
				fmt.Fprintln(stderr, err)
			}
			code = 1
			break
		}
		if runPrint {
			fmt.Fprintln(stdout, v)
		}
	}
	if sess.errors > 0 {
		code = 1
	}
	if err := sess.close(); err != nil {
		fmt.Fprintln(stderr, err)
		code = 1
	}
	return code
}

func init() {
	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as telan expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print the value of each source to stdout")
}
