// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive telan REPL",
	Long: `Start an interactive read-eval-print loop for telan.

Line editing, completion of operator and variable names, and command
history are supported via readline.  An entry with open parentheses
continues on the next line.  Use Ctrl-D to exit and Ctrl-C to discard the
current entry.

Example REPL session:
  telan> (+ 1 2)
  3
  telan> (setf square 1 1 '(NUMBER) '(* (get 0) (get 0)))
  NULL
  telan> (square
           5)
  25
  telan> (concat "a" 1)
  "a1"`,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := loadSettings()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		opts := []repl.Option{
			repl.WithTokenizer(s.Tokenizer),
			repl.WithColor(s.Color),
			repl.WithEnvConfig(
				telan.WithMaximumDepth(s.MaxDepth),
				telan.WithErrorMode(s.ErrorMode),
			),
		}
		if s.Plain {
			opts = append(opts, repl.WithPlainDiagnostics())
		}
		repl.RunRepl(filepath.Base(os.Args[0])+"> ", opts...)
	},
}
