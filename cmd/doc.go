// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/docs"
	"github.com/luthersystems/telan/parser"
)

// DocCommand returns the doc command.  Options allow an embedding program to
// document its own operators.
func DocCommand(opts ...Option) *cobra.Command {
	var (
		sourceFile string
		listAll    bool
		guide      bool
	)
	cfg := newCmdConfig(opts...)
	cmd := &cobra.Command{
		Use:   "doc [flags] [OPERATOR...]",
		Short: "Show documentation for telan operators",
		Long: `Show the signature and description of telan operators.

With no arguments, or with -l, lists every built-in operator with a one-line
summary.  Use -f to load a source file first so that operators it defines
with setf can be looked up too.

Signatures show the type of each argument.  Optional arguments are in
brackets and an unbounded argument list ends with "...".

Examples:
  telan doc                      List built-in operators
  telan doc setf while           Show docs for setf and while
  telan doc -f lib.tln square    Load a file, then show its square operator
  telan doc --guide              Print the language reference`,
		Run: func(cmd *cobra.Command, args []string) {
			if guide {
				fmt.Print(docs.LangGuide)
				return
			}
			env, err := docEnv(cfg, sourceFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			out := bufio.NewWriter(os.Stdout)
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			if listAll || len(args) == 0 {
				err = docList(out, env)
			} else {
				err = docExec(out, env, args)
			}
			if err != nil {
				out.Flush() //nolint:errcheck,gosec // flush before reporting
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVarP(&sourceFile, "source-file", "f", "",
		"Evaluate a telan source file before querying documentation.")
	cmd.Flags().BoolVarP(&listAll, "list", "l", false,
		"List all built-in operators with a summary.")
	cmd.Flags().BoolVar(&guide, "guide", false,
		"Print the language reference.")
	return cmd
}

// docEnv returns the environment queried for documentation, after loading
// sourceFile if it is not empty.
func docEnv(cfg *cmdConfig, sourceFile string) (*telan.Env, error) {
	env := cfg.env
	if env == nil {
		// environment output is discarded but a buffer is kept in case
		// loading the source file fails.
		errbuf := &bytes.Buffer{}
		var err error
		env, err = telan.NewEnv(
			telan.WithReader(parser.NewReader()),
			telan.WithOperators(cfg.resolveBuiltins().Operators()...),
			telan.WithStdin(strings.NewReader("")),
			telan.WithStdout(io.Discard),
			telan.WithStderr(errbuf),
		)
		if err != nil {
			return nil, err
		}
		defer func() {
			if errbuf.Len() > 0 {
				_, _ = os.Stderr.Write(errbuf.Bytes())
			}
		}()
	}
	if sourceFile != "" {
		if _, err := env.LoadFile(sourceFile); err != nil {
			return nil, err
		}
	}
	return env, nil
}

// docList writes the signature and summary of every built-in operator.
func docList(w io.Writer, env *telan.Env) error {
	builtins := env.Builtins()
	for _, name := range builtins.Names() {
		op, _ := builtins.Resolve(name)
		_, err := fmt.Fprintf(w, "%-40s %s\n", op.Signature(), docSummary(op.Doc))
		if err != nil {
			return err
		}
	}
	return nil
}

// docExec writes the documentation of each named operator.
func docExec(w io.Writer, env *telan.Env, names []string) error {
	for i, name := range names {
		op, ok := env.Resolve(name)
		if !ok {
			return fmt.Errorf("no operator named %s", name)
		}
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := renderOperator(w, op); err != nil {
			return err
		}
	}
	return nil
}

func renderOperator(w io.Writer, op *telan.Operator) error {
	kind := "builtin"
	if op.User {
		kind = "operator"
	}
	_, err := fmt.Fprintf(w, "%s %s\n", kind, op.Signature())
	if err != nil {
		return fmt.Errorf("rendering signature: %w", err)
	}
	if doc := cleanDoc(op.Doc); doc != "" {
		_, err = fmt.Fprintln(w, doc)
	}
	return err
}

// cleanDoc reflows doc to the terminal width used by help output.
func cleanDoc(doc string) string {
	doc = strings.Join(strings.Fields(doc), " ")
	if doc == "" {
		return ""
	}
	doc = indent.String(wordwrap.String(doc, 72), 2)
	return strings.TrimSuffix(doc, "\n")
}

// docSummary returns the first sentence of doc.
func docSummary(doc string) string {
	doc = strings.Join(strings.Fields(doc), " ")
	if i := strings.Index(doc, ". "); i >= 0 {
		return doc[:i+1]
	}
	return doc
}
