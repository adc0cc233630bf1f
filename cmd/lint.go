// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luthersystems/telan/diagnostic"
	"github.com/luthersystems/telan/lint"
)

// LintCommand returns the lint command.  Options allow an embedding program
// to make its own operators known to the unknown-command and arity checks.
func LintCommand(opts ...Option) *cobra.Command {
	var (
		jsonOut  bool
		checks   string
		listAll  bool
		excludes []string
	)
	cfg := newCmdConfig(opts...)
	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Run static analysis checks on telan source files",
		Long: `Run static analysis checks on telan source files.

The linter reports likely mistakes in telan code, similar to "go vet" for Go.
Each check is an independent analyzer that examines the parsed tree and
reports diagnostics.

With no files, reads from stdin. With files, analyzes each file and reports
all findings to stderr.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable or unbalanced files)

To suppress diagnostics on a line, put a comment on the line above it:
  # nolint:unknown-command
  (helper 1)

A bare "# nolint" suppresses all checks on the next line.

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `
Examples:
  telan lint file.tln                           # Lint a single file
  telan lint *.tln                              # Lint multiple files
  telan lint --json file.tln                    # Output diagnostics as JSON
  telan lint --checks=while-unquoted file.tln   # Run only specific checks
  telan lint --list                             # List available checks
  telan lint --exclude='vendor' ./...           # Exclude a directory
  cat file.tln | telan lint                     # Lint from stdin`,
		Run: func(cmd *cobra.Command, args []string) {
			if listAll {
				for _, name := range lint.AnalyzerNames() {
					fmt.Println(name)
				}
				return
			}
			s, err := loadSettings()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			analyzers, err := selectAnalyzers(checks)
			if err != nil {
				fmt.Fprintf(os.Stderr, "telan lint: %v\n", err)
				os.Exit(2)
			}
			l := &lint.Linter{
				Analyzers: analyzers,
				Reader:    s.reader(),
				Builtins:  cfg.resolveBuiltins(),
			}

			var diags []lint.Diagnostic
			if len(args) == 0 {
				diags, err = lintStdin(l)
			} else {
				diags, err = lintPaths(l, args, excludes)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			if len(diags) == 0 {
				return
			}
			if jsonOut {
				err = lint.FormatJSON(os.Stdout, diags)
			} else {
				err = renderLintDiagnostics(os.Stderr, &diagnostic.Renderer{Color: s.Color}, diags)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			os.Exit(1)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().StringVar(&checks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	cmd.Flags().BoolVar(&listAll, "list", false,
		"List available checks and exit.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

// selectAnalyzers returns the default analyzers named in the comma-separated
// list checks, or all of them when checks is empty.
func selectAnalyzers(checks string) ([]*lint.Analyzer, error) {
	analyzers := lint.DefaultAnalyzers()
	if checks == "" {
		return analyzers, nil
	}
	selected := make(map[string]bool)
	for _, name := range strings.Split(checks, ",") {
		selected[strings.TrimSpace(name)] = true
	}
	var filtered []*lint.Analyzer
	for _, a := range analyzers {
		if selected[a.Name] {
			filtered = append(filtered, a)
			delete(selected, a.Name)
		}
	}
	if len(selected) > 0 {
		unknown := make([]string, 0, len(selected))
		for name := range selected {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown check: %s", strings.Join(unknown, ", "))
	}
	return filtered, nil
}

func lintStdin(l *lint.Linter) ([]lint.Diagnostic, error) {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return l.LintFile(src, "<stdin>")
}

func lintPaths(l *lint.Linter, args []string, excludes []string) ([]lint.Diagnostic, error) {
	paths, err := expandArgs(args, excludes)
	if err != nil {
		return nil, err
	}
	var all []lint.Diagnostic
	for _, path := range paths {
		diags, err := lintFile(l, path)
		if err != nil {
			return nil, err
		}
		all = append(all, diags...)
	}
	return all, nil
}

func lintFile(l *lint.Linter, path string) ([]lint.Diagnostic, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l.LintFile(src, path)
}
