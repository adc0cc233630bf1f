// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "telan",
	Short: "Telan: a tiny parenthesized expression language",
	Long: `Telan is a small interpreted language of parenthesized prefix
expressions.  Every value is a token (NUMBER, STRING, BOOL or IDENT) or a
quoted form, and every form is a call to a built-in or user-defined operator.

Getting started:
  telan run file.tln             Run a source file
  telan run -e '(+ 1 2)' -p      Evaluate an expression and print its value
  telan repl                     Start an interactive REPL
  telan doc setf                 Show documentation for an operator
  telan lint file.tln            Run static analysis checks

Language overview:
  Arguments are evaluated before the operator runs.  Prefix a form with '
  to pass it unevaluated; operators such as exec, while and setf evaluate
  quoted forms themselves.
  Operators are defined with (setf name min max '(TYPES) '(body)) and read
  their arguments with (get i).  Variables are global: (set x 1), (load x).

Settings may also be given in $HOME/.telan.yaml or as TELAN_ environment
variables, for example TELAN_MAX_DEPTH=500.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.telan.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log session details to stderr.")
	flags.String("color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	flags.String("diagnostics", "annotated",
		`Diagnostic style: "annotated" source snippets or "plain" one-line messages.`)
	flags.String("errors", "continue",
		`How operators treat ERROR arguments: "continue" or "propagate".`)
	flags.Int("max-depth", defaultMaxDepth,
		"Maximum depth of nested operator calls (0 for no limit).")
	flags.String("lexer", "scanner",
		`Tokenizer used to read source: "scanner" or "regex".`)
	flags.String("trace", "none",
		`Trace operator calls: "none", "otel", "opencensus", "callgrind", or "pprof".`)
	flags.String("trace-file", "",
		"Output file for callgrind and pprof traces.")
	flags.Bool("stack", false,
		"Follow plain diagnostics with the active call stack.")

	for _, name := range settingNames {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(LintCommand())
	rootCmd.AddCommand(DocCommand())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	initLogging()
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".telan" (without extension).
			viper.AddConfigPath(home)
			viper.SetConfigName(".telan")
		}
	}

	viper.SetEnvPrefix("telan")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func initLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}
