// Command regexvm is the command-line surface of the regex engine: it
// parses patterns, shows compiled instruction listings, matches inputs,
// and emits ahead-of-time compiled Go matchers.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/regexvm/regexvm/internal/logger"
	"github.com/regexvm/regexvm/internal/parser"
	"github.com/regexvm/regexvm/pkg/regexvm"
)

// errNoMatch distinguishes a no-match verdict (exit code 1) from pattern
// and usage errors (exit code 2).
var errNoMatch = errors.New("no match")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if errors.Is(err, errNoMatch) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "regexvm",
		Short:         "Regular expression engine: parse, compile, match, generate",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.Log = logger.NewConsoleLogger(true)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newParseCommand(),
		newCompileCommand(),
		newMatchCommand(),
		newFindCommand(),
		newGenCommand(),
	)
	return root
}

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <pattern>",
		Short: "Parse a pattern and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ast, err := parser.Parse(args[0])
			if err != nil {
				return err
			}
			parser.Dump(cmd.OutOrStdout(), ast)
			return nil
		},
	}
}

func newCompileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compile <pattern>",
		Short: "Compile a pattern and print its instruction listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := regexvm.Compile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), re.Program())
			return nil
		},
	}
}

func newMatchCommand() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "match <pattern> <input>",
		Short: "Match an input string against a pattern at position 0",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := regexvm.Compile(args[0])
			if err != nil {
				return err
			}
			matched := re.MatchString(args[1])
			if full {
				matched = re.MatchFullString(args[1])
			}
			if !matched {
				fmt.Fprintln(cmd.OutOrStdout(), "no match")
				return errNoMatch
			}
			fmt.Fprintln(cmd.OutOrStdout(), "match")
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "require the whole input to match")
	return cmd
}

func newFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <pattern> <input>",
		Short: "Find the leftmost match of a pattern in an input string",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := regexvm.Compile(args[0])
			if err != nil {
				return err
			}
			span := re.FindStringIndex(args[1])
			if span == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no match")
				return errNoMatch
			}
			runes := []rune(args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "[%d, %d) %q\n",
				span[0], span[1], string(runes[span[0]:span[1]]))
			return nil
		},
	}
}

func newGenCommand() *cobra.Command {
	var opts regexvm.Options

	cmd := &cobra.Command{
		Use:   "gen <pattern>",
		Short: "Emit a standalone Go matcher for a pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Pattern = args[0]
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			if err := regexvm.Generate(opts); err != nil {
				return err
			}
			logger.Log.Info("generated matcher")
			fmt.Fprintln(cmd.OutOrStdout(), opts.OutputFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Name, "name", "", "prefix for generated identifiers (required)")
	cmd.Flags().StringVar(&opts.Package, "package", "main", "package name for the generated file")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "", "output file path (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
