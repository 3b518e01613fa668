package main

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/dhamidi/peg/ebnf/parse"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

func newCheckCmd() *cobra.Command {
	var startProduction string
	var trivia []string

	cmd := &cobra.Command{
		Use:           "check <grammar>",
		Short:         "Parse and verify an EBNF grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			grammar, err := parse.LoadGrammar(filename)
			if err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return fmt.Errorf("%s: invalid grammar", filename)
			}

			if startProduction != "" {
				// Trivia is reachable only through the skipper.
				if err := ebnf.Verify(withTriviaRoot(grammar, startProduction, trivia), startProduction); err != nil {
					printErrors(cmd.ErrOrStderr(), err)
					return fmt.Errorf("%s: verification failed", filename)
				}
			}

			if _, err := parse.Compile(grammar, startProduction, parse.WithTrivia(trivia...)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d productions ok\n", filename, len(grammar))
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")
	cmd.Flags().StringSliceVar(&trivia, "trivia", nil, "productions skipped between tokens")

	return cmd
}

// withTriviaRoot returns a copy of g in which the trivia productions are
// reachable from start as optional suffixes of its body.
func withTriviaRoot(grammar ebnf.Grammar, start string, trivia []string) ebnf.Grammar {
	prod, ok := grammar[start]
	if !ok || len(trivia) == 0 {
		return grammar
	}

	g := make(ebnf.Grammar, len(grammar))
	for name, p := range grammar {
		g[name] = p
	}

	seq := ebnf.Sequence{prod.Expr}
	if prod.Expr == nil {
		seq = ebnf.Sequence{}
	}
	for _, name := range trivia {
		seq = append(seq, &ebnf.Option{Body: &ebnf.Name{StringPos: prod.Name.StringPos, String: name}})
	}
	g[start] = &ebnf.Production{Name: prod.Name, Expr: seq}
	return g
}

// printErrors prints the entries of an ebnf error list one per line.
func printErrors(w io.Writer, err error) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Fprintln(w, err)
}
