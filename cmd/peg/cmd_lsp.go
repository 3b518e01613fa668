package main

import (
	"github.com/dhamidi/peg/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var flags grammarFlags

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server reporting match errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := flags.load()
			if err != nil {
				return err
			}
			server, err := lsp.NewServer(grammar, version)
			if err != nil {
				return err
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVarP(&flags.grammar, "grammar", "g", "", "EBNF grammar file")
	cmd.Flags().StringVarP(&flags.start, "start", "s", "", "start production")
	cmd.Flags().StringSliceVar(&flags.trivia, "trivia", nil, "productions skipped between tokens")

	return cmd
}
