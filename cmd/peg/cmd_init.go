package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/peg/project"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var cfg project.Config
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a .peg.yaml project configuration",
		Long: `Write a .peg.yaml project configuration.

Examples:
  peg init --grammar json.ebnf --start Value
  peg init --grammar let.ebnf --start Program --trivia whitespace --sources '**/*.let' examples/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if cfg.Grammar == "" {
				return errors.New("--grammar is required")
			}

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			configPath := filepath.Join(dir, project.ConfigFile)
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}

			if err := project.Write(configPath, cfg); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfg.Grammar, "grammar", "g", "", "EBNF grammar file, relative to the project root")
	cmd.Flags().StringVarP(&cfg.Start, "start", "s", "", "start production")
	cmd.Flags().StringSliceVar(&cfg.Trivia, "trivia", nil, "productions skipped between tokens")
	cmd.Flags().StringSliceVar(&cfg.Sources, "sources", nil, "glob patterns of input files")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration")

	return cmd
}
