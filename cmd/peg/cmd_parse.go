package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhamidi/peg/format"
	"github.com/dhamidi/peg/project"
	"github.com/dhamidi/peg/rules"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("peg")

func newParseCmd() *cobra.Command {
	var flags grammarFlags
	var outputFormat string
	var trace bool

	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Match files against a grammar and print their syntax trees",
		Long: `Match files against a grammar and print their syntax trees.

The grammar, start production and trivia come from the flags, or from the
.peg.yaml in the current directory or one of its parents. Without file
arguments, every source file of that project is matched.

On failure the furthest error is printed with its position and the command
exits with a non-zero status.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := flags.load()
			if err != nil {
				return err
			}

			files := args
			if len(files) == 0 {
				p, err := project.Load()
				if err != nil {
					return fmt.Errorf("no input files: %w", err)
				}
				if files, err = p.SourceFiles(); err != nil {
					return err
				}
				log.Infof("matching %d source files under %s", len(files), p.RootDir)
			}

			var opts []rules.MatchOption
			if trace {
				opts = append(opts, rules.WithTracer(&logTracer{log: commonlog.GetLogger("peg.trace")}))
			}

			failed := 0
			for _, filename := range files {
				data, err := os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				source := string(data)

				var encoder format.Encoder
				switch outputFormat {
				case "tree":
					encoder = format.NewTreeEncoder(cmd.OutOrStdout())
				case "json":
					encoder = format.NewJSONEncoder(cmd.OutOrStdout(), source)
				default:
					return fmt.Errorf("unknown format: %s", outputFormat)
				}

				res, err := grammar.Match(source, opts...)
				if err != nil {
					fmt.Fprint(cmd.ErrOrStderr(), format.Diagnostic(filename, source, err))
					failed++
					continue
				}

				if len(files) > 1 && outputFormat == "tree" {
					fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", filename)
				}
				if err := encoder.Encode(res); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files did not match", failed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.grammar, "grammar", "g", "", "EBNF grammar file")
	cmd.Flags().StringVarP(&flags.start, "start", "s", "", "start production")
	cmd.Flags().StringSliceVar(&flags.trivia, "trivia", nil, "productions skipped between tokens")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")
	cmd.Flags().BoolVar(&trace, "trace", false, "log every named rule entered and exited at debug level")

	return cmd
}

// logTracer writes rule entry and exit to a logger, indented by depth.
type logTracer struct {
	log   commonlog.Logger
	depth int
}

func (t *logTracer) Enter(rule *rules.Named, offset int) {
	t.log.Debugf("%s> %s @%d", strings.Repeat("  ", t.depth), rule.Name(), offset)
	t.depth++
}

func (t *logTracer) Exit(rule *rules.Named, offset int, err *rules.RuleError) {
	t.depth--
	indent := strings.Repeat("  ", t.depth)
	if err != nil {
		t.log.Debugf("%s< %s failed: %s", indent, rule.Name(), err)
		return
	}
	t.log.Debugf("%s< %s @%d", indent, rule.Name(), offset)
}
