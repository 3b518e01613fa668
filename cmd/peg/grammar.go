package main

import (
	"errors"
	"fmt"

	"github.com/dhamidi/peg/ebnf/parse"
	"github.com/dhamidi/peg/project"
)

type grammarFlags struct {
	grammar string
	start   string
	trivia  []string
}

// load compiles the grammar named on the command line, falling back to
// the project configuration for anything left unset.
func (f *grammarFlags) load() (*parse.Grammar, error) {
	cfg := project.Config{Grammar: f.grammar, Start: f.start, Trivia: f.trivia}
	grammarPath := f.grammar

	if f.grammar == "" || f.start == "" {
		p, err := project.Load()
		switch {
		case errors.Is(err, project.ErrNoConfig) && f.grammar != "":
		case errors.Is(err, project.ErrNoConfig):
			return nil, fmt.Errorf("no grammar given and %w", err)
		case err != nil:
			return nil, err
		default:
			if cfg.Grammar == "" {
				cfg.Grammar = p.Config.Grammar
				grammarPath = p.GrammarPath()
			}
			if cfg.Start == "" {
				cfg.Start = p.Config.Start
			}
			if cfg.Trivia == nil {
				cfg.Trivia = p.Config.Trivia
			}
		}
	}

	if cfg.Start == "" {
		return nil, errors.New("no start production given")
	}

	log.Debugf("loading grammar %s (start %s, trivia %v)", grammarPath, cfg.Start, cfg.Trivia)
	return parse.Load(grammarPath, cfg.Start, parse.WithTrivia(cfg.Trivia...), parse.WithEOF())
}
