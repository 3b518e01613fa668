// Package project loads the .peg.yaml configuration describing which
// grammar to use and which files it applies to.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dhamidi/peg/ebnf/parse"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the project configuration file.
const ConfigFile = ".peg.yaml"

// ErrNoConfig is returned when no configuration file is found.
var ErrNoConfig = errors.New("no " + ConfigFile + " found")

// Config is the contents of a .peg.yaml file.
type Config struct {
	Grammar string   `yaml:"grammar"`
	Start   string   `yaml:"start"`
	Trivia  []string `yaml:"trivia,omitempty"`
	Sources []string `yaml:"sources,omitempty"` // slash-separated globs, "**/" matches any directory
}

// Project is a directory tree governed by a configuration file.
type Project struct {
	RootDir string
	Config  Config
}

// Load finds the configuration for the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom looks for a configuration file in dir and its parents.
func LoadFrom(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	for {
		configPath := filepath.Join(abs, ConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			cfg, err := parseConfigurationFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", configPath, err)
			}
			return &Project{RootDir: abs, Config: cfg}, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return nil, ErrNoConfig
		}
		abs = parent
	}
}

func parseConfigurationFile(configurationPath string) (Config, error) {
	var config Config

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	if config.Grammar == "" {
		return config, errors.New("grammar is not set")
	}
	return config, nil
}

// Write stores cfg as YAML at configurationPath.
func Write(configurationPath string, cfg Config) error {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(configurationPath, d, 0o644)
}

// GrammarPath returns the grammar file, resolved against the project root.
func (p *Project) GrammarPath() string {
	if filepath.IsAbs(p.Config.Grammar) {
		return p.Config.Grammar
	}
	return filepath.Join(p.RootDir, p.Config.Grammar)
}

// Grammar loads and compiles the configured grammar. Matches must consume
// the whole input.
func (p *Project) Grammar() (*parse.Grammar, error) {
	return parse.Load(p.GrammarPath(), p.Config.Start,
		parse.WithTrivia(p.Config.Trivia...),
		parse.WithEOF(),
	)
}

// Matches reports whether a file, given relative to the root, is covered by
// the source patterns. Without patterns every file matches.
func (p *Project) Matches(rel string) bool {
	if len(p.Config.Sources) == 0 {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range p.Config.Sources {
		if matchGlob(pattern, rel) {
			return true
		}
	}
	return false
}

// SourceFiles returns the files under the root matching the source
// patterns, skipping hidden directories.
func (p *Project) SourceFiles() ([]string, error) {
	var files []string

	err := filepath.WalkDir(p.RootDir, func(fpath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if fpath != p.RootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(p.RootDir, fpath)
		if err != nil {
			return err
		}
		if rel == ConfigFile || !p.Matches(rel) {
			return nil
		}
		files = append(files, fpath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan source files in %s: %w", p.RootDir, err)
	}

	return files, nil
}

func matchGlob(pattern, name string) bool {
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		for {
			if ok, _ := path.Match(rest, name); ok {
				return true
			}
			i := strings.IndexByte(name, '/')
			if i < 0 {
				return false
			}
			name = name[i+1:]
		}
	}
	ok, _ := path.Match(pattern, name)
	return ok
}
