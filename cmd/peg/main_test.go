package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/peg/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pairGrammar = `
Pair = key "=" Value .
Value = number | key .
key = letter { letter } .
number = digit { digit } .
letter = "a" … "z" .
digit = "0" … "9" .
space = " " .
`

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestCheck(t *testing.T) {
	dir := writeFiles(t, map[string]string{"pair.ebnf": pairGrammar})
	grammar := filepath.Join(dir, "pair.ebnf")

	stdout, _, err := run(t, "check", grammar, "--start", "Pair", "--trivia", "space")
	require.NoError(t, err)
	assert.Contains(t, stdout, "7 productions ok")

	// Without trivia the space production is unreachable.
	_, stderr, err := run(t, "check", grammar, "--start", "Pair")
	assert.Error(t, err)
	assert.Contains(t, stderr, "space")
}

func TestCheck_SyntaxError(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.ebnf": "Pair = key \"=\" \n"})

	_, stderr, err := run(t, "check", filepath.Join(dir, "bad.ebnf"))
	assert.Error(t, err)
	assert.NotEmpty(t, stderr)
}

func TestParse(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"pair.ebnf": pairGrammar,
		"ok.txt":    "answer = 42",
		"bad.txt":   "answer = ?",
	})
	grammar := filepath.Join(dir, "pair.ebnf")

	t.Run("tree", func(t *testing.T) {
		stdout, _, err := run(t, "parse", filepath.Join(dir, "ok.txt"), "-g", grammar, "-s", "Pair", "--trivia", "space")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		require.NotEmpty(t, lines)
		assert.True(t, strings.HasPrefix(lines[0], "Pair 0..11"), lines[0])
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := run(t, "parse", filepath.Join(dir, "ok.txt"), "-g", grammar, "-s", "Pair", "--trivia", "space", "-f", "json")
		require.NoError(t, err)
		assert.Contains(t, stdout, `"name": "Pair"`)
	})

	t.Run("failure", func(t *testing.T) {
		_, stderr, err := run(t, "parse", filepath.Join(dir, "bad.txt"), "-g", grammar, "-s", "Pair", "--trivia", "space")
		assert.Error(t, err)
		assert.Contains(t, stderr, "bad.txt:1:9:")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := run(t, "parse", filepath.Join(dir, "ok.txt"), "-g", grammar, "-s", "Pair", "-f", "xml")
		assert.ErrorContains(t, err, "unknown format")
	})
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, "init", dir, "-g", "pair.ebnf", "-s", "Pair", "--trivia", "space")
	require.NoError(t, err)

	p, err := project.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "pair.ebnf", p.Config.Grammar)
	assert.Equal(t, "Pair", p.Config.Start)
	assert.Equal(t, []string{"space"}, p.Config.Trivia)

	_, _, err = run(t, "init", dir, "-g", "other.ebnf")
	assert.ErrorContains(t, err, "already exists")
}

func TestParse_ProjectSources(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"pair.ebnf":        pairGrammar,
		project.ConfigFile: "grammar: pair.ebnf\nstart: Pair\ntrivia: [space]\nsources: [\"*.txt\"]\n",
		"a.txt":            "a = b",
		"b.txt":            "b = 7",
	})
	t.Chdir(dir)

	stdout, _, err := run(t, "parse")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(stdout, "# "), stdout)
	assert.Equal(t, 2, strings.Count(stdout, "Pair 0..5"), stdout)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte("c ="), 0o644))
	_, stderr, err := run(t, "parse")
	assert.ErrorContains(t, err, "1 of 3 files did not match")
	assert.Contains(t, stderr, "c.txt:1:4:")
}
