package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mchmarny/ambiclass/pkg/config"
	"github.com/mchmarny/ambiclass/pkg/evaluation"
	"github.com/mchmarny/ambiclass/pkg/wordlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	initLogging("error")
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{appName, "--log-level", "error"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	lines, err := wordlist.Read(path)
	require.NoError(t, err)
	return lines
}

func TestClassifyCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "words.txt", "London\nhappiness\n\nAI\n")
	amb := filepath.Join(dir, "ambiguous.txt")
	prop := filepath.Join(dir, "proper.txt")

	_, err := run(t, "classify", in, amb, prop)
	require.NoError(t, err)

	assert.Equal(t, []string{"happiness"}, readLines(t, amb))
	assert.Equal(t, []string{"London", "AI"}, readLines(t, prop))
}

func TestClassifyCommand_SortedWithCustomWords(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "words.txt", "Zeta\ncat\nAlpha\ncat\nZeta\n")
	common := writeFile(t, dir, "common.txt", "cat\n")
	amb := filepath.Join(dir, "ambiguous.txt")
	prop := filepath.Join(dir, "proper.txt")

	_, err := run(t, "classify", "--sorted", "--common-words", common, in, amb, prop)
	require.NoError(t, err)

	assert.Equal(t, []string{"cat"}, readLines(t, amb))
	assert.Equal(t, []string{"Alpha", "Zeta"}, readLines(t, prop))
}

func TestClassifyCommand_UnresolvedAmbiguous(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "words.txt", "London\nAI\n")
	proper := writeFile(t, dir, "proper-words.txt", "AI\n")
	amb := filepath.Join(dir, "ambiguous.txt")
	prop := filepath.Join(dir, "proper.txt")

	_, err := run(t, "classify", "--unresolved", "ambiguous", "--proper-words", proper, in, amb, prop)
	require.NoError(t, err)

	assert.Equal(t, []string{"London"}, readLines(t, amb))
	assert.Equal(t, []string{"AI"}, readLines(t, prop))

	_, err = run(t, "classify", "--unresolved", "maybe", in, amb, prop)
	assert.Error(t, err)
}

func TestClassifyCommand_Frequency(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "words.txt", "London\nAI\n")
	table := writeFile(t, dir, "zipf.tsv", "word\tzipf\nlondon\t5.0\n")
	amb := filepath.Join(dir, "ambiguous.txt")
	prop := filepath.Join(dir, "proper.txt")

	_, err := run(t, "classify", "--use-frequency", "--frequency", table, in, amb, prop)
	require.NoError(t, err)

	assert.Equal(t, []string{"London"}, readLines(t, amb))
	assert.Equal(t, []string{"AI"}, readLines(t, prop))
}

func TestClassifyCommand_FrequencyUnavailable(t *testing.T) {
	t.Setenv(config.UseFrequencyEnvVar, "1")
	t.Setenv(config.FrequencySourceEnvVar, filepath.Join(t.TempDir(), "missing.db"))

	dir := t.TempDir()
	in := writeFile(t, dir, "words.txt", "London\nhappiness\nAI\n")
	amb := filepath.Join(dir, "ambiguous.txt")
	prop := filepath.Join(dir, "proper.txt")

	_, err := run(t, "classify", in, amb, prop)
	require.NoError(t, err)

	assert.Equal(t, []string{"happiness"}, readLines(t, amb))
	assert.Equal(t, []string{"London", "AI"}, readLines(t, prop))
}

func TestClassifyCommand_Explain(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "words.txt", "happiness\n")

	out, err := run(t, "classify", "--explain", in,
		filepath.Join(dir, "a.txt"), filepath.Join(dir, "p.txt"))
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "happiness", got[0]["token"])
	assert.Equal(t, "unresolved", got[0]["outcome"])
	assert.Equal(t, "ambiguous", got[0]["bucket"])
}

func TestClassifyCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "words.txt", "cat\n")
	amb := filepath.Join(dir, "ambiguous.txt")

	_, err := run(t, "classify", in, amb)
	assert.Error(t, err)

	_, err = run(t, "classify", filepath.Join(dir, "missing.txt"), amb, filepath.Join(dir, "p.txt"))
	assert.ErrorIs(t, err, wordlist.ErrInputNotFound)

	_, err = run(t, "classify", in, amb, filepath.Join(dir, "nope", "p.txt"))
	assert.ErrorIs(t, err, wordlist.ErrInputNotFound)
	_, statErr := os.Stat(amb)
	assert.True(t, os.IsNotExist(statErr), "no partial output expected")
}

func TestEvaluateCommand(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.tsv", "Word\tTruth\ncat\tambiguous\nParis\tproper\nriver\tambiguous\n")
	amb := writeFile(t, dir, "ambiguous.txt", "cat\nbanana\n")
	prop := writeFile(t, dir, "proper.txt", "Paris\n")
	report := filepath.Join(dir, "out", "report.json")

	out, err := run(t, "evaluate", "--show-mismatches", "5", "--report", report, gold, amb, prop)
	require.NoError(t, err)

	assert.Contains(t, out, "Accuracy: 1.0000")
	assert.Contains(t, out, "Missing from predictions: 1")
	assert.Contains(t, out, "Missing in outputs: river")
	assert.Contains(t, out, "Extra ambiguous predictions: 1")

	b, err := os.ReadFile(report)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.EqualValues(t, 3, got["total_words"])
	assert.EqualValues(t, 1, got["accuracy"])
	assert.Contains(t, got, "details")
}

func TestEvaluateCommand_SummaryOnlyYAML(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.tsv", "Word\tTruth\ncat\tambiguous\nParis\tproper\n")
	amb := writeFile(t, dir, "ambiguous.txt", "")
	prop := writeFile(t, dir, "proper.txt", "cat\nParis\n")
	report := filepath.Join(dir, "report.yaml")

	out, err := run(t, "evaluate", "--summary-only", "--report", report, gold, amb, prop)
	require.NoError(t, err)
	assert.Contains(t, out, "Precision (ambiguous): n/a")

	b, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(b), "precision: null")
	assert.NotContains(t, string(b), "details")
}

func TestEvaluateCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.tsv", "Word\tTruth\ncat\tambiguous\n")
	badGold := writeFile(t, dir, "bad.tsv", "Token\tLabel\ncat\tambiguous\n")
	amb := writeFile(t, dir, "ambiguous.txt", "cat\n")
	prop := writeFile(t, dir, "proper.txt", "Cat\n")
	empty := writeFile(t, dir, "empty.txt", "")

	_, err := run(t, "evaluate", gold, amb, prop)
	assert.ErrorIs(t, err, evaluation.ErrOverlappingPredictions)

	_, err = run(t, "evaluate", badGold, amb, empty)
	assert.ErrorIs(t, err, evaluation.ErrMalformedGoldStandard)

	_, err = run(t, "evaluate", filepath.Join(dir, "missing.tsv"), amb, empty)
	assert.ErrorIs(t, err, wordlist.ErrInputNotFound)

	_, err = run(t, "evaluate", "--show-mismatches", "-1", gold, amb, empty)
	assert.Error(t, err)

	_, err = run(t, "evaluate", gold, amb)
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ambiclass.yaml")

	_, err := run(t, "config", "init", path)
	require.NoError(t, err)

	_, err = run(t, "config", "init", path)
	assert.Error(t, err)

	_, err = run(t, "config", "init", "--force", path)
	require.NoError(t, err)

	out, err := run(t, "--config", path, "--format", "yaml", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "unresolvedBucket: non_ambiguous")
	assert.Contains(t, out, "useFrequency: false")

	t.Setenv(config.UseFrequencyEnvVar, "true")
	out, err = run(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"use_frequency": true`))
}
