package cli

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/stoproute/pkg/errors"
	"github.com/matzehuels/stoproute/pkg/pipeline"
	"github.com/matzehuels/stoproute/pkg/termination"
)

func TestParseFormats(t *testing.T) {
	assert.Nil(t, parseFormats(""))
	assert.Equal(t, []string{"json", "svg"}, parseFormats("json, svg"))
	assert.Equal(t, []string{"dot"}, parseFormats("dot,,"))
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		name string
		opts pipeline.Options
		want string
	}{
		{"explicit", pipeline.Options{Output: "out/run", Graph: "g.json"}, "out/run"},
		{"explicit with format ext", pipeline.Options{Output: "out/run.svg"}, "out/run"},
		{"explicit other ext", pipeline.Options{Output: "out/run.v1"}, "out/run.v1"},
		{"graph", pipeline.Options{Graph: "data/city.json"}, "data/city"},
		{"roads", pipeline.Options{Roads: "data/roads.jsonl"}, "data/roads"},
		{"grid", pipeline.Options{Cols: 4, Rows: 3}, "grid-4x3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outputBase(tt.opts))
		})
	}
}

func TestArtifactPath(t *testing.T) {
	assert.Equal(t, "city.result.json", artifactPath("city", pipeline.FormatJSON))
	assert.Equal(t, "city.svg", artifactPath("city", pipeline.FormatSVG))
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "run")
	artifacts := map[string][]byte{"json": []byte("{}"), "dot": []byte("digraph {}")}

	paths, err := writeArtifacts(base, artifacts, []string{"dot", "json"})
	require.NoError(t, err)
	assert.Equal(t, []string{base + ".dot", base + ".result.json"}, paths)

	data, err := os.ReadFile(base + ".dot")
	require.NoError(t, err)
	assert.Equal(t, "digraph {}", string(data))

	_, err = writeArtifacts(base, artifacts, []string{"svg"})
	assert.Error(t, err)
}

func newFlagCommand(opts *pipeline.Options) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "")
	addSourceFlags(cmd, opts)
	addCostFlags(cmd, opts)
	addSolveFlags(cmd, opts)
	return cmd
}

func TestResolveOptionsFlagsOverrideFile(t *testing.T) {
	config := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(config, []byte(`
cols = 4
rows = 5
probability = 0.3
variant = "lexicographic"
callers = ["0,0"]
`), 0o644))

	opts := pipeline.DefaultOptions()
	cmd := newFlagCommand(&opts)
	require.NoError(t, cmd.ParseFlags([]string{"--rows", "7", "-p", "0.8"}))

	got, err := resolveOptions(cmd, config, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Cols)
	assert.Equal(t, 7, got.Rows)
	assert.Equal(t, 0.8, got.Probability)
	assert.Equal(t, termination.VariantLexicographic, got.Variant)
	assert.Equal(t, []string{"0,0"}, got.Callers)
}

func TestResolveOptionsSourceReplacesFile(t *testing.T) {
	config := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(config, []byte("cols = 4\nrows = 5\n"), 0o644))

	opts := pipeline.DefaultOptions()
	cmd := newFlagCommand(&opts)
	require.NoError(t, cmd.ParseFlags(nil))

	got, err := resolveOptions(cmd, config, opts, []string{"city.json"})
	require.NoError(t, err)
	assert.Equal(t, "city.json", got.Graph)
	assert.Zero(t, got.Cols)
	assert.Zero(t, got.Rows)
}

func TestResolveOptionsConflictingSources(t *testing.T) {
	opts := pipeline.DefaultOptions()
	cmd := newFlagCommand(&opts)
	require.NoError(t, cmd.ParseFlags([]string{"--cols", "3"}))

	_, err := resolveOptions(cmd, "", opts, []string{"city.json"})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
}

func TestResolveOptionsBadFile(t *testing.T) {
	config := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(config, []byte("colz = 4\n"), 0o644))

	opts := pipeline.DefaultOptions()
	cmd := newFlagCommand(&opts)
	require.NoError(t, cmd.ParseFlags(nil))

	_, err := resolveOptions(cmd, config, opts, nil)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
}

func testSolution() *pipeline.Solution {
	return &pipeline.Solution{
		Variant: termination.VariantConstant,
		Scalar: &termination.Result[float64]{
			ExpectedCost: map[string]float64{"A": 5, "B": 0, "C": 0, "D": 2},
			Stationary:   []string{"C"},
		},
	}
}

func TestNodeEntries(t *testing.T) {
	entries := nodeEntries(testSolution())
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"B", "C", "D", "A"}, ids)
	assert.True(t, entries[1].Stationary)
	assert.False(t, entries[0].Stationary)
}

func TestNodeListModel(t *testing.T) {
	m := NewNodeListModel(nodeEntries(testSolution()))

	key := func(s string) tea.KeyMsg {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	var model tea.Model = m
	model, _ = model.Update(key("j"))
	model, _ = model.Update(key("j"))
	model, _ = model.Update(key("k"))
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got := model.(NodeListModel)
	require.NotNil(t, got.Selected)
	assert.Equal(t, "C", got.Selected.ID)
	assert.NotNil(t, cmd)
	assert.Contains(t, got.View(), "Select Start Node")
}

func TestNodeListModelQuit(t *testing.T) {
	var model tea.Model = NewNodeListModel(nodeEntries(testSolution()))
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, model.(NodeListModel).Selected)
	assert.NotNil(t, cmd)
}
