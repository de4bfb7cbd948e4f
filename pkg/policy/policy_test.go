package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stoproute/pkg/digraph"
	errs "github.com/matzehuels/stoproute/pkg/errors"
	"github.com/matzehuels/stoproute/pkg/termination"
)

func TestPath(t *testing.T) {
	routes := []termination.Route{{From: "b", To: "c"}, {From: "a", To: "b"}, {From: "x", To: "c"}}

	path, err := Path(routes, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, path)

	path, err = Path(routes, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, path)

	assert.Equal(t, []termination.Route{{From: "a", To: "b"}, {From: "b", To: "c"}}, PathEdges([]string{"a", "b", "c"}))
	assert.Nil(t, PathEdges([]string{"a"}))
}

func TestPathCycle(t *testing.T) {
	routes := []termination.Route{{From: "a", To: "b"}, {From: "b", To: "a"}}
	_, err := Path(routes, "a")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput), "err = %v", err)
}

func TestSubgraph(t *testing.T) {
	g, err := digraph.Grid(2, 2)
	require.NoError(t, err)

	sub, err := Subgraph(g, []termination.Route{{From: "1,1", To: "0,0"}})
	require.NoError(t, err)
	assert.Equal(t, 4, sub.NodeCount())
	assert.Equal(t, 1, sub.EdgeCount())
	w, ok := sub.Weight("1,1", "0,0")
	assert.True(t, ok)
	assert.InDelta(t, 1.41421356, w, 1e-6)

	_, err = Subgraph(g, []termination.Route{{From: "1,1", To: "9,9"}})
	assert.Error(t, err)
}

func TestStopProbabilities(t *testing.T) {
	assert.Equal(t, []float64{0, 1}, StopProbabilities(2, 0.3))
	assert.Equal(t, []float64{1}, StopProbabilities(1, 0.3))
	assert.Equal(t, []float64{0, 0.5, 0.25, 0.25}, StopProbabilities(4, 0.5))

	for _, p := range []float64{0, 0.2, 0.7, 1} {
		var sum float64
		for _, v := range StopProbabilities(7, p) {
			sum += v
		}
		assert.InDelta(t, 1, sum, 1e-12, "p=%v", p)
	}
}

func TestSummedPDF(t *testing.T) {
	dists := map[string][]float64{
		"a": {5, 0},
		"b": {3, 2},
		"c": {1, 2},
	}
	probs := []float64{0.75, 0.25}

	pdf, err := SummedPDF(dists, []string{"a", "b", "c"}, probs, 0.5)
	require.NoError(t, err)
	assert.Equal(t, map[float64]float64{3: 0.375, 2: 0.25, 1: 0.375}, pdf)

	d, m := PDF(pdf)
	assert.Equal(t, []float64{1, 2, 3}, d)
	assert.Equal(t, []float64{0.375, 0.25, 0.375}, m)

	d, c := CDF(pdf)
	assert.Equal(t, []float64{1, 2, 3}, d)
	assert.Equal(t, []float64{0.375, 0.625, 1}, c)
	assert.Equal(t, 2.0, Mean(pdf))

	short, err := SummedPDF(dists, []string{"a", "b"}, probs, 0.5)
	require.NoError(t, err)
	assert.Equal(t, map[float64]float64{3: 0.75, 2: 0.25}, short)
}

func TestSummedPDFErrors(t *testing.T) {
	dists := map[string][]float64{"a": {1}}
	_, err := SummedPDF(dists, []string{"a", "z", "q"}, []float64{1}, 0.5)
	assert.True(t, errs.Is(err, errs.ErrCodeNodeNotFound))

	_, err = SummedPDF(dists, []string{"a"}, []float64{1}, 2)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidProbability))

	_, err = SummedPDF(dists, nil, []float64{1}, 0.5)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
}
