package costs

import (
	"math"

	"github.com/matzehuels/stoproute/pkg/digraph"

	errs "github.com/matzehuels/stoproute/pkg/errors"
)

// CostFunc computes the terminal cost of node from the caller probabilities
// and the distances from each caller, both in caller order.
type CostFunc func(node string, probs, dists []float64) float64

// ExpectedValue is the expected distance to the active caller. Callers with
// zero probability do not contribute, even when unreachable.
func ExpectedValue(_ string, probs, dists []float64) float64 {
	var sum float64
	for i, p := range probs {
		if p == 0 {
			continue
		}
		sum += p * dists[i]
	}
	return sum
}

// ExceedingDistance returns a CostFunc giving the probability that the active
// caller is farther away than allowed.
func ExceedingDistance(allowed float64) CostFunc {
	return func(_ string, probs, dists []float64) float64 {
		var sum float64
		for i, p := range probs {
			if dists[i] > allowed {
				sum += p
			}
		}
		return sum
	}
}

// Compute returns fn evaluated at every node of g. probs holds the relative
// probability of each caller and must match callers in length; probabilities
// must be finite and non-negative.
func Compute(g *digraph.Digraph, callers []string, probs []float64, fn CostFunc) (map[string]float64, error) {
	if len(callers) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "at least one caller is required")
	}
	if len(probs) != len(callers) {
		return nil, errs.New(errs.ErrCodeInvalidInput,
			"%d caller probabilities for %d callers", len(probs), len(callers))
	}
	for i, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return nil, errs.New(errs.ErrCodeInvalidInput,
				"probability of caller %q must be finite and non-negative: %v", callers[i], p)
		}
	}

	dists, err := Distances(g, callers)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(dists))
	for _, id := range g.NodeIDs() {
		out[id] = fn(id, probs, dists[id])
	}
	return out, nil
}

// Uniform returns n equal probabilities summing to one.
func Uniform(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / float64(n)
	}
	return out
}

// Reachable returns the subgraph of g induced by the nodes with a finite cost.
// Node positions and metadata are shared with g. Nodes that no weighted caller
// reaches have an infinite expected distance and cannot be solved for.
func Reachable(g *digraph.Digraph, cost map[string]float64) *digraph.Digraph {
	out := digraph.New(g.Meta())
	for _, n := range g.Nodes() {
		c, ok := cost[n.ID]
		if !ok || math.IsInf(c, 0) || math.IsNaN(c) {
			continue
		}
		_ = out.AddNode(digraph.Node{ID: n.ID, Pos: n.Pos, Meta: n.Meta})
	}
	for _, e := range g.Edges() {
		if out.HasNode(e.From) && out.HasNode(e.To) {
			_ = out.AddEdge(e)
		}
	}
	return out
}
