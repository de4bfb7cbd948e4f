// Package policy analyses the routing policy produced by a solver: the
// subgraph of chosen moves, the path a traveller follows from a start node and
// the distribution of the distance to the caller at the point where the
// traveller is stopped.
package policy

import (
	"math"
	"slices"

	"github.com/matzehuels/stoproute/pkg/digraph"
	"github.com/matzehuels/stoproute/pkg/termination"

	errs "github.com/matzehuels/stoproute/pkg/errors"
)

// Subgraph returns a graph with every node of g and only the routing edges.
// Edge weights are taken from g when the edge exists there.
func Subgraph(g *digraph.Digraph, routes []termination.Route) (*digraph.Digraph, error) {
	out := digraph.New(nil)
	for _, n := range g.Nodes() {
		if err := out.AddNode(digraph.Node{ID: n.ID, Pos: n.Pos, Meta: n.Meta}); err != nil {
			return nil, err
		}
	}
	for _, r := range routes {
		w, _ := g.Weight(r.From, r.To)
		if err := out.AddEdge(digraph.Edge{From: r.From, To: r.To, Weight: w}); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "route %s->%s", r.From, r.To)
		}
	}
	return out, nil
}

// Path follows the routing decisions from start until it reaches a node
// without one. The result starts with start. Routes that loop back onto the
// path are rejected.
func Path(routes []termination.Route, start string) ([]string, error) {
	next := make(map[string]string, len(routes))
	for _, r := range routes {
		next[r.From] = r.To
	}
	path := []string{start}
	seen := map[string]bool{start: true}
	for {
		to, ok := next[path[len(path)-1]]
		if !ok {
			return path, nil
		}
		if seen[to] {
			return nil, errs.New(errs.ErrCodeInvalidInput, "routes loop back to %q", to)
		}
		seen[to] = true
		path = append(path, to)
	}
}

// PathEdges returns the consecutive node pairs of path.
func PathEdges(path []string) []termination.Route {
	if len(path) < 2 {
		return nil
	}
	out := make([]termination.Route, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		out = append(out, termination.Route{From: path[i], To: path[i+1]})
	}
	return out
}

// StopProbabilities returns the probability that a traveller following path
// is stopped at each node, with stop probability p per move. The start node
// never holds the traveller at stop time, and the final node absorbs every
// traveller not stopped before. Paths of one or two nodes put all mass on the
// last node.
func StopProbabilities(n int, p float64) []float64 {
	if n == 0 {
		return nil
	}
	out := make([]float64, n)
	if n <= 2 {
		out[n-1] = 1
		return out
	}
	for i := 1; i < n-1; i++ {
		out[i] = p * math.Pow(1-p, float64(i-1))
	}
	out[n-1] = math.Pow(1-p, float64(n-2))
	return out
}

// SummedPDF returns the distribution of the distance between the stopping
// point and the active caller, keyed by distance. dists maps each node to its
// distances from every caller, in the order of probs.
func SummedPDF(dists map[string][]float64, path []string, probs []float64, p float64) (map[float64]float64, error) {
	if err := errs.ValidateProbability(p); err != nil {
		return nil, err
	}
	if len(path) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "empty path")
	}
	stops := StopProbabilities(len(path), p)
	pdf := make(map[float64]float64)
	for i, node := range path {
		d, ok := dists[node]
		if !ok {
			return nil, errs.New(errs.ErrCodeNodeNotFound, "no distances for node %q", node)
		}
		if len(d) != len(probs) {
			return nil, errs.New(errs.ErrCodeInvalidInput,
				"node %q has %d distances for %d callers", node, len(d), len(probs))
		}
		if stops[i] == 0 {
			continue
		}
		for k, prob := range probs {
			pdf[d[k]] += stops[i] * prob
		}
	}
	return pdf, nil
}

// PDF returns the distances of pdf in ascending order with their masses.
func PDF(pdf map[float64]float64) (dists, mass []float64) {
	dists = make([]float64, 0, len(pdf))
	for d := range pdf {
		dists = append(dists, d)
	}
	slices.Sort(dists)
	mass = make([]float64, len(dists))
	for i, d := range dists {
		mass[i] = pdf[d]
	}
	return dists, mass
}

// CDF returns the distances of pdf in ascending order with the cumulative mass
// up to and including each distance.
func CDF(pdf map[float64]float64) (dists, cum []float64) {
	dists, mass := PDF(pdf)
	cum = make([]float64, len(mass))
	var acc float64
	for i, m := range mass {
		acc += m
		cum[i] = acc
	}
	return dists, cum
}

// Mean returns the expected distance of pdf. Infinite distances with positive
// mass yield +Inf.
func Mean(pdf map[float64]float64) float64 {
	dists, mass := PDF(pdf)
	var sum float64
	for i, d := range dists {
		if mass[i] == 0 {
			continue
		}
		sum += d * mass[i]
	}
	return sum
}
