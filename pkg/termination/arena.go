package termination

import (
	"github.com/matzehuels/stoproute/pkg/digraph"
	errs "github.com/matzehuels/stoproute/pkg/errors"
)

// arena maps node IDs to dense indices so per-node state lives in flat slices.
// Only the boundary (input costs, output maps) deals in string IDs.
type arena struct {
	ids        []string
	index      map[string]int
	succ       [][]int
	pred       [][]int
	predWeight [][]float64 // predWeight[a][k] is the weight of pred[a][k]→a
}

func newArena(g *digraph.Digraph) *arena {
	ids := g.NodeIDs()
	ar := &arena{
		ids:        ids,
		index:      make(map[string]int, len(ids)),
		succ:       make([][]int, len(ids)),
		pred:       make([][]int, len(ids)),
		predWeight: make([][]float64, len(ids)),
	}
	for i, id := range ids {
		ar.index[id] = i
	}
	for i, id := range ids {
		for _, s := range g.Successors(id) {
			ar.succ[i] = append(ar.succ[i], ar.index[s])
		}
		for _, p := range g.Predecessors(id) {
			w, _ := g.Weight(p, id)
			ar.pred[i] = append(ar.pred[i], ar.index[p])
			ar.predWeight[i] = append(ar.predWeight[i], w)
		}
	}
	return ar
}

func (ar *arena) len() int { return len(ar.ids) }

// costs reads one cost per node from cost, in arena order. Every node needs a
// finite cost.
func (ar *arena) costs(cost map[string]float64) ([]float64, error) {
	out := make([]float64, len(ar.ids))
	for i, id := range ar.ids {
		c, ok := cost[id]
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidInput, "no cost for node %q", id)
		}
		if err := errs.ValidateCost(id, c); err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func (ar *arena) pairs(cost0, cost1 map[string]float64) ([]Pair, error) {
	c0, err := ar.costs(cost0)
	if err != nil {
		return nil, err
	}
	c1, err := ar.costs(cost1)
	if err != nil {
		return nil, err
	}
	out := make([]Pair, len(c0))
	for i := range out {
		out[i] = Pair{c0[i], c1[i]}
	}
	return out, nil
}

func (ar *arena) names(idx []int) []string {
	out := make([]string, len(idx))
	for i, n := range idx {
		out[i] = ar.ids[n]
	}
	return out
}
