package termination

import (
	"math"

	"github.com/matzehuels/stoproute/pkg/digraph"
	errs "github.com/matzehuels/stoproute/pkg/errors"
)

// LocalMinima returns the nodes whose cost is at most the cost of every
// successor, in graph node order. Nodes without successors are handled by
// policy.
func LocalMinima(g *digraph.Digraph, cost map[string]float64, policy SinkPolicy) ([]string, error) {
	ar := newArena(g)
	c, err := ar.costs(cost)
	if err != nil {
		return nil, err
	}
	seeds, err := detectSeeds(ar, policy, scalarDominates(ar, c))
	if err != nil {
		return nil, err
	}
	return ar.names(seeds), nil
}

// LexicographicMinima returns the seeds of the two-cost model, in graph node
// order.
//
// Components are checked in order against the minimum of that component over
// all successors. A component strictly below the minimum accepts the node, one
// strictly above rejects it, and a tie moves on to the next component. A node
// that ties on every component is a seed.
func LexicographicMinima(g *digraph.Digraph, cost0, cost1 map[string]float64, policy SinkPolicy) ([]string, error) {
	ar := newArena(g)
	c, err := ar.pairs(cost0, cost1)
	if err != nil {
		return nil, err
	}
	seeds, err := detectSeeds(ar, policy, pairDominates(ar, c))
	if err != nil {
		return nil, err
	}
	return ar.names(seeds), nil
}

func detectSeeds(ar *arena, policy SinkPolicy, dominates func(n int) bool) ([]int, error) {
	var seeds []int
	for n := range ar.ids {
		if len(ar.succ[n]) == 0 {
			switch policy {
			case SinkSeed:
				seeds = append(seeds, n)
			case SinkSkip:
			default:
				return nil, errs.New(errs.ErrCodeUndefinedMinimum,
					"node %q has no successors", ar.ids[n])
			}
			continue
		}
		if dominates(n) {
			seeds = append(seeds, n)
		}
	}
	return seeds, nil
}

func scalarDominates(ar *arena, cost []float64) func(n int) bool {
	return func(n int) bool {
		for _, s := range ar.succ[n] {
			if cost[s] < cost[n] {
				return false
			}
		}
		return true
	}
}

func pairDominates(ar *arena, cost []Pair) func(n int) bool {
	return func(n int) bool {
		for i := range cost[n] {
			m := math.Inf(1)
			for _, s := range ar.succ[n] {
				m = min(m, cost[s][i])
			}
			switch c := cost[n][i]; {
			case c < m:
				return true
			case c > m:
				return false
			}
		}
		return true
	}
}
