package termination

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stoproute/pkg/digraph"
)

// randomGraph builds a graph with n nodes, roughly n*degree random edges and
// integer costs in [0, 50).
func randomGraph(rng *rand.Rand, n, degree int) (*digraph.Digraph, map[string]float64, map[string]float64) {
	g := digraph.New(nil)
	cost0 := make(map[string]float64, n)
	cost1 := make(map[string]float64, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("n%d", i)
		_ = g.AddNode(digraph.Node{ID: id})
		cost0[id] = float64(rng.Intn(50))
		cost1[id] = float64(rng.Intn(50))
	}
	for i := 0; i < n*degree; i++ {
		from, to := rng.Intn(n), rng.Intn(n)
		if from == to {
			continue
		}
		_ = g.AddEdge(digraph.Edge{
			From:   fmt.Sprintf("n%d", from),
			To:     fmt.Sprintf("n%d", to),
			Weight: float64(1 + rng.Intn(4)),
		})
	}
	return g, cost0, cost1
}

func TestSolveProperties(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g, cost, _ := randomGraph(rng, 5+rng.Intn(40), 1+rng.Intn(3))
		p := []float64{0, 0.1, 0.5, 0.9, 1}[rng.Intn(5)]

		res, err := Solve(g, cost, p)
		require.NoError(t, err, "seed %d", seed)

		pos := make(map[string]int, len(res.Order))
		for i, id := range res.Order {
			pos[id] = i
		}

		// States partition the nodes into accepted and far.
		require.Len(t, res.States, g.NodeCount())
		for id, st := range res.States {
			require.NotEqual(t, Considered, st, "seed %d node %s", seed, id)
		}
		assert.Equal(t, len(res.Order), res.Stats.Accepted)
		assert.Equal(t, len(res.Order), len(res.Routes)+len(res.Stationary))
		assert.Len(t, res.ExpectedCost, len(res.Order))

		seeds, err := LocalMinima(g, cost, SinkSeed)
		require.NoError(t, err)
		for _, s := range seeds {
			assert.Equal(t, Accepted, res.States[s], "seed %d: seed node %s", seed, s)
		}

		// Every route points at a node finalized earlier, and its value is
		// the candidate derived from that node.
		for _, rt := range res.Routes {
			require.Less(t, pos[rt.To], pos[rt.From], "seed %d route %v", seed, rt)
			to := rt.To
			want := cost[to]
			if cost[to] != res.ExpectedCost[to] {
				want = blend(p, cost[to], res.ExpectedCost[to])
			}
			assert.Equal(t, want, res.ExpectedCost[rt.From], "seed %d route %v", seed, rt)
		}

		// Stationary nodes keep their own cost.
		for _, id := range res.Stationary {
			assert.Equal(t, cost[id], res.ExpectedCost[id])
		}

		// A far node has no accepted successor: accepting one relaxes it.
		for id, st := range res.States {
			if st != Far {
				continue
			}
			for _, s := range g.Successors(id) {
				assert.NotEqual(t, Accepted, res.States[s], "seed %d far %s -> %s", seed, id, s)
			}
		}
	}
}

func TestSolveDeterministic(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g, cost, _ := randomGraph(rng, 60, 3)

		first, err := Solve(g, cost, 0.3)
		require.NoError(t, err)
		second, err := Solve(g.Clone(), cost, 0.3)
		require.NoError(t, err)

		assert.Equal(t, first.ExpectedCost, second.ExpectedCost)
		assert.Equal(t, first.Routes, second.Routes)
		assert.Equal(t, first.Stationary, second.Stationary)
		assert.Equal(t, first.Stats, second.Stats)
	}
}

func TestLexicographicVariantsAgreeOnDyadicCosts(t *testing.T) {
	// With p = 1/2 and small integer costs every intermediate value is exact,
	// so the two shortcut rules cannot diverge.
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g, cost0, cost1 := randomGraph(rng, 5+rng.Intn(30), 2)

		vec, err := SolveLexicographic(g, cost0, cost1, 0.5)
		require.NoError(t, err)
		comp, err := SolveLexicographicPerComponent(g, cost0, cost1, 0.5)
		require.NoError(t, err)

		assert.Equal(t, vec.ExpectedCost, comp.ExpectedCost, "seed %d", seed)
		assert.Equal(t, vec.Routes, comp.Routes, "seed %d", seed)
		assert.Equal(t, vec.Stationary, comp.Stationary, "seed %d", seed)
	}
}

func TestLexicographicSeedsAreAccepted(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g, cost0, cost1 := randomGraph(rng, 40, 2)

	seeds, err := LexicographicMinima(g, cost0, cost1, SinkSeed)
	require.NoError(t, err)
	res, err := SolveLexicographic(g, cost0, cost1, 0.4)
	require.NoError(t, err)

	assert.Equal(t, len(seeds), res.Stats.Seeds)
	for _, s := range seeds {
		assert.Equal(t, Accepted, res.States[s])
	}
	for _, id := range res.Stationary {
		assert.True(t, slices.Contains(seeds, id), "stationary %s must be a seed", id)
	}
}
