package costs

import (
	"math"

	"github.com/matzehuels/stoproute/pkg/digraph"
	"github.com/matzehuels/stoproute/pkg/pqueue"

	errs "github.com/matzehuels/stoproute/pkg/errors"
)

// Distances returns, for every node, the shortest-path distance from each
// source in source order. Distances follow edge direction from the source;
// nodes a source cannot reach get +Inf.
func Distances(g *digraph.Digraph, sources []string) (map[string][]float64, error) {
	ids := g.NodeIDs()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	out := make(map[string][]float64, len(ids))
	for _, id := range ids {
		out[id] = make([]float64, len(sources))
	}
	for k, src := range sources {
		s, ok := index[src]
		if !ok {
			return nil, errs.New(errs.ErrCodeNodeNotFound, "source %q not in graph", src)
		}
		dist, err := shortestPaths(g, ids, index, s)
		if err != nil {
			return nil, err
		}
		for i, id := range ids {
			out[id][k] = dist[i]
		}
	}
	return out, nil
}

// shortestPaths is Dijkstra's algorithm on the indexed queue: a node is
// pushed when first reached and moved up with DecreaseKey when a shorter path
// shows up.
func shortestPaths(g *digraph.Digraph, ids []string, index map[string]int, src int) ([]float64, error) {
	dist := make([]float64, len(ids))
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	done := make([]bool, len(ids))
	dist[src] = 0

	q, err := pqueue.New(func(a, b int) bool { return dist[a] < dist[b] }, src)
	if err != nil {
		return nil, err
	}
	for !q.IsEmpty() {
		u, err := q.Pop()
		if err != nil {
			return nil, err
		}
		done[u] = true
		for _, to := range g.Successors(ids[u]) {
			v := index[to]
			if done[v] {
				continue
			}
			w, _ := g.Weight(ids[u], to)
			d := dist[u] + w
			if d >= dist[v] {
				continue
			}
			dist[v] = d
			if q.Contains(v) {
				err = q.DecreaseKey(v)
			} else {
				err = q.Push(v)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return dist, nil
}
