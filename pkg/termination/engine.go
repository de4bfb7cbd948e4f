package termination

import (
	"github.com/matzehuels/stoproute/pkg/pqueue"

	errs "github.com/matzehuels/stoproute/pkg/errors"
)

// model is the part of a solver variant that differs between variants: how
// values compare and how a predecessor's candidate value is derived.
type model[V any] struct {
	name string
	less func(a, b V) bool
	// relax returns the candidate for ar.pred[a][k] moving to the accepted node a.
	relax func(a, k int) (V, error)
}

// engine holds the per-run state. All slices are indexed by arena position.
type engine[V any] struct {
	ar       *arena
	cfg      config
	m        model[V]
	cost     []V
	expected []V
	next     []int // chosen successor, -1 while stationary
	state    []State
	stats    Stats
}

func newEngine[V any](ar *arena, cost []V, m model[V], cfg config) *engine[V] {
	n := ar.len()
	e := &engine[V]{
		ar:       ar,
		cfg:      cfg,
		m:        m,
		cost:     cost,
		expected: make([]V, n),
		next:     make([]int, n),
		state:    make([]State, n),
	}
	for i := range e.next {
		e.next[i] = -1
	}
	return e
}

// run drains the queue from the given seeds and collects the result.
func (e *engine[V]) run(seeds []int) (*Result[V], error) {
	for _, s := range seeds {
		e.expected[s] = e.cost[s]
		e.state[s] = Considered
	}
	q, err := pqueue.New(func(a, b int) bool { return e.m.less(e.expected[a], e.expected[b]) }, seeds...)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "queue seeds")
	}
	e.stats.Seeds = len(seeds)
	e.stats.Pushes = len(seeds)
	e.cfg.logger.Debug("seeded", "variant", e.m.name, "seeds", len(seeds), "nodes", e.ar.len())

	res := &Result[V]{
		ExpectedCost: make(map[string]V),
		States:       make(map[string]State, e.ar.len()),
	}

	for !q.IsEmpty() {
		a, err := q.Pop()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "accept node")
		}
		e.state[a] = Accepted
		e.stats.Accepted++

		id := e.ar.ids[a]
		res.Order = append(res.Order, id)
		if nx := e.next[a]; nx >= 0 {
			res.Routes = append(res.Routes, Route{From: id, To: e.ar.ids[nx]})
		} else {
			res.Stationary = append(res.Stationary, id)
		}

		// Accepted predecessors are exactly the ones removed from the residual
		// predecessor set, so skipping them walks that set.
		for k, p := range e.ar.pred[a] {
			if e.state[p] == Accepted {
				continue
			}
			if limit := e.cfg.maxRelaxations; limit > 0 && e.stats.Relaxations >= limit {
				return nil, errs.Wrap(errs.ErrCodeLimitExceeded, ErrRelaxationLimit,
					"relaxation %d would exceed the limit of %d", e.stats.Relaxations+1, limit)
			}
			if err := e.relax(q, a, k, p); err != nil {
				return nil, err
			}
		}
	}

	for i, id := range e.ar.ids {
		res.States[id] = e.state[i]
		if e.state[i] == Accepted {
			res.ExpectedCost[id] = e.expected[i]
		}
	}
	res.Stats = e.stats
	e.cfg.logger.Debug("solved",
		"variant", e.m.name,
		"accepted", e.stats.Accepted,
		"far", e.ar.len()-e.stats.Accepted,
		"relaxations", e.stats.Relaxations,
		"decrease_keys", e.stats.DecreaseKeys)
	return res, nil
}

func (e *engine[V]) relax(q *pqueue.Queue[int], a, k, p int) error {
	cand, err := e.m.relax(a, k)
	if err != nil {
		return err
	}
	e.stats.Relaxations++

	switch e.state[p] {
	case Far:
		e.expected[p] = cand
		e.next[p] = a
		e.state[p] = Considered
		if err := q.Push(p); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "push %q", e.ar.ids[p])
		}
		e.stats.Pushes++
	case Considered:
		if !e.m.less(cand, e.expected[p]) {
			return nil
		}
		e.expected[p] = cand
		e.next[p] = a
		if err := q.DecreaseKey(p); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "decrease key of %q", e.ar.ids[p])
		}
		e.stats.DecreaseKeys++
	}
	return nil
}
