package termination

import (
	"github.com/matzehuels/stoproute/pkg/digraph"

	errs "github.com/matzehuels/stoproute/pkg/errors"
)

// Variant names reported in logs and hooks.
const (
	VariantConstant      = "constant"
	VariantContinuous    = "continuous"
	VariantLexicographic = "lexicographic"
	VariantPerComponent  = "per-component"
)

// Variants lists the accepted variant names.
var Variants = []string{VariantConstant, VariantContinuous, VariantLexicographic, VariantPerComponent}

// Solve computes expected costs with a constant termination probability p,
// which must lie in [0, 1].
func Solve(g *digraph.Digraph, cost map[string]float64, p float64, opts ...Option) (*Result[float64], error) {
	if err := errs.ValidateProbability(p); err != nil {
		return nil, err
	}
	return solveScalar(g, cost, VariantConstant, opts, func(*arena) func(a, k int) float64 {
		return func(int, int) float64 { return p }
	})
}

// SolveContinuous computes expected costs with an edge-dependent termination
// probability p = rate·weight(q→a). rate must be finite and non-negative, and
// every derived probability must lie in [0, 1]; values outside are rejected,
// not clamped. All edges are checked before the sweep starts.
func SolveContinuous(g *digraph.Digraph, cost map[string]float64, rate float64, opts ...Option) (*Result[float64], error) {
	if err := errs.ValidateRate(rate); err != nil {
		return nil, err
	}
	for _, e := range g.Edges() {
		if err := errs.ValidateProbability(rate * e.Weight); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidProbability, err,
				"edge %s->%s with weight %v", e.From, e.To, e.Weight)
		}
	}
	return solveScalar(g, cost, VariantContinuous, opts, func(ar *arena) func(a, k int) float64 {
		return func(a, k int) float64 { return rate * ar.predWeight[a][k] }
	})
}

// solveScalar runs a single-cost variant. prob yields the termination
// probability for the edge ar.pred[a][k]→a.
func solveScalar(g *digraph.Digraph, cost map[string]float64, name string, opts []Option,
	prob func(ar *arena) func(a, k int) float64,
) (*Result[float64], error) {
	cfg := newConfig(opts)
	ar := newArena(g)
	c, err := ar.costs(cost)
	if err != nil {
		return nil, err
	}
	seeds, err := detectSeeds(ar, cfg.sinks, scalarDominates(ar, c))
	if err != nil {
		return nil, err
	}

	probOf := prob(ar)
	var e *engine[float64]
	e = newEngine(ar, c, model[float64]{
		name: name,
		less: lessFloat,
		relax: func(a, k int) (float64, error) {
			if c[a] == e.expected[a] {
				return c[a], nil
			}
			return blend(probOf(a, k), c[a], e.expected[a]), nil
		},
	}, cfg)
	return e.run(seeds)
}

// SolveLexicographic computes expected costs for two costs compared
// lexicographically, with the same probability p applied to both. The
// fixed-point shortcut applies when the whole cost vector of the accepted node
// equals its expected cost.
func SolveLexicographic(g *digraph.Digraph, cost0, cost1 map[string]float64, p float64, opts ...Option) (*Result[Pair], error) {
	return solvePair(g, cost0, cost1, p, VariantLexicographic, opts, func(p float64, c, e Pair) Pair {
		if c == e {
			return c
		}
		return Pair{blend(p, c[0], e[0]), blend(p, c[1], e[1])}
	})
}

// SolveLexicographicPerComponent is [SolveLexicographic] with the fixed-point
// shortcut evaluated for each component on its own. The two variants agree in
// exact arithmetic and may differ in the last bits of floating-point results.
func SolveLexicographicPerComponent(g *digraph.Digraph, cost0, cost1 map[string]float64, p float64, opts ...Option) (*Result[Pair], error) {
	return solvePair(g, cost0, cost1, p, VariantPerComponent, opts, func(p float64, c, e Pair) Pair {
		var out Pair
		for i := range out {
			if c[i] == e[i] {
				out[i] = c[i]
			} else {
				out[i] = blend(p, c[i], e[i])
			}
		}
		return out
	})
}

func solvePair(g *digraph.Digraph, cost0, cost1 map[string]float64, p float64, name string, opts []Option,
	candidate func(p float64, c, e Pair) Pair,
) (*Result[Pair], error) {
	if err := errs.ValidateProbability(p); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	ar := newArena(g)
	c, err := ar.pairs(cost0, cost1)
	if err != nil {
		return nil, err
	}
	seeds, err := detectSeeds(ar, cfg.sinks, pairDominates(ar, c))
	if err != nil {
		return nil, err
	}

	var e *engine[Pair]
	e = newEngine(ar, c, model[Pair]{
		name: name,
		less: lessPair,
		relax: func(a, _ int) (Pair, error) {
			return candidate(p, c[a], e.expected[a]), nil
		},
	}, cfg)
	return e.run(seeds)
}
