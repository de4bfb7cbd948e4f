package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"maps"

	"github.com/matzehuels/stoproute/pkg/costs"
	"github.com/matzehuels/stoproute/pkg/digraph"
	errs "github.com/matzehuels/stoproute/pkg/errors"
	stio "github.com/matzehuels/stoproute/pkg/io"
	"github.com/matzehuels/stoproute/pkg/policy"
	"github.com/matzehuels/stoproute/pkg/render/nodelink"
	"github.com/matzehuels/stoproute/pkg/termination"
)

// Load builds the graph named by opts. Costs are only returned for graph
// files, which may carry them.
func Load(opts Options) (*digraph.Digraph, stio.Costs, error) {
	switch {
	case opts.Graph != "":
		return stio.ImportJSON(opts.Graph)
	case opts.Roads != "":
		g, err := stio.ImportRoadNetwork(opts.Roads)
		return g, stio.Costs{}, err
	default:
		g, err := digraph.Grid(opts.Cols, opts.Rows)
		if err != nil {
			return nil, stio.Costs{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "grid")
		}
		return g, stio.Costs{}, nil
	}
}

// DeriveCosts returns the graph and terminal costs the solver runs on.
//
// Without callers the costs stored in the graph file are used as they are.
// With callers, costs are computed from shortest-path distances to them: the
// chosen cost function for single-cost variants, and the pair (probability of
// exceeding Allowed, expected distance) for lexicographic ones. Nodes with a
// non-finite cost are removed from the returned graph.
func DeriveCosts(g *digraph.Digraph, stored stio.Costs, opts Options) (*digraph.Digraph, stio.Costs, error) {
	if len(opts.Callers) == 0 {
		if len(stored.Primary) == 0 {
			return nil, stio.Costs{}, errs.New(errs.ErrCodeInvalidInput,
				"graph carries no costs; set callers to derive them")
		}
		if opts.IsLexicographic() && len(stored.Secondary) == 0 {
			return nil, stio.Costs{}, errs.New(errs.ErrCodeInvalidInput,
				"variant %s needs a secondary cost (cost2) on every node", opts.Variant)
		}
		return g, stored, nil
	}

	probs := opts.CallerWeights
	if len(probs) == 0 {
		probs = costs.Uniform(len(opts.Callers))
	}
	compute := func(fn costs.CostFunc) (map[string]float64, error) {
		return costs.Compute(g, opts.Callers, probs, fn)
	}

	var out stio.Costs
	var err error
	switch {
	case opts.IsLexicographic():
		if out.Primary, err = compute(costs.ExceedingDistance(opts.Allowed)); err != nil {
			return nil, stio.Costs{}, err
		}
		if out.Secondary, err = compute(costs.ExpectedValue); err != nil {
			return nil, stio.Costs{}, err
		}
	case opts.CostFunc == CostExceeding:
		if out.Primary, err = compute(costs.ExceedingDistance(opts.Allowed)); err != nil {
			return nil, stio.Costs{}, err
		}
	default:
		if out.Primary, err = compute(costs.ExpectedValue); err != nil {
			return nil, stio.Costs{}, err
		}
	}

	reachable := costs.Reachable(g, out.Primary)
	if out.Secondary != nil {
		reachable = costs.Reachable(reachable, out.Secondary)
	}
	out.Primary = restrict(out.Primary, reachable)
	out.Secondary = restrict(out.Secondary, reachable)
	return reachable, out, nil
}

func restrict(cost map[string]float64, g *digraph.Digraph) map[string]float64 {
	if cost == nil {
		return nil
	}
	out := maps.Clone(cost)
	maps.DeleteFunc(out, func(id string, _ float64) bool { return !g.HasNode(id) })
	return out
}

// Solve runs the termination variant named by opts.
func Solve(g *digraph.Digraph, c stio.Costs, opts Options) (*Solution, error) {
	sinks, err := termination.ParseSinkPolicy(opts.SinkPolicy)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "sink policy")
	}
	topts := []termination.Option{
		termination.WithSinkPolicy(sinks),
		termination.WithMaxRelaxations(opts.MaxRelaxations),
		termination.WithLogger(opts.Logger),
	}

	sol := &Solution{Variant: opts.Variant}
	switch opts.Variant {
	case termination.VariantConstant, "":
		sol.Variant = termination.VariantConstant
		sol.Scalar, err = termination.Solve(g, c.Primary, opts.Probability, topts...)
	case termination.VariantContinuous:
		sol.Scalar, err = termination.SolveContinuous(g, c.Primary, opts.Rate, topts...)
	case termination.VariantLexicographic:
		sol.Pair, err = termination.SolveLexicographic(g, c.Primary, c.Secondary, opts.Probability, topts...)
	case termination.VariantPerComponent:
		sol.Pair, err = termination.SolveLexicographicPerComponent(g, c.Primary, c.Secondary, opts.Probability, topts...)
	default:
		return nil, ValidateVariant(opts.Variant)
	}
	if err != nil {
		return nil, err
	}
	return sol, nil
}

// Overlay builds the drawing overlay for a solution: node colors from the
// expected costs, routing arrows, the caller locations and, when opts.Start
// is set, the path from that node.
func Overlay(g *digraph.Digraph, sol *Solution, opts Options) (nodelink.Overlay, error) {
	ov := nodelink.Overlay{
		Values:    sol.Values(),
		Routes:    sol.Routes(),
		Highlight: opts.Callers,
		Labels:    opts.Labels,
	}
	if opts.Start != "" {
		if !g.HasNode(opts.Start) {
			return nodelink.Overlay{}, errs.New(errs.ErrCodeNodeNotFound, "start node %q not in graph", opts.Start)
		}
		path, err := policy.Path(sol.Routes(), opts.Start)
		if err != nil {
			return nodelink.Overlay{}, err
		}
		ov.Path = policy.PathEdges(path)
	}
	return ov, nil
}

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, g *digraph.Digraph, sol *Solution, runID string, opts Options) (map[string][]byte, error) {
	ov, err := Overlay(g, sol, opts)
	if err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(g, ov)
	layout := nodelink.LayoutFor(g)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			err = sol.WriteJSON(&buf, opts.RunInfo(runID))
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot, layout)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot, layout)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, layout, 2.0)
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// cacheable reports whether rendering format is worth caching. JSON carries
// the run ID and DOT is a string build, so both are always regenerated.
func cacheable(format string) bool {
	return format == FormatSVG || format == FormatPDF || format == FormatPNG
}
