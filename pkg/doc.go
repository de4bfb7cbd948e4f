// Package pkg provides the core libraries for stoproute.
//
// # Overview
//
// stoproute answers one question for every node of a weighted directed graph:
// if a traveller may be stopped after each move, and is charged the terminal
// cost of wherever they end up, which move minimizes the expected charge?
// The pkg directory is organized into these areas:
//
//  1. [termination] - The solver (variants, sink policies, results)
//  2. [digraph], [pqueue] - Graph structure and the indexed priority queue
//  3. [costs], [policy] - Caller-based terminal costs and route analysis
//  4. [io] - Graph, road network and result file formats
//  5. [pipeline] - Orchestration (load → costs → solve → render) with caching
//  6. [cache], [render], [observability] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Graph file / road network / grid
//	         ↓
//	    [io], [digraph] (load)
//	         ↓
//	    [costs] (terminal costs from caller distances)
//	         ↓
//	    [termination] (expected costs and routes)
//	         ↓
//	    [render] (JSON/DOT/SVG/PDF/PNG output)
//
// # Quick Start
//
//	g, err := digraph.Grid(10, 10)
//	cost, err := costs.Compute(g, []string{"0,0"}, costs.Uniform(1), costs.ExpectedValue)
//	res, err := termination.Solve(g, cost, 0.5)
//
// [termination]: github.com/matzehuels/stoproute/pkg/termination
// [digraph]: github.com/matzehuels/stoproute/pkg/digraph
// [pqueue]: github.com/matzehuels/stoproute/pkg/pqueue
// [costs]: github.com/matzehuels/stoproute/pkg/costs
// [policy]: github.com/matzehuels/stoproute/pkg/policy
// [io]: github.com/matzehuels/stoproute/pkg/io
// [pipeline]: github.com/matzehuels/stoproute/pkg/pipeline
// [cache]: github.com/matzehuels/stoproute/pkg/cache
// [render]: github.com/matzehuels/stoproute/pkg/render
// [observability]: github.com/matzehuels/stoproute/pkg/observability
package pkg
