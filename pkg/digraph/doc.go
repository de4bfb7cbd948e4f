// Package digraph provides a directed, weighted graph with deterministic
// iteration order, used as the input structure for route solving.
//
// # Overview
//
// Nodes are identified by non-empty strings and may carry an optional planar
// position used for rendering. Edges are directed and carry a non-negative
// weight, e.g. a travel time. Each ordered node pair holds at most one edge:
// adding an edge that already exists replaces its weight.
//
// Nodes, successors and predecessors are returned in insertion order. Solvers
// that walk the graph therefore produce identical output for identical build
// order, which makes tie-breaking between equal values reproducible.
//
// # Basic Usage
//
//	g := digraph.New(nil)
//	_ = g.AddNode(digraph.Node{ID: "a"})
//	_ = g.AddNode(digraph.Node{ID: "b"})
//	_ = g.AddEdge(digraph.Edge{From: "a", To: "b", Weight: 1.5})
//
// [Grid] builds the 8-connected lattice used for synthetic experiments.
//
// # Concurrency
//
// A [Digraph] is not safe for concurrent mutation. Concurrent reads are safe
// once construction has finished.
package digraph
