package digraph

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Digraph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Digraph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Digraph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Digraph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidWeight is returned by [Digraph.AddEdge] and [Digraph.Validate]
	// when an edge weight is negative, NaN or infinite.
	ErrInvalidWeight = errors.New("edge weight must be finite and non-negative")

	// ErrSelfLoop is returned by [Digraph.AddEdge] for an edge from a node to
	// itself. A self-loop never changes the routing decision and is rejected.
	ErrSelfLoop = errors.New("self-loop edge")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Metadata maps are never nil - they are initialized to empty maps when needed.
type Metadata map[string]any

// Point is a planar position used for rendering.
type Point struct {
	X, Y float64
}

// Node represents a vertex of the graph.
//
// The zero value is not usable - ID must be set before adding to a Digraph.
type Node struct {
	ID   string   // Unique identifier (also used as display label)
	Pos  *Point   // Optional position (nil when unknown)
	Meta Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// Edge represents a directed, weighted connection between two nodes.
type Edge struct {
	From   string  // Source node ID
	To     string  // Target node ID
	Weight float64 // Traversal weight, e.g. travel time
}

// Digraph is a directed graph with at most one edge per ordered node pair.
//
// Iteration order is insertion order for nodes, successors and predecessors,
// so algorithms that walk the graph are deterministic for a given build order.
//
// The zero value is not usable - use New to create a Digraph instance.
// Digraph is not safe for concurrent use without external synchronization.
type Digraph struct {
	nodes    map[string]*Node
	order    []string                      // node IDs in insertion order
	outgoing map[string][]string           // nodeID -> successor IDs
	incoming map[string][]string           // nodeID -> predecessor IDs
	weights  map[string]map[string]float64 // from -> to -> weight
	edges    int
	meta     Metadata
}

// New creates an empty graph with optional graph-level metadata.
func New(meta Metadata) *Digraph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Digraph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		weights:  make(map[string]map[string]float64),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (g *Digraph) Meta() Metadata { return g.meta }

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists.
func (g *Digraph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return nil
}

// EnsureNode adds a node with the given ID if it does not exist yet and
// returns the stored node.
func (g *Digraph) EnsureNode(id string) (*Node, error) {
	if n, ok := g.nodes[id]; ok {
		return n, nil
	}
	if err := g.AddNode(Node{ID: id}); err != nil {
		return nil, err
	}
	return g.nodes[id], nil
}

// AddEdge adds a directed edge between two existing nodes.
// Adding an edge that already exists replaces its weight.
func (g *Digraph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.From == e.To {
		return ErrSelfLoop
	}
	if !validWeight(e.Weight) {
		return fmt.Errorf("%w: %s->%s weight=%v", ErrInvalidWeight, e.From, e.To, e.Weight)
	}

	w, ok := g.weights[e.From]
	if !ok {
		w = make(map[string]float64)
		g.weights[e.From] = w
	}
	if _, exists := w[e.To]; !exists {
		g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
		g.incoming[e.To] = append(g.incoming[e.To], e.From)
		g.edges++
	}
	w[e.To] = e.Weight
	return nil
}

// RemoveEdge removes the edge from→to if it exists.
func (g *Digraph) RemoveEdge(from, to string) {
	if _, ok := g.weights[from][to]; !ok {
		return
	}
	delete(g.weights[from], to)
	g.outgoing[from] = slices.DeleteFunc(g.outgoing[from], func(s string) bool { return s == to })
	g.incoming[to] = slices.DeleteFunc(g.incoming[to], func(s string) bool { return s == from })
	g.edges--
}

// HasEdge reports whether the edge from→to exists.
func (g *Digraph) HasEdge(from, to string) bool {
	_, ok := g.weights[from][to]
	return ok
}

// Weight returns the weight of the edge from→to and true, or 0 and false if
// the edge does not exist.
func (g *Digraph) Weight(from, to string) (float64, bool) {
	w, ok := g.weights[from][to]
	return w, ok
}

// Node returns the node with the given ID and true, or nil and false if not found.
func (g *Digraph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether a node with the given ID exists.
func (g *Digraph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order. The returned slice contains
// pointers to the stored nodes.
func (g *Digraph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// NodeIDs returns all node IDs in insertion order.
func (g *Digraph) NodeIDs() []string { return slices.Clone(g.order) }

// Edges returns all edges, grouped by source node in node insertion order and
// by successor insertion order within a source.
func (g *Digraph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, from := range g.order {
		for _, to := range g.outgoing[from] {
			out = append(out, Edge{From: from, To: to, Weight: g.weights[from][to]})
		}
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (g *Digraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Digraph) EdgeCount() int { return g.edges }

// Successors returns the IDs of nodes this node has edges to.
// The returned slice should not be modified - use it as a read-only view.
func (g *Digraph) Successors(id string) []string { return g.outgoing[id] }

// Predecessors returns the IDs of nodes that have edges to this node.
// The returned slice should not be modified - use it as a read-only view.
func (g *Digraph) Predecessors(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (g *Digraph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (g *Digraph) InDegree(id string) int { return len(g.incoming[id]) }

// Sinks returns nodes with no outgoing edges, in insertion order.
func (g *Digraph) Sinks() []*Node {
	var sinks []*Node
	for _, id := range g.order {
		if len(g.outgoing[id]) == 0 {
			sinks = append(sinks, g.nodes[id])
		}
	}
	return sinks
}

// Validate checks graph integrity and returns nil if valid.
// It verifies that every edge references existing nodes and carries a finite,
// non-negative weight.
func (g *Digraph) Validate() error {
	for from, targets := range g.weights {
		if _, ok := g.nodes[from]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSourceNode, from)
		}
		for to, w := range targets {
			if _, ok := g.nodes[to]; !ok {
				return fmt.Errorf("%w: %s", ErrUnknownTargetNode, to)
			}
			if !validWeight(w) {
				return fmt.Errorf("%w: %s->%s weight=%v", ErrInvalidWeight, from, to, w)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the graph. Node metadata maps are copied one
// level deep.
func (g *Digraph) Clone() *Digraph {
	meta := make(Metadata, len(g.meta))
	for k, v := range g.meta {
		meta[k] = v
	}
	out := New(meta)
	for _, n := range g.Nodes() {
		cp := Node{ID: n.ID, Meta: make(Metadata, len(n.Meta))}
		if n.Pos != nil {
			p := *n.Pos
			cp.Pos = &p
		}
		for k, v := range n.Meta {
			cp.Meta[k] = v
		}
		_ = out.AddNode(cp)
	}
	for _, e := range g.Edges() {
		_ = out.AddEdge(e)
	}
	return out
}

func validWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w >= 0
}
