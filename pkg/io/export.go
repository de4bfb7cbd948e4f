package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stoproute/pkg/digraph"
)

// WriteJSON encodes g as JSON and writes it to w. Costs present in costs are
// stored on their nodes. The output can be re-imported with [ReadJSON].
func WriteJSON(g *digraph.Digraph, costs Costs, w io.Writer) error {
	nodes, edges := g.Nodes(), g.Edges()
	out := graph{
		Nodes: make([]node, len(nodes)),
		Edges: make([]edge, len(edges)),
	}

	for i, n := range nodes {
		nd := node{ID: n.ID}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		if n.Pos != nil {
			nd.Pos = &[2]float64{n.Pos.X, n.Pos.Y}
		}
		if c, ok := costs.Primary[n.ID]; ok {
			nd.Cost = &c
		}
		if c, ok := costs.Secondary[n.ID]; ok {
			nd.Cost2 = &c
		}
		out.Nodes[i] = nd
	}
	for i, e := range edges {
		w := e.Weight
		out.Edges[i] = edge{From: e.From, To: e.To, Weight: &w}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *digraph.Digraph, costs Costs, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, costs, f)
}
