package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stoproute/pkg/digraph"

	errs "github.com/matzehuels/stoproute/pkg/errors"
)

// ReadJSON decodes a JSON graph from r and returns it with the costs stored
// on its nodes.
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed, and a
// wrapped digraph error if a node ID repeats or an edge is invalid. Node IDs
// are validated with [errs.ValidateNodeID] and costs must be finite.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*digraph.Digraph, Costs, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, Costs{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode graph")
	}

	g := digraph.New(nil)
	costs := Costs{Primary: map[string]float64{}, Secondary: map[string]float64{}}
	for _, n := range data.Nodes {
		if err := errs.ValidateNodeID(n.ID); err != nil {
			return nil, Costs{}, err
		}
		nd := digraph.Node{ID: n.ID, Meta: n.Meta}
		if n.Pos != nil {
			nd.Pos = &digraph.Point{X: n.Pos[0], Y: n.Pos[1]}
		}
		if err := g.AddNode(nd); err != nil {
			return nil, Costs{}, fmt.Errorf("node %s: %w", n.ID, err)
		}
		if n.Cost != nil {
			if err := errs.ValidateCost(n.ID, *n.Cost); err != nil {
				return nil, Costs{}, err
			}
			costs.Primary[n.ID] = *n.Cost
		}
		if n.Cost2 != nil {
			if err := errs.ValidateCost(n.ID, *n.Cost2); err != nil {
				return nil, Costs{}, err
			}
			costs.Secondary[n.ID] = *n.Cost2
		}
	}
	for _, e := range data.Edges {
		w := 1.0
		if e.Weight != nil {
			w = *e.Weight
		}
		if err := g.AddEdge(digraph.Edge{From: e.From, To: e.To, Weight: w}); err != nil {
			return nil, Costs{}, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}

	return g, costs, nil
}

// ImportJSON reads a JSON graph file at path. A missing file yields a
// FILE_NOT_FOUND error.
func ImportJSON(path string) (*digraph.Digraph, Costs, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Costs{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, Costs{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
