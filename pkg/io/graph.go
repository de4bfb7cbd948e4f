package io

import (
	"github.com/matzehuels/stoproute/pkg/digraph"
)

// Costs holds the terminal costs found in a graph file. Nodes without a
// value are absent from the map.
type Costs struct {
	Primary   map[string]float64
	Secondary map[string]float64
}

type graph struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID    string           `json:"id"`
	Pos   *[2]float64      `json:"pos,omitempty"`
	Cost  *float64         `json:"cost,omitempty"`
	Cost2 *float64         `json:"cost2,omitempty"`
	Meta  digraph.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Weight *float64 `json:"weight,omitempty"`
}
