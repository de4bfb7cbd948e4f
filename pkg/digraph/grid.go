package digraph

import (
	"fmt"
	"math"
)

// GridID returns the node ID used by [Grid] for column x and row y.
func GridID(x, y int) string { return fmt.Sprintf("%d,%d", x, y) }

// Grid builds an 8-connected lattice of cols×rows nodes. Every pair of
// neighbouring nodes is joined in both directions; orthogonal edges weigh 1
// and diagonal edges weigh √2. Node IDs are "x,y" and positions are (x, y).
//
// Nodes are added row by row, left to right.
func Grid(cols, rows int) (*Digraph, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive: %dx%d", cols, rows)
	}
	g := New(Metadata{"kind": "grid", "cols": cols, "rows": rows})

	link := func(a, b string, w float64) error {
		if err := g.AddEdge(Edge{From: a, To: b, Weight: w}); err != nil {
			return err
		}
		return g.AddEdge(Edge{From: b, To: a, Weight: w})
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			id := GridID(x, y)
			if err := g.AddNode(Node{ID: id, Pos: &Point{X: float64(x), Y: float64(y)}}); err != nil {
				return nil, err
			}
			var err error
			if y > 0 {
				err = link(id, GridID(x, y-1), 1)
			}
			if err == nil && y > 0 && x > 0 {
				err = link(id, GridID(x-1, y-1), math.Sqrt2)
			}
			if err == nil && x > 0 {
				err = link(id, GridID(x-1, y), 1)
			}
			if err == nil && y > 0 && x < cols-1 {
				err = link(id, GridID(x+1, y-1), math.Sqrt2)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
