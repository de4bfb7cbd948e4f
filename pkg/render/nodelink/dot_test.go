package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stoproute/pkg/digraph"
	"github.com/matzehuels/stoproute/pkg/termination"
)

func smallGraph(t *testing.T, withPos bool) *digraph.Digraph {
	t.Helper()
	g := digraph.New(nil)
	for i, id := range []string{"a", "b", "c"} {
		n := digraph.Node{ID: id}
		if withPos {
			n.Pos = &digraph.Point{X: float64(i) * 2, Y: 1}
		}
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	_ = g.AddEdge(digraph.Edge{From: "a", To: "b", Weight: 1})
	_ = g.AddEdge(digraph.Edge{From: "b", To: "c", Weight: 1})
	_ = g.AddEdge(digraph.Edge{From: "c", To: "a", Weight: 1})
	return g
}

func TestToDOTRoutes(t *testing.T) {
	g := smallGraph(t, false)
	dot := ToDOT(g, Overlay{
		Values: map[string]float64{"a": 0, "b": 10},
		Routes: []termination.Route{{From: "a", To: "b"}},
		Labels: true,
	})

	if !strings.Contains(dot, `"a" -> "b";`) {
		t.Error("missing routing edge")
	}
	if strings.Contains(dot, `"b" -> "c"`) {
		t.Error("graph edges should be hidden when routes are given")
	}
	if !strings.Contains(dot, `fillcolor="#bdbdbd"`) {
		t.Error("node without value should be grey")
	}
	if !strings.Contains(dot, `label="a"`) {
		t.Error("labels requested")
	}
	if strings.Contains(dot, "pos=") {
		t.Error("unpinned graph must not carry positions")
	}
	if LayoutFor(g) != graphviz.DOT {
		t.Errorf("LayoutFor() = %v, want dot", LayoutFor(g))
	}
}

func TestToDOTPinned(t *testing.T) {
	g := smallGraph(t, true)
	dot := ToDOT(g, Overlay{Width: 8, Path: []termination.Route{{From: "c", To: "a"}}})

	if !strings.Contains(dot, `"c" [fillcolor="#bdbdbd", pos="8.0000,0.0000!"]`) {
		t.Errorf("pinned position not scaled:\n%s", dot)
	}
	if !strings.Contains(dot, `"b" -> "c";`) {
		t.Error("graph edges expected without routes")
	}
	if !strings.Contains(dot, `"c" -> "a" [color=crimson, penwidth=3];`) {
		t.Error("path edge not highlighted")
	}
	if LayoutFor(g) != graphviz.NEATO {
		t.Errorf("LayoutFor() = %v, want neato", LayoutFor(g))
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		v, lo, hi float64
		want      string
	}{
		{0, 0, 1, gradient[0]},
		{1, 0, 1, gradient[len(gradient)-1]},
		{-5, 0, 1, gradient[0]},
		{9, 0, 1, gradient[len(gradient)-1]},
		{0.5, 0, 1, gradient[2]},
		{3, 3, 3, gradient[0]},
	}
	for _, tt := range tests {
		if got := Color(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Color(%v, %v, %v) = %s, want %s", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	g := smallGraph(t, false)
	svg, err := RenderSVG(context.Background(), ToDOT(g, Overlay{}), LayoutFor(g))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
}
