package nodelink

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/stoproute/pkg/digraph"
	"github.com/matzehuels/stoproute/pkg/termination"
)

// Overlay selects what is drawn on top of the graph.
type Overlay struct {
	// Values colors each node on the gradient. Nodes without a value are
	// drawn grey.
	Values map[string]float64
	// Min and Max bound the color scale. When both are zero the range of
	// Values is used.
	Min, Max float64
	// Routes are drawn as arrows. When empty, the graph's own edges are drawn.
	Routes []termination.Route
	// Path edges are drawn thick on top of the routes.
	Path []termination.Route
	// Highlight nodes are drawn larger, e.g. caller locations.
	Highlight []string
	// Labels shows node IDs. Without labels nodes are drawn as points.
	Labels bool
	// Width is the size in inches of the longer side of a pinned drawing.
	// Zero means 10.
	Width float64
}

// gradient is the color scale from low to high values.
var gradient = []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"}

// Pinned reports whether every node of g has a position, in which case
// [ToDOT] pins nodes and [LayoutFor] selects neato.
func Pinned(g *digraph.Digraph) bool {
	if g.NodeCount() == 0 {
		return false
	}
	for _, n := range g.Nodes() {
		if n.Pos == nil {
			return false
		}
	}
	return true
}

// ToDOT converts g and the overlay to Graphviz DOT source.
func ToDOT(g *digraph.Digraph, ov Overlay) string {
	lo, hi := ov.scale()
	pinned := Pinned(g)
	var place func(digraph.Point) (float64, float64)
	if pinned {
		place = ov.placer(g)
	}
	highlight := make(map[string]bool, len(ov.Highlight))
	for _, id := range ov.Highlight {
		highlight[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if pinned {
		buf.WriteString("  splines=false;\n")
	} else {
		buf.WriteString("  rankdir=LR;\n")
	}
	if ov.Labels {
		buf.WriteString("  node [shape=circle, style=filled, fontsize=10, fontcolor=white, penwidth=0];\n")
	} else {
		buf.WriteString("  node [shape=point, width=0.12, penwidth=0];\n")
	}
	buf.WriteString("  edge [color=grey55, arrowsize=0.5];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("fillcolor=%q", nodeColor(ov.Values, n.ID, lo, hi))}
		if ov.Labels {
			attrs = append(attrs, fmt.Sprintf("label=%q", n.ID))
		}
		if v, ok := ov.Values[n.ID]; ok {
			attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.ID+": "+strconv.FormatFloat(v, 'g', 6, 64)))
		}
		if highlight[n.ID] {
			attrs = append(attrs, "width=0.3", "height=0.3", "penwidth=2", "color=black")
		}
		if pinned {
			x, y := place(*n.Pos)
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtCoord(x), fmtCoord(y)))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	if len(ov.Routes) > 0 {
		for _, r := range ov.Routes {
			fmt.Fprintf(&buf, "  %q -> %q;\n", r.From, r.To)
		}
	} else {
		for _, e := range g.Edges() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}
	for _, r := range ov.Path {
		fmt.Fprintf(&buf, "  %q -> %q [color=crimson, penwidth=3];\n", r.From, r.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (ov Overlay) scale() (float64, float64) {
	if ov.Min != 0 || ov.Max != 0 {
		return ov.Min, ov.Max
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range ov.Values {
		lo, hi = min(lo, v), max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

// nodeColor maps the value of id onto the gradient. Values outside [lo, hi]
// are clamped.
func nodeColor(values map[string]float64, id string, lo, hi float64) string {
	v, ok := values[id]
	if !ok {
		return "#bdbdbd"
	}
	return Color(v, lo, hi)
}

// Color returns the gradient color of v on the scale [lo, hi] as a hex string.
func Color(v, lo, hi float64) string {
	t := 0.0
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	t = min(max(t, 0), 1)

	seg := t * float64(len(gradient)-1)
	i := min(int(seg), len(gradient)-2)
	switch f := seg - float64(i); f {
	case 0:
		return gradient[i]
	case 1:
		return gradient[i+1]
	default:
		a, _ := colorful.Hex(gradient[i])
		b, _ := colorful.Hex(gradient[i+1])
		return a.BlendLab(b, f).Clamped().Hex()
	}
}

// placer maps node positions into a box whose longer side is ov.Width inches.
func (ov Overlay) placer(g *digraph.Digraph) func(digraph.Point) (float64, float64) {
	width := ov.Width
	if width <= 0 {
		width = 10
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range g.Nodes() {
		minX, maxX = min(minX, n.Pos.X), max(maxX, n.Pos.X)
		minY, maxY = min(minY, n.Pos.Y), max(maxY, n.Pos.Y)
	}
	span := max(maxX-minX, maxY-minY)
	k := 1.0
	if span > 0 {
		k = width / span
	}
	return func(p digraph.Point) (float64, float64) {
		return (p.X - minX) * k, (p.Y - minY) * k
	}
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
