// Package nodelink draws a graph with its value function and routing policy
// as a node-link diagram.
//
// # Usage
//
// Convert a graph and an [Overlay] to DOT source, then render it:
//
//	dot := nodelink.ToDOT(g, nodelink.Overlay{
//	    Values: res.ExpectedCost,
//	    Routes: res.Routes,
//	})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.LayoutFor(g))
//
// Nodes are filled on a fixed color gradient by value. Routing edges are
// drawn as arrows, and an optional path is drawn on top in red.
//
// When every node has a position, nodes are pinned to it (scaled into a
// fixed-width box) and [LayoutFor] selects the neato engine so positions are
// kept. Otherwise the dot engine lays the graph out left to right.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering and [github.com/lucasb-eyer/go-colorful] for the gradient. PDF and
// PNG conversion requires librsvg (rsvg-convert).
package nodelink
