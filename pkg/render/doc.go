// Package render converts rendered SVG to other formats.
//
// The [ToPDF] and [ToPNG] functions pipe an SVG through the external
// rsvg-convert tool (from librsvg). Diagram generation lives in the
// [nodelink] subpackage.
//
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.LayoutFor(g))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [nodelink]: github.com/matzehuels/stoproute/pkg/render/nodelink
package render
