// Package render provides the output formats of a study diagram.
//
// # Overview
//
// A study graph can be rendered in two ways:
//
//   - As an interactive HTML page (in [visnet] subpackage), the default
//   - As a static Graphviz node-link diagram (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). They are used by the
// node-link renderer.
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Interactive Pages
//
// The [visnet] subpackage writes a self-contained HTML page that loads the
// vis-network library and lays the runs out hierarchically, one level per
// branch depth. Hovering a run shows its moves with comments.
//
//	html, err := visnet.RenderHTML(g, visnet.Options{Visual: config.Default()})
//
// [visnet]: github.com/matzehuels/studytree/pkg/render/visnet
// [nodelink]: github.com/matzehuels/studytree/pkg/render/nodelink
package render
