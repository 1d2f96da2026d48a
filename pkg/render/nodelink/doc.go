// Package nodelink renders study graphs as static node-link diagrams.
//
// # Overview
//
// This package produces directed graph drawings using Graphviz: every run
// of moves is a rounded box, every branch an arrow labelled with the first
// move of the line it leads to. It is the printable counterpart of the
// interactive page in the visnet package.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.DefaultOptions())
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Visual: direction (rankdir), fonts, spacing and colors
//   - Detailed: When true, node labels include the ID, row and metadata
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
