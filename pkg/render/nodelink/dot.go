package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/studytree/pkg/config"
	"github.com/matzehuels/studytree/pkg/dag"
	"github.com/matzehuels/studytree/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Visual supplies layout direction, fonts and colors.
	Visual config.Visual

	// Detailed adds the node ID, row and metadata to node labels.
	Detailed bool
}

// DefaultOptions returns options built from config.Default.
func DefaultOptions() Options {
	return Options{Visual: config.Default()}
}

// ToDOT converts a study graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Runs are rounded boxes whose border width grows with the number of moves.
// Annotated runs and the edges into them use the annotation's accent color.
// The start of the study is a small filled circle.
func ToDOT(g *dag.DAG, opts Options) string {
	v := opts.Visual
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", v.Direction)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=%q, fontname=%q, fontsize=%s, margin=\"0.2,0.1\"];\n",
		v.Nodes.Color, v.DOT.FontName, num(v.DOT.FontSize))
	fmt.Fprintf(&buf, "  edge [color=%q, fontname=%q, fontsize=%s, fontcolor=%q];\n",
		v.Edges.Color, v.DOT.FontName, num(v.DOT.FontSize*0.8), v.Edges.FontColor)
	fmt.Fprintf(&buf, "  ranksep=%s;\n", num(v.DOT.RankSep))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", num(v.DOT.NodeSep))
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(*n, opts.Detailed)
		attrs := fmtAttrs(*n, label, v)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := fmtEdgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func fmtLabel(n dag.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}

	parts := []string{n.ID, fmt.Sprintf("row: %d", n.Row)}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	if n.Label != "" {
		parts = append([]string{n.Label}, parts...)
	}
	return strings.Join(parts, "\n")
}

// penWidth grows with the run length and levels off for long runs.
func penWidth(weight int) float64 {
	return 1 + float64(min(weight, 20))/5
}

func fmtAttrs(n dag.Node, label string, v config.Visual) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsRoot() {
		return append(attrs, "shape=circle", "width=0.3", "fixedsize=true", fmt.Sprintf("fillcolor=%q", v.Nodes.RootColor))
	}
	if n.Title != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Title))
	}
	attrs = append(attrs, "penwidth="+num(penWidth(n.Weight)))
	if n.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", n.Color))
	}
	return attrs
}

func fmtEdgeAttrs(e dag.Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if e.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", e.Color))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
