// Package visnet renders study graphs as interactive HTML pages.
//
// The page is self-contained apart from the vis-network library, which is
// loaded from a CDN. Runs are laid out hierarchically, one level per branch
// depth, in the direction set by [config.Visual]. Hovering a run shows its
// moves and comments; nodes can be dragged and the view zoomed.
//
//	html, err := visnet.RenderHTML(g, visnet.Options{Visual: config.Default()})
//
// [config.Visual]: github.com/matzehuels/studytree/pkg/config
package visnet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/matzehuels/studytree/pkg/config"
	"github.com/matzehuels/studytree/pkg/dag"
)

// ScriptURL is the vis-network build referenced by rendered pages.
const ScriptURL = "https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"

// Options configures page rendering.
type Options struct {
	Visual config.Visual
	// Title is the page title. Defaults to the graph's "name" metadata.
	Title string
}

type visNode struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Title       string  `json:"title,omitempty"`
	Level       int     `json:"level"`
	Value       int     `json:"value"`
	Shape       string  `json:"shape"`
	Color       *color  `json:"color,omitempty"`
	BorderWidth int     `json:"borderWidth,omitempty"`
	Size        float64 `json:"size,omitempty"`
}

type color struct {
	Background string `json:"background,omitempty"`
	Border     string `json:"border,omitempty"`
}

type visEdge struct {
	From  string     `json:"from"`
	To    string     `json:"to"`
	Label string     `json:"label,omitempty"`
	Color *edgeColor `json:"color,omitempty"`
}

type edgeColor struct {
	Color string `json:"color"`
}

type network struct {
	Nodes []visNode `json:"nodes"`
	Edges []visEdge `json:"edges"`
}

// Network converts g to the node and edge arrays of a vis-network DataSet.
func Network(g *dag.DAG, v config.Visual) ([]byte, error) {
	net := network{
		Nodes: make([]visNode, 0, g.NodeCount()),
		Edges: make([]visEdge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		vn := visNode{
			ID:    n.ID,
			Label: n.Label,
			Title: n.Title,
			Level: n.Row,
			Value: n.Weight,
			Shape: v.Nodes.Shape,
		}
		switch {
		case n.IsRoot():
			vn.Shape = "dot"
			vn.Size = float64(v.Nodes.Size) / 3
			vn.Color = &color{Background: v.Nodes.RootColor, Border: v.Nodes.RootColor}
		case n.Color != "":
			vn.Color = &color{Background: v.Nodes.Color, Border: n.Color}
			vn.BorderWidth = v.Nodes.BorderWidth * 2
		}
		net.Nodes = append(net.Nodes, vn)
	}
	for _, e := range g.Edges() {
		ve := visEdge{From: e.From, To: e.To, Label: e.Label}
		if e.Color != "" {
			ve.Color = &edgeColor{Color: e.Color}
		}
		net.Edges = append(net.Edges, ve)
	}
	return json.Marshal(net)
}

// NetworkOptions returns the vis-network options object for v.
func NetworkOptions(v config.Visual) map[string]any {
	return map[string]any{
		"nodes": map[string]any{
			"borderWidth":         v.Nodes.BorderWidth,
			"borderWidthSelected": v.Nodes.BorderWidthSelected,
			"shape":               v.Nodes.Shape,
			"size":                v.Nodes.Size,
			"color":               map[string]any{"background": v.Nodes.Color, "border": v.Edges.Color},
			"font":                map[string]any{"size": v.Nodes.FontSize, "face": "monospace", "multi": false},
		},
		"edges": map[string]any{
			"width":  v.Edges.Width,
			"color":  v.Edges.Color,
			"arrows": map[string]any{"to": map[string]any{"enabled": false}},
			"font": map[string]any{
				"size":  v.Edges.FontSize,
				"align": "middle",
				"color": v.Edges.FontColor,
			},
			"smooth": map[string]any{
				"type":           v.Edges.Smooth,
				"roundness":      v.Edges.Roundness,
				"forceDirection": forceDirection(v),
			},
		},
		"layout": map[string]any{
			"hierarchical": map[string]any{
				"enabled":         true,
				"levelSeparation": v.LevelSeparation,
				"nodeSeparation":  v.NodeSeparation,
				"direction":       v.Direction,
				"sortMethod":      v.SortMethod,
				"shakeTowards":    "roots",
			},
		},
		"physics": map[string]any{
			"enabled": v.Physics.Enabled,
			"hierarchicalRepulsion": map[string]any{
				"centralGravity": v.Physics.CentralGravity,
				"avoidOverlap":   v.Physics.AvoidOverlap,
				"springLength":   v.Physics.SpringLength,
			},
			"minVelocity": v.Physics.MinVelocity,
			"solver":      v.Physics.Solver,
		},
		"interaction": map[string]any{
			"hover":        true,
			"tooltipDelay": 100,
		},
	}
}

// forceDirection bends edges along the layout axis.
func forceDirection(v config.Visual) string {
	if v.Vertical() {
		return "vertical"
	}
	return "horizontal"
}

// RenderHTML renders g as a complete HTML document.
func RenderHTML(g *dag.DAG, opts Options) ([]byte, error) {
	if opts.Title == "" {
		opts.Title = "Study"
		if name, ok := g.Meta()["name"].(string); ok && name != "" {
			opts.Title = name
		}
	}

	data, err := Network(g, opts.Visual)
	if err != nil {
		return nil, fmt.Errorf("encode network: %w", err)
	}
	options, err := json.Marshal(NetworkOptions(opts.Visual))
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}

	page := struct {
		Title     string
		ScriptURL string
		Width     string
		Height    string
		Network   template.JS
		Options   template.JS
		Runs      int
		Moves     int
	}{
		Title:     opts.Title,
		ScriptURL: ScriptURL,
		Width:     opts.Visual.Width,
		Height:    opts.Visual.Height,
		Network:   template.JS(data),
		Options:   template.JS(options),
		Runs:      max(g.NodeCount()-1, 0),
		Moves:     g.TotalWeight(),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="generator" content="studytree">
    <title>{{.Title}}</title>
    <script src="{{.ScriptURL}}"></script>
    <style>
        body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; }
        header { padding: 8px 16px; border-bottom: 1px solid #ddd; }
        header h1 { font-size: 16px; margin: 0; display: inline; }
        header span { color: #777; font-size: 13px; margin-left: 12px; }
        #study { border: 0; }
        div.vis-tooltip { white-space: pre-wrap; font-family: monospace; font-size: 14px; max-width: 480px; }
    </style>
</head>
<body>
    <header><h1>{{.Title}}</h1><span>{{.Runs}} lines, {{.Moves}} moves</span></header>
    <div id="study" style="width: {{.Width}}; height: {{.Height}};"></div>
    <script>
        const network = {{.Network}};
        const options = {{.Options}};
        const container = document.getElementById("study");
        const data = {
            nodes: new vis.DataSet(network.nodes),
            edges: new vis.DataSet(network.edges)
        };
        const graph = new vis.Network(container, data, options);
        graph.once("stabilizationIterationsDone", function () { graph.fit(); });
    </script>
</body>
</html>
`
