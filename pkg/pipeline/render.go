package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/studytree/pkg/dag"
	perrors "github.com/matzehuels/studytree/pkg/errors"
	"github.com/matzehuels/studytree/pkg/graph"
	"github.com/matzehuels/studytree/pkg/render"
	"github.com/matzehuels/studytree/pkg/render/nodelink"
	"github.com/matzehuels/studytree/pkg/render/visnet"
)

// Render generates output artifacts in the requested formats. Either every
// format is rendered or an error is returned.
func Render(ctx context.Context, g *dag.DAG, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	var dot string
	dotSource := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(g, nodelink.Options{Visual: opts.Visual, Detailed: opts.Detailed})
		}
		return dot
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatHTML:
			data, err = visnet.RenderHTML(g, visnet.Options{Visual: opts.Visual, Title: opts.Title})
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dotSource())
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dotSource(), opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dotSource())
		case FormatDOT:
			data = []byte(dotSource())
		case FormatJSON:
			data, err = graph.MarshalGraph(g)
		default:
			return nil, ValidateFormat(format)
		}

		if errors.Is(err, render.ErrConverterMissing) {
			return nil, perrors.Wrap(perrors.ErrCodeUnsupported, err, "%s output is unavailable", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
