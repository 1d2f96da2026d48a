// Package pipeline provides the parse → build → render pipeline behind the
// studytree commands.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read a PGN document and select one of its games
//  2. Build: compact the game's move tree into a graph of runs
//  3. Render: generate output in the requested formats (HTML, SVG, PNG, PDF,
//     DOT, JSON)
//
// The built graph and every rendered artifact are cached by the content hash
// of the PGN source and the options that shape them.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "italian.pgn",
//	    Formats: []string{pipeline.FormatHTML, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	html := result.Artifacts[pipeline.FormatHTML]
//
// Prepare runs the first two stages only, for commands that inspect the
// graph without rendering it.
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/studytree/pkg/cache"
	"github.com/matzehuels/studytree/pkg/config"
	"github.com/matzehuels/studytree/pkg/dag"
	perrors "github.com/matzehuels/studytree/pkg/errors"
	"github.com/matzehuels/studytree/pkg/pgn"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultGame is the 1-based index of the game rendered from a
	// multi-game file.
	DefaultGame = 1

	// DefaultScale is the resolution multiplier of PNG output.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// DefaultFormat is the format written when none is requested.
const DefaultFormat = FormatHTML

// Formats lists the supported output formats in display order.
var Formats = []string{FormatHTML, FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Identifier generators for graph nodes.
const (
	IDsUUID    = "uuid"
	IDsCounter = "counter"
)

// DefaultIDs is the identifier generator used when none is requested.
const DefaultIDs = IDsUUID

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Input is the path of the PGN file. Ignored when Source is set.
	Input string
	// Source is the PGN document itself.
	Source []byte
	// Game is the 1-based index of the game to render.
	Game int

	// Build options
	IDs string

	// Render options
	Formats  []string
	Visual   config.Visual
	Title    string  // HTML page title; defaults to the game name
	Detailed bool    // DOT labels include IDs and metadata
	Scale    float64 // PNG resolution multiplier

	// Refresh ignores cached results but still stores new ones.
	Refresh bool

	// Runtime options
	Logger *log.Logger

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Game is the selected game.
	Game *pgn.Game

	// Games is the number of games in the source.
	Games int

	// SourceHash is the SHA-256 of the PGN source.
	SourceHash string

	// Graph is the study graph of Game.
	Graph *dag.DAG

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Runs       int // nodes excluding the start of the study
	Moves      int
	Edges      int
	Depth      int // deepest row
	ParseTime  time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GraphHit  bool // Whether the graph came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return perrors.New(perrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateIDs checks that an identifier generator name is valid.
func ValidateIDs(ids string) error {
	if ids != IDsUUID && ids != IDsCounter {
		return perrors.New(perrors.ErrCodeInvalidInput,
			"invalid ids: %q (must be one of: %s, %s)", ids, IDsUUID, IDsCounter)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates, and validates every entry.
func ParseFormats(list string) ([]string, error) {
	var formats []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(list, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		seen[f] = true
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return []string{DefaultFormat}, nil
	}
	return formats, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks the fields needed to parse and build.
func (o *Options) ValidateForBuild() error {
	if o.Source == nil {
		if err := perrors.ValidateInputPath(o.Input); err != nil {
			return err
		}
	}
	if o.Game == 0 {
		o.Game = DefaultGame
	}
	if o.Game < 0 {
		return perrors.New(perrors.ErrCodeGameNotFound, "game index must be positive, got %d", o.Game)
	}
	if o.IDs == "" {
		o.IDs = DefaultIDs
	}
	if err := ValidateIDs(o.IDs); err != nil {
		return err
	}
	if o.Visual.Direction == "" {
		o.Visual = config.Default()
	}
	if err := o.Visual.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender checks the render fields and applies their defaults.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Visual.Direction == "" {
		o.Visual = config.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormats(o.Formats)
}

// GraphKeyOpts returns cache key options for the built graph.
func (o *Options) GraphKeyOpts() (cache.GraphKeyOpts, error) {
	colors, err := cache.HashValue(o.Visual.Palette())
	if err != nil {
		return cache.GraphKeyOpts{}, err
	}
	return cache.GraphKeyOpts{
		Game:   o.Game,
		IDs:    o.IDs,
		Colors: colors,
	}, nil
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) (cache.ArtifactKeyOpts, error) {
	render, err := cache.HashValue(struct {
		Visual   config.Visual
		Title    string
		Detailed bool
		Scale    float64
	}{o.Visual, o.Title, o.Detailed, o.Scale})
	if err != nil {
		return cache.ArtifactKeyOpts{}, err
	}
	return cache.ArtifactKeyOpts{
		Game:   o.Game,
		IDs:    o.IDs,
		Format: format,
		Render: render,
	}, nil
}

// describe returns a short name for log lines.
func (o *Options) describe() string {
	if o.Source != nil {
		return fmt.Sprintf("<%d bytes>", len(o.Source))
	}
	return o.Input
}
