// Package config holds the visual options of a rendered study diagram.
//
// The defaults reproduce a left-to-right hierarchical layout with wide
// spacing between levels, so that long runs of moves stay readable. Options
// can be overridden from a TOML file:
//
//	direction = "TB"
//	level_separation = 600
//
//	[edges]
//	color = "#888888"
//
//	[colors]
//	blunder = "#ff0000"
//
// Keys that are not recognized are reported as errors, so typos do not go
// unnoticed.
package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/studytree/pkg/errors"
	"github.com/matzehuels/studytree/pkg/study"
)

// Directions accepted for the hierarchical layout.
var Directions = []string{"LR", "RL", "TB", "BT"}

// SortMethods accepted for the hierarchical layout.
var SortMethods = []string{"directed", "hubsize"}

// Visual configures both the interactive HTML page and the Graphviz output.
type Visual struct {
	Direction       string `toml:"direction"`
	SortMethod      string `toml:"sort_method"`
	LevelSeparation int    `toml:"level_separation"`
	NodeSeparation  int    `toml:"node_separation"`
	Width           string `toml:"width"`
	Height          string `toml:"height"`

	Nodes   NodeStyle         `toml:"nodes"`
	Edges   EdgeStyle         `toml:"edges"`
	Physics Physics           `toml:"physics"`
	DOT     DOTStyle          `toml:"dot"`
	Colors  map[string]string `toml:"colors"`
}

// NodeStyle configures run nodes.
type NodeStyle struct {
	Shape               string `toml:"shape"`
	Size                int    `toml:"size"`
	FontSize            int    `toml:"font_size"`
	BorderWidth         int    `toml:"border_width"`
	BorderWidthSelected int    `toml:"border_width_selected"`
	Color               string `toml:"color"`
	RootColor           string `toml:"root_color"`
}

// EdgeStyle configures edges between runs.
type EdgeStyle struct {
	Width     int     `toml:"width"`
	Color     string  `toml:"color"`
	FontSize  int     `toml:"font_size"`
	FontColor string  `toml:"font_color"`
	Smooth    string  `toml:"smooth"`
	Roundness float64 `toml:"roundness"`
}

// Physics configures the hierarchical repulsion solver of the HTML page.
type Physics struct {
	Enabled        bool    `toml:"enabled"`
	Solver         string  `toml:"solver"`
	CentralGravity float64 `toml:"central_gravity"`
	AvoidOverlap   float64 `toml:"avoid_overlap"`
	SpringLength   int     `toml:"spring_length"`
	MinVelocity    float64 `toml:"min_velocity"`
}

// DOTStyle configures Graphviz output.
type DOTStyle struct {
	FontName string  `toml:"font_name"`
	FontSize float64 `toml:"font_size"`
	RankSep  float64 `toml:"rank_sep"`
	NodeSep  float64 `toml:"node_sep"`
}

// Default returns the built-in options.
func Default() Visual {
	return Visual{
		Direction:       "LR",
		SortMethod:      "directed",
		LevelSeparation: 2000,
		NodeSeparation:  2000,
		Width:           "100%",
		Height:          "1000px",
		Nodes: NodeStyle{
			Shape:               "box",
			Size:                300,
			FontSize:            60,
			BorderWidth:         3,
			BorderWidthSelected: 5,
			Color:               "#f5f5f5",
			RootColor:           "#a0c1f7",
		},
		Edges: EdgeStyle{
			Width:     200,
			Color:     "#a0c1f7",
			FontSize:  70,
			FontColor: "#000000",
			Smooth:    "continuous",
			Roundness: 0.75,
		},
		Physics: Physics{
			Enabled:        true,
			Solver:         "hierarchicalRepulsion",
			CentralGravity: 0,
			AvoidOverlap:   1,
			SpringLength:   200,
			MinVelocity:    0.75,
		},
		DOT: DOTStyle{
			FontName: "Helvetica",
			FontSize: 12,
			RankSep:  0.6,
			NodeSep:  0.3,
		},
	}
}

// Load reads a TOML file and applies it over the defaults. An empty path
// returns the defaults.
func Load(path string) (Visual, error) {
	v := Default()
	if path == "" {
		return v, nil
	}

	meta, err := toml.DecodeFile(path, &v)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Visual{}, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Visual{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Visual{}, perrors.New(perrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	v.Direction = strings.ToUpper(v.Direction)
	if err := v.Validate(); err != nil {
		return Visual{}, err
	}
	return v, nil
}

// Write encodes v as TOML to path.
func (v Visual) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(v); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Validate checks every option and returns the first problem as an
// INVALID_CONFIG error.
func (v Visual) Validate() error {
	invalid := func(format string, args ...any) error {
		return perrors.New(perrors.ErrCodeInvalidConfig, format, args...)
	}

	if !slices.Contains(Directions, v.Direction) {
		return invalid("direction %q must be one of %s", v.Direction, strings.Join(Directions, ", "))
	}
	if !slices.Contains(SortMethods, v.SortMethod) {
		return invalid("sort_method %q must be one of %s", v.SortMethod, strings.Join(SortMethods, ", "))
	}
	if v.LevelSeparation <= 0 || v.NodeSeparation <= 0 {
		return invalid("level_separation and node_separation must be positive")
	}
	if v.Nodes.Size <= 0 || v.Nodes.FontSize <= 0 || v.Edges.FontSize <= 0 {
		return invalid("sizes must be positive")
	}
	if v.Edges.Width < 0 || v.Nodes.BorderWidth < 0 || v.Nodes.BorderWidthSelected < 0 {
		return invalid("widths must not be negative")
	}
	if v.DOT.FontSize <= 0 || v.DOT.RankSep < 0 || v.DOT.NodeSep < 0 {
		return invalid("dot font_size must be positive and separations not negative")
	}

	for _, c := range []string{v.Nodes.Color, v.Nodes.RootColor, v.Edges.Color, v.Edges.FontColor} {
		if err := perrors.ValidateColor(c); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(v.Colors))
	for name := range v.Colors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if a, ok := study.ParseAnnotation(name); !ok || a == study.AnnotationNone {
			return invalid("colors: unknown annotation %q (want one of %s)", name, annotationNames())
		}
		if err := perrors.ValidateColor(v.Colors[name]); err != nil {
			return err
		}
	}
	return nil
}

// Palette returns the annotation color overrides.
func (v Visual) Palette() study.Palette {
	if len(v.Colors) == 0 {
		return nil
	}
	p := make(study.Palette, len(v.Colors))
	for name, color := range v.Colors {
		if a, ok := study.ParseAnnotation(name); ok {
			p[a] = color
		}
	}
	return p
}

// Vertical reports whether levels are stacked top to bottom (or bottom to
// top) rather than left to right.
func (v Visual) Vertical() bool {
	return v.Direction == "TB" || v.Direction == "BT"
}

func annotationNames() string {
	names := make([]string, 0, 6)
	for _, a := range study.Annotations() {
		names = append(names, a.String())
	}
	return strings.Join(names, ", ")
}
