package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/studytree/pkg/cache"
	"github.com/matzehuels/studytree/pkg/dag"
	"github.com/matzehuels/studytree/pkg/graph"
	"github.com/matzehuels/studytree/pkg/observability"
	"github.com/matzehuels/studytree/pkg/pgn"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		TTL:    cache.DefaultTTL,
		Logger: logger,
	}
}

// Execute runs the complete parse → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result, err := r.Prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.Graph, result.SourceHash, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Prepare parses the source and builds the graph of the selected game
// without rendering it.
func (r *Runner) Prepare(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	name := opts.describe()

	// Stage 1: Parse
	parseStart := time.Now()
	observability.Pipeline().OnParseStart(ctx, name)
	src, games, err := r.parse(opts, name)
	parseTime := time.Since(parseStart)
	observability.Pipeline().OnParseComplete(ctx, name, len(games), parseTime, err)
	if err != nil {
		return nil, err
	}

	game, err := SelectGame(games, opts.Game)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Game:       game,
		Games:      len(games),
		SourceHash: cache.Hash(src),
	}
	result.Stats.ParseTime = parseTime

	r.Logger.Info("parsed study",
		"games", len(games),
		"game", game.Name(),
		"plies", game.MainlinePlies(),
		"duration", parseTime)

	// Stage 2: Build
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, game.Name())
	g, hit, err := r.BuildWithCacheInfo(ctx, game, result.SourceHash, opts)
	result.Stats.BuildTime = time.Since(buildStart)
	nodes := 0
	if g != nil {
		nodes = g.NodeCount()
	}
	observability.Pipeline().OnBuildComplete(ctx, game.Name(), nodes, result.Stats.BuildTime, err)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.CacheInfo.GraphHit = hit
	statsOf(g, &result.Stats)

	r.Logger.Info("built graph",
		"runs", result.Stats.Runs,
		"edges", result.Stats.Edges,
		"depth", result.Stats.Depth,
		"cached", hit,
		"duration", result.Stats.BuildTime)

	return result, nil
}

func (r *Runner) parse(opts Options, name string) ([]byte, []*pgn.Game, error) {
	src := opts.Source
	if src == nil {
		var err error
		if src, err = ReadSource(opts.Input); err != nil {
			return nil, nil, err
		}
	}
	games, err := Parse(src, name)
	if err != nil {
		return nil, nil, err
	}
	return src, games, nil
}

// BuildWithCacheInfo builds the graph of game, reusing a cached graph when
// one exists, and reports whether the cache was hit. Cached graphs keep
// their node identifiers, so re-rendering a study yields stable IDs even
// with random identifier generators.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, game *pgn.Game, sourceHash string, opts Options) (*dag.DAG, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}
	keyOpts, err := opts.GraphKeyOpts()
	if err != nil {
		return nil, false, fmt.Errorf("cache key: %w", err)
	}
	key := r.Keyer.GraphKey(sourceHash, keyOpts)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			g, err := graph.ReadGraph(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "graph")
				r.Logger.Debug("graph cache hit", "key", key)
				return g, true, nil
			}
			r.Logger.Debug("discarding unreadable cached graph", "key", key, "error", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "graph")

	g, err := Build(game, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := graph.MarshalGraph(g); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}
	return g, false, nil
}

// RenderWithCacheInfo renders every requested format, serving formats from
// the cache where possible. It reports whether all of them were cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *dag.DAG, sourceHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	keys := make(map[string]string, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		keyOpts, err := opts.ArtifactKeyOpts(format)
		if err != nil {
			return nil, false, fmt.Errorf("cache key: %w", err)
		}
		keys[format] = r.Keyer.ArtifactKey(sourceHash, keyOpts)

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, keys[format]); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				r.Logger.Debug("artifact cache hit", "format", format)
				artifacts[format] = data
				continue
			}
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, g, renderOpts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		if err := r.Cache.Set(ctx, keys[format], data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
