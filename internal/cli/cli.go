// Package cli implements the studytree command-line interface.
//
// # Commands
//
//   - render: draw a PGN study as an HTML page, SVG, PNG, PDF, DOT or JSON
//   - inspect: print the runs of a study as a table
//   - games: list the games of a multi-game PGN file
//   - config: write and check visual option files
//   - cache: manage the artifact cache
//   - completion: generate shell completion scripts
//
// Running studytree with a file and no command is the same as render.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every pipeline stage and cache lookup.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/studytree/pkg/buildinfo"
	"github.com/matzehuels/studytree/pkg/cache"
	"github.com/matzehuels/studytree/pkg/observability"
	"github.com/matzehuels/studytree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "studytree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline and
// cache hooks are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := &logHooks{logger: c.Logger}
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
}

// Verbose reports whether debug logging is enabled.
func (c *CLI) Verbose() bool {
	return c.Logger.GetLevel() <= log.DebugLevel
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself renders a study, so "studytree game.pgn" works
// without naming the render command.
func (c *CLI) RootCommand() *cobra.Command {
	opts := defaultRenderOpts()

	root := &cobra.Command{
		Use:   appName + " [study.pgn]",
		Short: "Studytree draws chess studies as trees of lines",
		Long: `Studytree reads a PGN study with its variations, comments and annotations and
draws it as a tree: every box is a run of moves without alternatives, every
arrow a branch into another line.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	addRenderFlags(root, &opts)

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.gamesCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped by
// build so that an upgrade never serves artifacts of an older renderer.
func (c *CLI) newRunner(noCache bool, logger *log.Logger) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	return pipeline.NewRunner(store, keyer, logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/studytree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
