package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/studytree/pkg/config"
	"github.com/matzehuels/studytree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string  // output file (single format) or base path (multiple)
	formats   string  // comma-separated output formats
	game      int     // 1-based game index
	pick      bool    // choose the game interactively
	config    string  // TOML file with visual options
	direction string  // layout direction override
	ids       string  // node identifier generator
	title     string  // HTML page title
	detailed  bool    // include IDs and metadata in DOT labels
	scale     float64 // PNG resolution multiplier
	noCache   bool
	refresh   bool
}

func defaultRenderOpts() renderOpts {
	return renderOpts{
		game:  pipeline.DefaultGame,
		ids:   pipeline.DefaultIDs,
		scale: pipeline.DefaultScale,
	}
}

// addRenderFlags registers the render flags on cmd. The root command and
// the render command share them.
func addRenderFlags(cmd *cobra.Command, opts *renderOpts) {
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): html (default), svg, png, pdf, dot, json (comma-separated)")
	f.IntVar(&opts.game, "game", opts.game, "game to render from a multi-game file (1-based)")
	f.BoolVar(&opts.pick, "pick", false, "choose the game interactively")
	f.StringVar(&opts.config, "config", "", "TOML file with visual options")
	f.StringVar(&opts.direction, "direction", "", "layout direction: LR, RL, TB or BT")
	f.StringVar(&opts.ids, "ids", opts.ids, "node identifiers: uuid or counter")
	f.StringVar(&opts.title, "title", "", "HTML page title (default: game name)")
	f.BoolVar(&opts.detailed, "detailed", false, "show IDs and metadata in DOT labels")
	f.Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution multiplier")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(pipeline.Formats, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("direction", cobra.FixedCompletions(config.Directions, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("ids", cobra.FixedCompletions([]string{pipeline.IDsUUID, pipeline.IDsCounter}, cobra.ShellCompDirectiveNoFileComp))
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := defaultRenderOpts()

	cmd := &cobra.Command{
		Use:   "render [study.pgn]",
		Short: "Render a PGN study to HTML, SVG, PNG, PDF, DOT or JSON",
		Long: `Render a PGN study as a tree of runs.

Output is written next to the input with the .pgn extension replaced, unless
-o is given. With several formats, -o is a base path that gets one extension
per format.`,
		Example: `  studytree render italian.pgn
  studytree render italian.pgn -f svg,png --direction TB
  studytree render repertoire.pgn --pick -o out/repertoire`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	addRenderFlags(cmd, &opts)
	return cmd
}

// runRender renders the selected game of input and writes one file per
// format. Nothing is written unless every format rendered.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	formats, err := pipeline.ParseFormats(opts.formats)
	if err != nil {
		return err
	}
	visual, err := loadVisual(opts.config, opts.direction)
	if err != nil {
		return err
	}

	game := opts.game
	if opts.pick {
		game, err = c.pickGame(input)
		if err != nil {
			return err
		}
		if game == 0 {
			printInfo("No game selected")
			return nil
		}
	}

	logger := loggerFromContext(ctx)
	var spinner *Spinner
	if !c.Verbose() {
		logger = quietLogger(logger)
		spinner = newSpinnerWithContext(ctx, "Rendering "+filepath.Base(input)+"...")
		spinner.Start()
	}

	runner, err := c.newRunner(opts.noCache, logger)
	if err != nil {
		if spinner != nil {
			spinner.Stop()
		}
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Input:    input,
		Game:     game,
		IDs:      opts.ids,
		Formats:  formats,
		Visual:   visual,
		Title:    opts.title,
		Detailed: opts.detailed,
		Scale:    opts.scale,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, formats, input, opts.output)
	if err != nil {
		return err
	}
	prog.done("Rendered " + input)

	printSuccess("Rendered %s", StyleHighlight.Render(result.Game.Name()))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.RenderHit)
	if result.Stats.Runs == 0 {
		printWarning("The game has no moves; only the start of the study was drawn")
	}
	if result.Games > 1 && !opts.pick {
		printNextStep("Other games in this file", appName+" games "+input)
	}
	return nil
}

// loadVisual reads the visual options and applies the direction override.
func loadVisual(path, direction string) (config.Visual, error) {
	v, err := config.Load(path)
	if err != nil {
		return config.Visual{}, err
	}
	if direction != "" {
		v.Direction = strings.ToUpper(direction)
	}
	return v, v.Validate()
}

// =============================================================================
// Output Paths
// =============================================================================

// basePath derives the base output path from the output and input paths.
// Without an output the input extension is dropped; an output ending in a
// known format extension loses that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.ToLower(strings.TrimPrefix(ext, "."))] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps every format to its file. A single format with an
// explicit output is written to exactly that path.
func outputPaths(formats []string, input, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes the rendered formats and returns the written paths
// in format order. Every artifact is staged in a temporary file next to its
// target and renamed into place only after all of them were written, so a
// failure leaves no output behind.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := outputPaths(formats, input, output)

	staged := make([]string, 0, len(formats))
	discard := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}
	for _, f := range formats {
		tmp, err := stageArtifact(paths[f], artifacts[f])
		if err != nil {
			discard()
			return nil, err
		}
		staged = append(staged, tmp)
	}

	written := make([]string, 0, len(formats))
	for i, f := range formats {
		if err := os.Rename(staged[i], paths[f]); err != nil {
			for _, p := range written {
				os.Remove(p)
			}
			staged = staged[i:]
			discard()
			return nil, fmt.Errorf("write %s: %w", paths[f], err)
		}
		written = append(written, paths[f])
	}
	return written, nil
}

// stageArtifact writes data to a temporary file in the directory of path
// and returns the temporary file's name.
func stageArtifact(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".studytree-*")
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return tmp.Name(), nil
}
