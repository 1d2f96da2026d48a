// Command studytree renders chess PGN studies as trees of move runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/studytree/internal/cli"
	perrors "github.com/matzehuels/studytree/pkg/errors"
)

// Process exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130 // 128 + SIGINT
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	reportError(os.Stderr, err)
	os.Exit(exitCode(err))
}

// exitCode maps the outcome of a command to the process exit status. An
// interrupted command exits like a shell job killed by SIGINT.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		return exitFailure
	}
}

// reportError prints the user-facing message of err. Interruptions are
// silent.
func reportError(w io.Writer, err error) {
	if exitCode(err) != exitFailure {
		return
	}
	fmt.Fprintln(w, "Error:", perrors.UserMessage(err))
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug logs instead of the progress spinner")

	// Flags are parsed before the pre-run hook, so the level is set here.
	next := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		} else {
			c.SetLogLevel(cli.LogInfo)
		}
		if next == nil {
			return nil
		}
		return next(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
