package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgalaxy/internal/cli"
	sgerrors "github.com/matzehuels/skillgalaxy/pkg/errors"
)

// Exit codes. Input problems get their own code so scripts can tell a bad
// catalog or flag apart from a failed render.
const (
	exitError       = 1
	exitBadInput    = 2
	exitInterrupted = 130 // shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and pipeline hooks")

	// The level must be set before the root pre-run loads the config, so
	// config loading can already log at debug.
	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return loadConfig(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	switch sgerrors.GetCode(err) {
	case sgerrors.ErrCodeInvalidInput,
		sgerrors.ErrCodeInvalidCatalog,
		sgerrors.ErrCodeInvalidFormat,
		sgerrors.ErrCodeInvalidStyle,
		sgerrors.ErrCodeInvalidPath,
		sgerrors.ErrCodeInvalidNode,
		sgerrors.ErrCodeInvalidConfig,
		sgerrors.ErrCodeNodeNotFound,
		sgerrors.ErrCodeFileNotFound:
		return exitBadInput
	}
	return exitError
}
