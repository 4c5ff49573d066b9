package main

import (
	"log/slog"

	"github.com/lorekeep/loom"
	"github.com/lorekeep/loom/internal/logging"
	"github.com/spf13/cobra"
)

// newLogger builds the CLI logger honoring the --debug flag.
func newLogger(cmd *cobra.Command) *slog.Logger {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelInfo)
}

// newEngine initializes the engine from the --graph flag, with an optional
// positional path override.
func newEngine(cmd *cobra.Command, args []string, opts ...loom.Option) (*loom.Engine, error) {
	path, _ := cmd.Flags().GetString("graph")
	if !cmd.Flags().Changed("graph") && len(args) > 0 {
		path = args[0]
	}
	opts = append([]loom.Option{loom.WithLogger(newLogger(cmd))}, opts...)
	return loom.New(path, opts...)
}
