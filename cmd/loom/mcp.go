package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	mcpadapter "github.com/lorekeep/loom/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [graph]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the engine as an MCP server over stdio.
This allows AI agents to inspect the story graph, run conflict analysis,
and drive simulations as tools.`,
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := newEngine(cmd, args)
		if err != nil {
			log.Fatalf("Error initializing loom: %v", err)
		}

		// Ensure logs don't corrupt JSON-RPC on stdout.
		log.SetOutput(os.Stderr)
		logger := newLogger(cmd)
		slog.SetDefault(logger)

		srv := mcpadapter.NewServer(eng.Loader())

		logger.Info("starting loom MCP server (stdio)")
		if err := srv.ServeStdio(); err != nil {
			logger.Error("MCP server execution failed", "err", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
