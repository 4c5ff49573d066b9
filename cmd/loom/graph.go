package main

import (
	"fmt"
	"os"

	"github.com/lorekeep/loom/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [graph]",
	Short: "Export the story graph visualization",
	Long:  `Inspects the story graph and outputs a Mermaid diagram (graph TD) with scene shapes derived from topology.`,
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := newEngine(cmd, args)
		if err != nil {
			fmt.Printf("Error initializing loom: %v\n", err)
			os.Exit(1)
		}

		g, err := eng.Graph(cmd.Context())
		if err != nil {
			fmt.Printf("Error loading graph: %v\n", err)
			os.Exit(1)
		}

		var overlay *graph.Overlay
		if highlight, _ := cmd.Flags().GetBool("conflicts"); highlight {
			conflicts, err := eng.Conflicts(cmd.Context())
			if err != nil {
				fmt.Printf("Error analyzing graph: %v\n", err)
				os.Exit(1)
			}
			overlay = graph.ConflictOverlay(conflicts)
		}

		fmt.Print(graph.GenerateMermaid(g, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("conflicts", false, "Highlight scenes named by conflict analysis")
}
