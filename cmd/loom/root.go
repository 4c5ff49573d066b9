package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Loom is a branching narrative graph engine",
	Long:  `Loom analyzes and simulates branching stories: scenes connected by conditional transitions over a typed variable pool.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("graph", "g", "story.yaml", "Path to the story graph document (YAML or JSON)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
