package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lorekeep/loom"
	"github.com/lorekeep/loom/pkg/analyze"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [graph]",
	Short: "Check the story graph for conflicts",
	Long: `Runs static analysis over the graph and reports unreachable scenes,
dead ends, and contradictory conditions. Exits non-zero when any
error-severity conflict is found.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("exhaustive", false, "Use interval reasoning to catch all contradictory condition sets")
	validateCmd.Flags().Bool("skip-endings", false, "Do not flag choice-less terminal scenes as dead ends")
	validateCmd.Flags().Bool("json", false, "Emit conflicts as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	exhaustive, _ := cmd.Flags().GetBool("exhaustive")
	skipEndings, _ := cmd.Flags().GetBool("skip-endings")
	jsonMode, _ := cmd.Flags().GetBool("json")

	eng, err := newEngine(cmd, args, loom.WithAnalyzerOptions(analyze.Options{
		ExhaustiveContradictions: exhaustive,
		SkipEndings:              skipEndings,
	}))
	if err != nil {
		return fmt.Errorf("failed to init engine: %w", err)
	}

	conflicts, err := eng.Conflicts(cmd.Context())
	if err != nil {
		return err
	}

	if jsonMode {
		data, err := json.MarshalIndent(conflicts, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else if len(conflicts) == 0 {
		fmt.Println("Story graph is clean! ✅")
	} else {
		for _, c := range conflicts {
			fmt.Printf("[%s] %s: %s\n", c.Severity, c.Kind, c.Message)
			if c.Suggestion != "" {
				fmt.Printf("        hint: %s\n", c.Suggestion)
			}
		}
	}

	for _, c := range conflicts {
		if c.Severity == analyze.SeverityError {
			return fmt.Errorf("%d conflict(s) found", len(conflicts))
		}
	}
	return nil
}
