package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	redisadapter "github.com/lorekeep/loom/pkg/adapters/redis"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage persistent simulation runs",
	Long:  `List, inspect, and remove simulation runs stored in Redis.`,
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all persisted runs",
	Run: func(cmd *cobra.Command, args []string) {
		store := getRunStore(cmd)
		defer store.Close()

		runs, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing runs: %v\n", err)
			os.Exit(1)
		}

		if len(runs) == 0 {
			fmt.Println("No persisted runs found.")
			return
		}

		fmt.Println("Persisted runs:")
		for _, r := range runs {
			fmt.Println("- " + r)
		}
	},
}

var runsInspectCmd = &cobra.Command{
	Use:   "inspect <run-id>",
	Short: "Inspect the state of a run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runID := args[0]
		store := getRunStore(cmd)
		defer store.Close()

		snap, err := store.Load(cmd.Context(), runID)
		if err != nil {
			fmt.Printf("Error loading run '%s': %v\n", runID, err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling state: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <run-id>...",
	Short: "Remove one or more runs",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getRunStore(cmd)
		defer store.Close()

		hasError := false
		for _, runID := range args {
			if err := store.Delete(cmd.Context(), runID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", runID, err)
				hasError = true
			} else {
				fmt.Printf("Removed run '%s'\n", runID)
			}
		}
		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsLsCmd)
	runsCmd.AddCommand(runsInspectCmd)
	runsCmd.AddCommand(runsRmCmd)

	runsCmd.PersistentFlags().String("redis", "localhost:6379", "Redis address holding the runs")
	runsCmd.PersistentFlags().String("redis-password", "", "Redis password")
	runsCmd.PersistentFlags().Int("redis-db", 0, "Redis database index")
}

func getRunStore(cmd *cobra.Command) *redisadapter.Store {
	addr, _ := cmd.Flags().GetString("redis")
	password, _ := cmd.Flags().GetString("redis-password")
	db, _ := cmd.Flags().GetInt("redis-db")
	return redisadapter.New(addr, password, db)
}
