package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lorekeep/loom"
	"github.com/lorekeep/loom/internal/presentation/tui"
	"github.com/lorekeep/loom/pkg/sim"
	"github.com/lorekeep/loom/pkg/story"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [graph]",
	Short: "Walk the story interactively",
	Long: `Starts a simulation at the story's entry scene and walks it from the
terminal. Transitions gated by unmet scene preconditions are hidden, exactly
as a reader would experience them.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSimulate(cmd, args); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Int64("seed", 0, "Seed for pool rolls (0 uses a random seed)")
	simulateCmd.Flags().Bool("plain", false, "Disable markdown rendering and colors")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	var engOpts []loom.Option
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		engOpts = append(engOpts, loom.WithRand(rand.New(rand.NewSource(seed))))
	}

	eng, err := newEngine(cmd, args, engOpts...)
	if err != nil {
		return fmt.Errorf("failed to init engine: %w", err)
	}

	g, err := eng.Graph(cmd.Context())
	if err != nil {
		return err
	}

	run, err := eng.NewSimulation(cmd.Context())
	if err != nil {
		return err
	}

	plain, _ := cmd.Flags().GetBool("plain")
	interactive := !plain && term.IsTerminal(int(os.Stdout.Fd()))

	render := func(s string) string { return s }
	if interactive {
		tui.PrintBanner(loom.Version)
		render = tui.NewRenderer()
	}

	reader := bufio.NewReader(os.Stdin)

	for {
		printScene(g, run, render)

		if run.Terminal() {
			fmt.Println("\n--- The End ---")
			return nil
		}

		available := run.Available()
		for i, edge := range available {
			fmt.Printf("  %d) %s\n", i+1, edgeLabel(g, edge))
		}
		fmt.Print("> ")

		text, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		input := strings.TrimSpace(text)

		switch input {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			return nil
		case "roll", "r":
			edge, ok := run.PoolRoll(run.Snapshot().CurrentNodeID)
			if !ok {
				fmt.Println("Nothing to roll here.")
				continue
			}
			fmt.Printf("The dice pick: %s\n", edgeLabel(g, edge))
			run.Step(edge.ID)
		default:
			n, err := strconv.Atoi(input)
			if err != nil || n < 1 || n > len(available) {
				fmt.Println("Pick a number from the list, 'roll', or 'quit'.")
				continue
			}
			run.Step(available[n-1].ID)
		}
	}
}

func printScene(g *story.Graph, run *sim.Simulation, render func(string) string) {
	snap := run.Snapshot()
	node, ok := g.NodeByID(snap.CurrentNodeID)
	if !ok {
		fmt.Println("(the story has nowhere to begin)")
		return
	}

	title := node.Label
	if title == "" {
		title = node.ID
	}
	fmt.Printf("\n== %s ==\n", title)
	if node.Content != "" {
		fmt.Print(render(node.Content))
	}
}

func edgeLabel(g *story.Graph, edge story.Edge) string {
	if edge.Label != "" {
		return edge.Label
	}
	if target, ok := g.NodeByID(edge.Target); ok && target.Label != "" {
		return target.Label
	}
	return edge.Target
}
