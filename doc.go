// Package loom is an engine for branching narrative graphs: scenes connected
// by conditional transitions over a typed variable pool.
//
// The library is split along hexagonal lines. The core packages are pure:
//
//   - pkg/story holds the rule model (nodes, edges, variables, pools) and
//     topology-derived scene classification.
//   - pkg/eval evaluates conditions and applies effects with loose scalar
//     coercion, so authoring mistakes degrade instead of crashing.
//   - pkg/analyze finds structural problems before a reader ever does:
//     unreachable scenes, dead ends, and contradictory conditions.
//   - pkg/sim walks the graph as a reader would, gated by scene
//     preconditions, with weighted random pool rolls.
//
// Around the core, pkg/ports defines the driven interfaces and pkg/adapters
// provides implementations: file and memory graph loaders, memory and Redis
// run stores, an HTTP API, and an MCP server. pkg/session serializes
// concurrent access to persisted runs.
//
// The Engine in this package ties the pieces together for the common case:
//
//	eng, err := loom.New("story.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	conflicts, err := eng.Conflicts(ctx)
package loom
