package analyze

import "github.com/lorekeep/loom/pkg/story"

// Reachable reports whether the target scene can be reached from the graph's
// roots by following outgoing edges.
//
// Roots are scenes with no incoming edge. A graph with no roots (every scene
// sits on a cycle) falls back to starting from its first scene, so the search
// always has a starting point. O(V+E) per call.
func Reachable(targetID string, g *story.Graph) bool {
	if _, ok := g.NodeByID(targetID); !ok {
		return false
	}
	return reachableSet(g)[targetID]
}

// reachableSet runs one BFS and returns every scene id visited. Edges with
// dangling targets contribute nothing; the walk simply treats them as absent.
func reachableSet(g *story.Graph) map[string]bool {
	queue := g.Roots()
	if len(queue) == 0 && len(g.Nodes) > 0 {
		queue = []string{g.Nodes[0].ID}
	}

	visited := make(map[string]bool, len(g.Nodes))
	for _, id := range queue {
		visited[id] = true
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range g.Outgoing(current) {
			if _, ok := g.NodeByID(e.Target); !ok {
				continue
			}
			if !visited[e.Target] {
				visited[e.Target] = true
				queue = append(queue, e.Target)
			}
		}
	}
	return visited
}
