package memory

import (
	"context"
	"sync"

	"github.com/lorekeep/loom/pkg/story"
)

// Loader implements ports.GraphLoader over an in-memory graph. It is the
// natural seam for an editor frontend: swap the graph after each edit and
// every subsequent Load sees the new snapshot.
type Loader struct {
	mu    sync.RWMutex
	graph *story.Graph
}

// NewLoader creates a Loader serving the given graph.
func NewLoader(g *story.Graph) *Loader {
	return &Loader{graph: g}
}

// Load returns a deep copy so callers never observe later edits.
func (l *Loader) Load(ctx context.Context) (*story.Graph, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.graph.Clone(), nil
}

// Replace swaps the served graph.
func (l *Loader) Replace(g *story.Graph) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graph = g
}
