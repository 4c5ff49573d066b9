package ports

import (
	"context"

	"github.com/lorekeep/loom/pkg/story"
)

// GraphLoader retrieves the story graph the engine should operate on. The
// graph is authored elsewhere and mutated between calls; the engine takes a
// snapshot per call and needs no change notifications; callers simply load
// again after each edit.
type GraphLoader interface {
	// Load returns the current graph snapshot. Implementations must return
	// a copy the caller may hold without seeing later edits.
	Load(ctx context.Context) (*story.Graph, error)
}
