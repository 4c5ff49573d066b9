package ports

import (
	"context"
	"errors"

	"github.com/lorekeep/loom/pkg/sim"
)

// ErrRunNotFound is returned by RunStore.Load when no run exists under the
// given id.
var ErrRunNotFound = errors.New("run not found")

// RunStore persists simulation run snapshots, enabling stop-and-resume
// playthroughs across processes.
type RunStore interface {
	// Save persists the snapshot for a run id.
	Save(ctx context.Context, runID string, snap *sim.Snapshot) error

	// Load retrieves the snapshot for a run id. Returns ErrRunNotFound when
	// the run does not exist.
	Load(ctx context.Context, runID string) (*sim.Snapshot, error)

	// Delete removes the run.
	Delete(ctx context.Context, runID string) error

	// List returns the ids of stored runs.
	List(ctx context.Context) ([]string, error)
}
