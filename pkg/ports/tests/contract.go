// Package tests holds reusable contract suites adapters can run to prove
// they comply with the ports interfaces.
package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/lorekeep/loom/pkg/ports"
	"github.com/lorekeep/loom/pkg/sim"
	"github.com/lorekeep/loom/pkg/story"
)

// RunStoreContract verifies an adapter complies with ports.RunStore.
func RunStoreContract(t *testing.T, store ports.RunStore) {
	t.Helper()
	ctx := context.Background()

	snap := &sim.Snapshot{
		CurrentNodeID: "intro",
		Variables: []story.Variable{
			{ID: "trust", Name: "Trust", Kind: story.KindNumber, Default: story.Number(0), Current: story.Number(5)},
		},
		Trace: []string{`started at "intro"`},
	}

	t.Run("SaveAndLoad", func(t *testing.T) {
		if err := store.Save(ctx, "run-1", snap); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		loaded, err := store.Load(ctx, "run-1")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if loaded.CurrentNodeID != snap.CurrentNodeID {
			t.Errorf("current scene mismatch: got %q, want %q", loaded.CurrentNodeID, snap.CurrentNodeID)
		}
		if len(loaded.Variables) != 1 || !loaded.Variables[0].Current.Equal(story.Number(5)) {
			t.Errorf("variables not round-tripped: %+v", loaded.Variables)
		}
		if len(loaded.Trace) != 1 {
			t.Errorf("trace not round-tripped: %v", loaded.Trace)
		}
	})

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := store.Load(ctx, "no-such-run")
		if !errors.Is(err, ports.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		runs, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		found := false
		for _, id := range runs {
			if id == "run-1" {
				found = true
			}
		}
		if !found {
			t.Errorf("run-1 missing from list: %v", runs)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "run-1"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Load(ctx, "run-1"); !errors.Is(err, ports.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound after delete, got %v", err)
		}
	})
}
