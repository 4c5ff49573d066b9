package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lorekeep/loom/pkg/adapters/memory"
	"github.com/lorekeep/loom/pkg/ports/tests"
	"github.com/lorekeep/loom/pkg/sim"
	"github.com/lorekeep/loom/pkg/story"
)

func TestStore_Contract(t *testing.T) {
	tests.RunStoreContract(t, memory.NewStore())
}

func TestStore_IsolatesSnapshots(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	snap := &sim.Snapshot{
		CurrentNodeID: "intro",
		Variables: []story.Variable{
			{ID: "gold", Kind: story.KindNumber, Current: story.Number(10)},
		},
	}
	assert.NoError(t, store.Save(ctx, "run", snap))

	// Mutating the saved pointer must not leak into the store.
	snap.CurrentNodeID = "elsewhere"
	snap.Variables[0].Current = story.Number(99)

	loaded, err := store.Load(ctx, "run")
	assert.NoError(t, err)
	assert.Equal(t, "intro", loaded.CurrentNodeID)
	assert.True(t, loaded.Variables[0].Current.Equal(story.Number(10)))

	// Mutating a loaded copy must not affect subsequent loads.
	loaded.Variables[0].Current = story.Number(-1)
	again, err := store.Load(ctx, "run")
	assert.NoError(t, err)
	assert.True(t, again.Variables[0].Current.Equal(story.Number(10)))
}
