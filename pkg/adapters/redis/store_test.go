package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/loom/pkg/adapters/redis"
	"github.com/lorekeep/loom/pkg/ports"
	"github.com/lorekeep/loom/pkg/ports/tests"
	"github.com/lorekeep/loom/pkg/sim"
	"github.com/lorekeep/loom/pkg/story"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	tests.RunStoreContract(t, redis.NewFromClient(client))
}

func TestStore_TTLExpiration(t *testing.T) {
	mr, client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(50*time.Millisecond))
	ctx := context.Background()

	snap := &sim.Snapshot{
		CurrentNodeID: "intro",
		Variables:     []story.Variable{{ID: "trust", Kind: story.KindNumber, Current: story.Number(3)}},
	}
	require.NoError(t, store.Save(ctx, "run-ttl", snap))

	loaded, err := store.Load(ctx, "run-ttl")
	require.NoError(t, err)
	assert.Equal(t, "intro", loaded.CurrentNodeID)

	// Advance miniredis past the TTL for key expiry; the index prune runs
	// against the real clock, so wait it out too.
	mr.FastForward(time.Second)
	time.Sleep(100 * time.Millisecond)

	_, err = store.Load(ctx, "run-ttl")
	assert.True(t, errors.Is(err, ports.ErrRunNotFound))

	runs, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, runs, "run-ttl")
}

func TestLocker_MutualExclusion(t *testing.T) {
	_, client := newTestClient(t)
	locker := redis.NewLocker(client, "loom:run:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "run-1", 5*time.Second)
	require.NoError(t, err)

	// A second acquisition must block until released or the context ends.
	blocked, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blocked, "run-1", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "run-1", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}
