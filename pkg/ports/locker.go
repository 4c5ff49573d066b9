package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates run access across replicas. The session
// manager uses it, when configured, to serialize steps against the same run
// from multiple processes.
type DistributedLocker interface {
	// Lock blocks until the lock for key is acquired, the context is
	// canceled, or the implementation gives up. The returned UnlockFunc must
	// be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
