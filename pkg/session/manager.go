// Package session coordinates concurrent access to persisted simulation
// runs. Each run is serialized behind a reference-counted lock, with an
// optional distributed locker for multi-replica deployments.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lorekeep/loom/internal/logging"
	"github.com/lorekeep/loom/pkg/ports"
	"github.com/lorekeep/loom/pkg/sim"
	"github.com/lorekeep/loom/pkg/story"
)

// lockTTL bounds how long a distributed lock outlives a crashed holder.
const lockTTL = 30 * time.Second

// lockEntry pairs a mutex with its reference count so unused locks can be
// garbage collected.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates run access over a RunStore.
type Manager struct {
	store ports.RunStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker ports.DistributedLocker
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) { m.locker = locker }
}

// WithLogger configures a logger for deferred errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates a Manager over the given store.
func NewManager(store ports.RunStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) acquire(runID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[runID]
	if !ok {
		entry = &lockEntry{}
		m.locks[runID] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(runID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[runID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, runID)
	}
}

// Load retrieves an existing run.
func (m *Manager) Load(ctx context.Context, runID string) (*sim.Snapshot, error) {
	var snap *sim.Snapshot
	err := m.WithLock(ctx, runID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, runID)
		return err
	})
	return snap, err
}

// LoadOrStart loads a run, or initializes one by resetting a fresh
// simulation against the given graph when none exists.
func (m *Manager) LoadOrStart(ctx context.Context, runID string, g *story.Graph) (*sim.Snapshot, error) {
	var snap *sim.Snapshot
	err := m.WithLock(ctx, runID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, runID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ports.ErrRunNotFound) {
			return fmt.Errorf("failed to check run existence: %w", err)
		}

		fresh := sim.New(g).Snapshot()
		snap = &fresh

		// Persist immediately to reserve the id.
		if err := m.store.Save(ctx, runID, snap); err != nil {
			return fmt.Errorf("failed to initialize run: %w", err)
		}
		return nil
	})
	return snap, err
}

// Save persists the run snapshot.
func (m *Manager) Save(ctx context.Context, runID string, snap *sim.Snapshot) error {
	return m.WithLock(ctx, runID, func(ctx context.Context) error {
		return m.store.Save(ctx, runID, snap)
	})
}

// Delete removes the run.
func (m *Manager) Delete(ctx context.Context, runID string) error {
	return m.WithLock(ctx, runID, func(ctx context.Context) error {
		return m.store.Delete(ctx, runID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying run store, for callers composing their own
// load-modify-save sequence inside WithLock.
func (m *Manager) Store() ports.RunStore {
	return m.store
}

// WithLock executes fn while holding the run's lock, acquiring the
// distributed lock as well when one is configured.
func (m *Manager) WithLock(ctx context.Context, runID string, fn func(context.Context) error) error {
	entry := m.acquire(runID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(runID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, runID, lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"run_id", runID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
