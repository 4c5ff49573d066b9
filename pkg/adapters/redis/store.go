// Package redis persists simulation runs in Redis, with optional TTL-based
// expiry and a sorted-set index for listing, plus a distributed lock for
// multi-replica deployments.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/lorekeep/loom/pkg/ports"
	"github.com/lorekeep/loom/pkg/sim"
)

// indexHorizon scores runs without TTL far enough in the future that lazy
// cleanup never prunes them (2100-01-01).
const indexHorizon = 4102444800

// Store implements ports.RunStore on Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the expiration for stored runs. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New creates a Store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Store over an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "loom:run:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(runID string) string {
	return s.prefix + runID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save writes the snapshot JSON with the configured TTL and indexes the run
// id in a ZSET scored by its expiry, so List can prune lazily.
func (s *Store) Save(ctx context.Context, runID string, snap *sim.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal run snapshot: %w", err)
	}

	score := float64(indexHorizon)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(runID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: runID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run to redis: %w", err)
	}
	return nil
}

// Load retrieves and decodes the snapshot.
func (s *Store) Load(ctx context.Context, runID string) (*sim.Snapshot, error) {
	val, err := s.client.Get(ctx, s.key(runID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, ports.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run from redis: %w", err)
	}

	var snap sim.Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes the run and its index entry.
func (s *Store) Delete(ctx context.Context, runID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(runID))
	pipe.ZRem(ctx, s.indexKey(), runID)
	_, err := pipe.Exec(ctx)
	return err
}

// List prunes expired index entries, then returns the remaining run ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired runs: %w", err)
	}

	runs, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
