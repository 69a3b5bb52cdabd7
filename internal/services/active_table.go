/**
 * @description
 * Single-slot store for the comparison table most recently built.
 * The export endpoint serializes whatever was published last.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9
 *
 * @notes
 * - Latest write wins; there is one slot shared by every session.
 * - The Redis store lets every API replica export the same table.
 */

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jojuma-project/backend/internal/pricing"
	"github.com/redis/go-redis/v9"
)

// CacheKeyActiveTable holds the exportable comparison table in Redis.
const CacheKeyActiveTable = "comparison:active"

// ActiveTable is a published comparison table.
type ActiveTable struct {
	SnapshotID  string                   `json:"snapshot_id"`
	GeneratedAt time.Time                `json:"generated_at"`
	Table       *pricing.ComparisonTable `json:"table"`
}

// ActiveTableStore publishes and reads the active table.
// Get returns pricing.ErrNoActiveTable while the slot is empty.
type ActiveTableStore interface {
	Put(ctx context.Context, table *ActiveTable) error
	Get(ctx context.Context) (*ActiveTable, error)
}

// MemoryActiveTableStore keeps the slot in process memory.
type MemoryActiveTableStore struct {
	mu    sync.RWMutex
	table *ActiveTable
}

func NewMemoryActiveTableStore() *MemoryActiveTableStore {
	return &MemoryActiveTableStore{}
}

func (m *MemoryActiveTableStore) Put(_ context.Context, table *ActiveTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table = table
	return nil
}

func (m *MemoryActiveTableStore) Get(context.Context) (*ActiveTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.table == nil {
		return nil, pricing.ErrNoActiveTable
	}
	return m.table, nil
}

// RedisActiveTableStore keeps the slot in Redis as JSON.
type RedisActiveTableStore struct {
	redis *redis.Client
	key   string
}

func NewRedisActiveTableStore(client *redis.Client) *RedisActiveTableStore {
	return &RedisActiveTableStore{redis: client, key: CacheKeyActiveTable}
}

func (r *RedisActiveTableStore) Put(ctx context.Context, table *ActiveTable) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to marshal active table: %w", err)
	}
	if err := r.redis.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store active table: %w", err)
	}
	return nil
}

func (r *RedisActiveTableStore) Get(ctx context.Context) (*ActiveTable, error) {
	data, err := r.redis.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, pricing.ErrNoActiveTable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read active table: %w", err)
	}

	var table ActiveTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to decode active table: %w", err)
	}
	return &table, nil
}
