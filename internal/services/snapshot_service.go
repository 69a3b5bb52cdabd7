/**
 * @description
 * Snapshot service.
 * Owns the in-memory copy of the five pricing row-sets and swaps it atomically on refresh.
 *
 * @dependencies
 * - backend/internal/datasource
 * - github.com/google/uuid
 *
 * @notes
 * - Readers never see a partially refreshed snapshot: all sets are loaded first, then
 *   published with a single pointer swap.
 * - A failed refresh keeps the previous snapshot.
 */

package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jojuma-project/backend/internal/datasource"
	"github.com/jojuma-project/backend/internal/logger"
)

// ErrNoSnapshot is returned before the first successful refresh.
var ErrNoSnapshot = errors.New("pricing data has not been loaded yet")

const refreshMaxAttempts = 3

// Snapshot is one consistent extraction of every row-set.
type Snapshot struct {
	ID       uuid.UUID           `json:"id"`
	LoadedAt time.Time           `json:"loaded_at"`
	Data     *datasource.Dataset `json:"-"`
}

// SnapshotInfo is the public description of a snapshot.
type SnapshotInfo struct {
	ID       uuid.UUID      `json:"id"`
	LoadedAt time.Time      `json:"loaded_at"`
	Counts   map[string]int `json:"counts"`
}

// Info summarizes the snapshot.
func (s *Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{ID: s.ID, LoadedAt: s.LoadedAt, Counts: s.Data.Counts()}
}

// SnapshotProvider hands out the current snapshot.
type SnapshotProvider interface {
	Current() (*Snapshot, error)
}

// SnapshotService loads and publishes snapshots.
type SnapshotService struct {
	source  datasource.Source
	timeout time.Duration

	current atomic.Pointer[Snapshot]

	refreshMu sync.Mutex // one refresh at a time

	listenersMu sync.RWMutex
	listeners   []func(*Snapshot)
}

// NewSnapshotService creates a service reading from source. timeout bounds one refresh.
func NewSnapshotService(source datasource.Source, timeout time.Duration) *SnapshotService {
	return &SnapshotService{source: source, timeout: timeout}
}

// Current returns the latest published snapshot.
func (s *SnapshotService) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// OnSwap registers fn to be called after every successful swap.
func (s *SnapshotService) OnSwap(fn func(*Snapshot)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Refresh loads a new snapshot and publishes it. On failure the previous snapshot stays active.
func (s *SnapshotService) Refresh(ctx context.Context) (*Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	var ds *datasource.Dataset
	var err error
	for attempt := 1; attempt <= refreshMaxAttempts; attempt++ {
		ds, err = datasource.Load(ctx, s.source)
		if err == nil || !datasource.IsTransient(err) || ctx.Err() != nil {
			break
		}
		backoff := time.Duration(attempt*250+rand.Intn(250)) * time.Millisecond
		logger.Warn("SnapshotService: transient load failure (attempt %d/%d), retrying in %v: %v",
			attempt, refreshMaxAttempts, backoff, err)
		select {
		case <-ctx.Done():
		case <-time.After(backoff):
		}
	}
	if err != nil {
		logger.Error("SnapshotService: refresh failed, keeping previous snapshot: %v", err)
		return nil, fmt.Errorf("snapshot refresh failed: %w", err)
	}

	snap := s.Publish(ds)
	logger.Info("SnapshotService: loaded snapshot %s in %v %v", snap.ID, time.Since(started).Round(time.Millisecond), ds.Counts())
	return snap, nil
}

// Publish swaps ds in as the current snapshot without querying the source.
func (s *SnapshotService) Publish(ds *datasource.Dataset) *Snapshot {
	snap := &Snapshot{ID: uuid.New(), LoadedAt: time.Now().UTC(), Data: ds}
	s.current.Store(snap)

	s.listenersMu.RLock()
	listeners := append([]func(*Snapshot){}, s.listeners...)
	s.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}
	return snap
}
