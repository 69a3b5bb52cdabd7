package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jojuma-project/backend/internal/logger"
	"github.com/redis/go-redis/v9"
)

// RefreshRequestChannel carries refresh requests to every API replica.
const RefreshRequestChannel = "snapshot:refresh_requests"

// RefreshHub turns refresh requests (scheduled, manual or from Redis) into snapshot
// reloads, and fans out a notification to SSE clients after every swap.
type RefreshHub struct {
	redis     *redis.Client // nil runs the hub process-local
	snapshots *SnapshotService

	mu          sync.RWMutex
	subscribers map[chan []byte]struct{}
}

// NewRefreshHub wires the hub to snapshots. rdb may be nil.
func NewRefreshHub(rdb *redis.Client, snapshots *SnapshotService) *RefreshHub {
	hub := &RefreshHub{
		redis:       rdb,
		snapshots:   snapshots,
		subscribers: make(map[chan []byte]struct{}),
	}
	snapshots.OnSwap(hub.announce)
	return hub
}

// Listen reloads the snapshot for each request published on Redis until ctx ends.
func (h *RefreshHub) Listen(ctx context.Context) {
	if h.redis == nil {
		return
	}

	for {
		pubsub := h.redis.Subscribe(ctx, RefreshRequestChannel)
		h.consume(ctx, pubsub.Channel())
		_ = pubsub.Close()

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
			// Avoid tight loop if Redis connection drops
		}
	}
}

func (h *RefreshHub) consume(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			logger.Info("RefreshHub: refresh requested (%s)", msg.Payload)
			if _, err := h.snapshots.Refresh(ctx); err != nil {
				logger.Error("RefreshHub: requested refresh failed: %v", err)
			}
		}
	}
}

// RequestRefresh asks every replica to reload. Without Redis it reloads in-process.
func (h *RefreshHub) RequestRefresh(ctx context.Context, reason string) error {
	if h.redis == nil {
		_, err := h.snapshots.Refresh(ctx)
		return err
	}
	return h.redis.Publish(ctx, RefreshRequestChannel, reason).Err()
}

// RunSchedule requests a refresh every interval until ctx ends.
func (h *RefreshHub) RunSchedule(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.RequestRefresh(ctx, "schedule"); err != nil {
				logger.Error("RefreshHub: scheduled refresh failed: %v", err)
			}
		}
	}
}

func (h *RefreshHub) announce(snap *Snapshot) {
	payload, err := json.Marshal(snap.Info())
	if err != nil {
		logger.Error("RefreshHub: failed to encode snapshot event: %v", err)
		return
	}
	h.broadcast(payload)
}

func (h *RefreshHub) broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub <- payload:
		default:
			// Slow subscriber: replace its pending event with the newest one
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- payload:
			default:
			}
		}
	}
}

// Subscribe registers a listener for snapshot events and returns a channel plus cleanup function.
func (h *RefreshHub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 4)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}

	return ch, unsubscribe
}
