package services

import (
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRefreshHubLocal(t *testing.T) {
	src := &staticSource{}
	snapshots := NewSnapshotService(src, time.Second)
	hub := NewRefreshHub(nil, snapshots)

	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	if err := hub.RequestRefresh(context.Background(), "manual"); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	select {
	case payload := <-events:
		if !strings.Contains(string(payload), `"counts"`) {
			t.Errorf("unexpected event %s", payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot event")
	}
}

func TestRefreshHubOverRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	src := &staticSource{}
	snapshots := NewSnapshotService(src, time.Second)
	hub := NewRefreshHub(redisClient, snapshots)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	go hub.Listen(ctx)

	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	// Publish until the subscriber is attached
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := snapshots.Current(); err == nil {
					return
				}
				_ = hub.RequestRefresh(ctx, "test")
			}
		}
	}()

	select {
	case <-events:
	case <-ctx.Done():
		t.Fatal("timed out waiting for refresh over redis")
	}
	if _, err := snapshots.Current(); err != nil {
		t.Errorf("expected a snapshot after refresh, got %v", err)
	}
}

func TestRefreshHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewRefreshHub(nil, NewSnapshotService(&staticSource{}, 0))
	events, unsubscribe := hub.Subscribe()
	unsubscribe()
	unsubscribe()

	if _, ok := <-events; ok {
		t.Error("channel should be closed")
	}
}
