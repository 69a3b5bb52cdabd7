package handlers

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jojuma-project/backend/internal/services"
)

func TestStreamSnapshots(t *testing.T) {
	snapshots := services.NewSnapshotService(nil, 0)
	hub := services.NewRefreshHub(nil, snapshots)

	handler := NewSnapshotHandler(snapshots, hub)
	app := fiber.New()
	app.Get("/api/v1/snapshot/stream", handler.StreamSnapshots)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	defer func() { _ = app.Shutdown() }()
	srvURL := "http://" + ln.Addr().String()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srvURL+"/api/v1/snapshot/stream", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to call SSE endpoint: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	// Publish until the stream has subscribed
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snapshots.Publish(testDataset())
			}
		}
	}()

	reader := bufio.NewReader(resp.Body)

	timeout := time.After(2 * time.Second)
	for {
		select {
		case <-timeout:
			t.Fatal("timed out waiting for SSE data")
		default:
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("failed to read SSE line: %v", err)
			}
			if strings.HasPrefix(line, "data:") {
				if !strings.Contains(line, `"counts"`) || !strings.Contains(line, `"work":2`) {
					t.Fatalf("unexpected SSE payload: %s", line)
				}
				return
			}
		}
	}
}

func TestGetSnapshot(t *testing.T) {
	empty := services.NewSnapshotService(nil, 0)
	handler := NewSnapshotHandler(empty, services.NewRefreshHub(nil, empty))
	app := fiber.New()
	app.Get("/api/v1/snapshot", handler.GetSnapshot)

	resp, _ := doGet(t, app, "/api/v1/snapshot")
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("status %d, want 503", resp.StatusCode)
	}

	empty.Publish(testDataset())
	resp, body := doGet(t, app, "/api/v1/snapshot")
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(body, `"loaded_at"`) {
		t.Errorf("unexpected response %d %s", resp.StatusCode, body)
	}
}
