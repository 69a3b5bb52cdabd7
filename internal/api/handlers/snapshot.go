/**
 * @description
 * Snapshot API Handlers.
 * Exposes the loaded data version, a manual refresh trigger and an SSE stream
 * of refresh events.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jojuma-project/backend/internal/api/middleware"
	"github.com/jojuma-project/backend/internal/services"
)

const streamKeepAlive = 25 * time.Second

type SnapshotHandler struct {
	Snapshots services.SnapshotProvider
	Hub       *services.RefreshHub
}

func NewSnapshotHandler(snapshots services.SnapshotProvider, hub *services.RefreshHub) *SnapshotHandler {
	return &SnapshotHandler{Snapshots: snapshots, Hub: hub}
}

// GetSnapshot returns metadata for the active snapshot
// GET /api/v1/snapshot
func (h *SnapshotHandler) GetSnapshot(c *fiber.Ctx) error {
	snap, err := h.Snapshots.Current()
	if err != nil {
		return respondError(c, "GetSnapshot", err)
	}
	return c.JSON(snap.Info())
}

// RequestRefresh asks every replica to reload its snapshot
// POST /api/v1/snapshot/refresh
func (h *SnapshotHandler) RequestRefresh(c *fiber.Ctx) error {
	reason := "manual"
	if claims, err := middleware.GetClaims(c); err == nil {
		reason = "manual:" + claims.Username
	}

	if err := h.Hub.RequestRefresh(c.Context(), reason); err != nil {
		return respondError(c, "RequestRefresh", err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "refresh requested"})
}

// StreamSnapshots streams snapshot swap events over SSE
// GET /api/v1/snapshot/stream
func (h *SnapshotHandler) StreamSnapshots(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	requestCtx := c.Context()
	events, unsubscribe := h.Hub.Subscribe()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		// Tell the client which version it starts from
		if snap, err := h.Snapshots.Current(); err == nil {
			if payload, err := json.Marshal(snap.Info()); err == nil {
				fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					return
				}
			}
		}

		keepAlive := time.NewTicker(streamKeepAlive)
		defer keepAlive.Stop()

		requestDone := requestCtx.Done()

		for {
			select {
			case <-requestDone:
				return
			case <-keepAlive.C:
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			case payload, ok := <-events:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}
