/**
 * @description
 * Worker Service Entry Point.
 * Publishes a snapshot refresh request on Redis every REFRESH_INTERVAL so that
 * every API replica reloads pricing data at the same time.
 *
 * @dependencies
 * - backend/internal/config
 * - backend/internal/db
 * - backend/internal/services
 *
 * @notes
 * - Requires REDIS_URL only; DATABASE_URL and JWT_SECRET are not read.
 * - Without Redis each API process schedules its own refreshes.
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/db"
	"github.com/jojuma-project/backend/internal/logger"
	"github.com/jojuma-project/backend/internal/services"
)

func main() {
	logger.Info("🔥 Starting refresh worker...")

	// 1. Load Config
	cfg, err := config.LoadWorker()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	// 2. Connect Redis
	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("Redis connection failed: %v", err)
	}
	defer redisClient.Close()

	// 3. Initialize Hub. The worker never loads data, so its snapshot service has no source.
	hub := services.NewRefreshHub(redisClient, services.NewSnapshotService(nil, 0))

	// 4. Context with Cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		logger.Info("Requesting refresh every %v", cfg.Refresh.Interval)
		hub.RunSchedule(ctx, cfg.Refresh.Interval)
	}()

	// 5. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
	logger.Info("Worker exited.")
}
