/**
 * @description
 * One-shot snapshot sync, meant for cron after the upstream price load.
 * Copies the current Postgres snapshot into the SQLite archive and, when Redis is
 * configured, asks every API replica to reload.
 */

package main

import (
	"context"
	"errors"

	"github.com/jojuma-project/backend/internal/archive"
	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/datasource"
	"github.com/jojuma-project/backend/internal/db"
	"github.com/jojuma-project/backend/internal/logger"
	"github.com/jojuma-project/backend/internal/services"
)

func main() {
	logger.Info("🚀 Starting snapshot sync...")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config: %v", err)
	}

	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		logger.Fatal("failed to connect to postgres: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Refresh.Timeout)
	defer cancel()

	meta, ds, err := archive.Sync(ctx, datasource.NewPostgres(pgDB), cfg.Archive.Path)
	if err != nil {
		logger.Fatal("snapshot sync failed: %v", err)
	}
	logger.Info("✅ Archived snapshot %s to %s %v", meta.SnapshotID, cfg.Archive.Path, ds.Counts())

	redisClient, err := db.ConnectRedis(cfg)
	if errors.Is(err, db.ErrRedisDisabled) {
		logger.Info("REDIS_URL not set; skipping replica refresh")
		return
	}
	if err != nil {
		logger.Fatal("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	hub := services.NewRefreshHub(redisClient, services.NewSnapshotService(nil, 0))
	if err := hub.RequestRefresh(ctx, "sync:"+meta.SnapshotID); err != nil {
		logger.Error("failed to request replica refresh: %v", err)
		return
	}
	logger.Info("✅ Refresh requested on %s", services.RefreshRequestChannel)
}
