/**
 * @description
 * Main entry point for the fuel pricing dashboard API.
 * Loads configuration, takes the first pricing snapshot and serves the dashboard views.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2: Web framework
 * - github.com/jojuma-project/backend/internal/config: Config loader
 * - github.com/jojuma-project/backend/internal/db: Database connections
 *
 * @notes
 * - Redis is optional. Without it the active table is per-process and the API
 *   schedules its own refreshes; with it refreshes come from the worker.
 * - A failed first load is not fatal: views answer 503 until a refresh succeeds.
 */

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jojuma-project/backend/internal/api"
	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/datasource"
	"github.com/jojuma-project/backend/internal/db"
	"github.com/jojuma-project/backend/internal/logger"
	"github.com/jojuma-project/backend/internal/pricing"
	"github.com/jojuma-project/backend/internal/services"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	// 2. Initialize Database Connections
	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Postgres: %v", err)
	}

	redisClient, err := db.ConnectRedis(cfg)
	if errors.Is(err, db.ErrRedisDisabled) {
		logger.Warn("REDIS_URL not set; running with process-local refresh and export state")
		redisClient = nil
	} else if err != nil {
		logger.Fatal("Failed to connect to Redis: %v", err)
	}

	centers, err := pricing.LoadCenters(cfg.Dashboard.MapCentersFile)
	if err != nil {
		logger.Fatal("Failed to load map centers: %v", err)
	}

	// 3. Initialize Services
	snapshots := services.NewSnapshotService(datasource.NewPostgres(pgDB), cfg.Refresh.Timeout)
	hub := services.NewRefreshHub(redisClient, snapshots)

	var active services.ActiveTableStore = services.NewMemoryActiveTableStore()
	if redisClient != nil {
		active = services.NewRedisActiveTableStore(redisClient)
	}

	svc := api.Services{
		Dashboard: services.NewDashboardService(snapshots, active, centers, cfg.Dashboard),
		Auth:      services.NewAuthService(services.NewGormUserRepository(pgDB), cfg.Auth),
		Snapshots: snapshots,
		Hub:       hub,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := snapshots.Refresh(ctx); err != nil {
		logger.Error("Initial snapshot load failed: %v", err)
	}

	go hub.Listen(ctx)
	if redisClient == nil {
		go hub.RunSchedule(ctx, cfg.Refresh.Interval)
	}

	// 4. Initialize Fiber App
	app := fiber.New(fiber.Config{
		AppName:       "Jojuma Pricing Dashboard",
		CaseSensitive: true,
	})

	// 5. Global Middleware
	app.Use(recover.New())     // Panic recovery
	app.Use(fiberlogger.New()) // Request logging
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// 6. Routes
	api.SetupRoutes(app, svc, cfg)

	// 7. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("Shutting down API...")
		cancel()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// 8. Start Server
	logger.Info("🚀 Starting pricing API on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}

	closeRedis(redisClient)
}

func closeRedis(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Error("Failed to close Redis: %v", err)
	}
}
