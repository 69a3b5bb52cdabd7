/**
 * @description
 * API Route definitions.
 * Sets up the router groups and assigns handlers.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/api/handlers
 * - backend/internal/api/middleware
 * - backend/internal/services
 */

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jojuma-project/backend/internal/api/handlers"
	"github.com/jojuma-project/backend/internal/api/middleware"
	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/logger"
	"github.com/jojuma-project/backend/internal/services"
)

// Services bundles what the handlers need; built once in main
type Services struct {
	Dashboard *services.DashboardService
	Auth      *services.AuthService
	Snapshots *services.SnapshotService
	Hub       *services.RefreshHub
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, svc Services, cfg *config.Config) {
	// 1. Initialize Middleware
	if err := middleware.InitAuthMiddleware(cfg); err != nil {
		// Protected routes will reject requests until the issuer is reachable on restart
		logger.Error("Failed to init auth middleware: %v", err)
	}

	// 2. Initialize Handlers
	authHandler := handlers.NewAuthHandler(svc.Auth)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
	snapshotHandler := handlers.NewSnapshotHandler(svc.Snapshots, svc.Hub)

	// 3. Define Routes
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Public Routes
	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protected := middleware.Protected()

	auth := v1.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", protected, authHandler.GetMe)

	// Dashboard Routes (Protected)
	v1.Get("/filters", protected, dashboardHandler.GetFilters)
	v1.Get("/comparison", protected, dashboardHandler.GetComparison)
	v1.Get("/comparison/export", protected, dashboardHandler.ExportComparison)
	v1.Get("/map", protected, dashboardHandler.GetMap)
	v1.Get("/graphs", protected, dashboardHandler.GetGraphs)
	v1.Get("/costs", protected, dashboardHandler.GetCosts)

	// Snapshot Routes (Protected)
	snapshot := v1.Group("/snapshot", protected)
	snapshot.Get("/", snapshotHandler.GetSnapshot)
	snapshot.Get("/stream", snapshotHandler.StreamSnapshots)
	snapshot.Post("/refresh", middleware.AdminOnly(), snapshotHandler.RequestRefresh)
}
