/**
 * @description
 * Dashboard API Handlers.
 * Serves the four dashboard views (comparison table, map, graphs, costs), the
 * CSV export of the last comparison table and the filter dropdown options.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 *
 * @notes
 * - Filter tokens may be repeated (?permit=a&permit=b) or comma separated.
 */

package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/jojuma-project/backend/internal/services"
)

// ExportFilename is the download name of the comparison CSV
const ExportFilename = "tabla.csv"

type DashboardHandler struct {
	Service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: service}
}

// GetComparison returns the competitor comparison table
// GET /api/v1/comparison?permit=...&product=regular,premium
func (h *DashboardHandler) GetComparison(c *fiber.Ctx) error {
	products, err := queryProducts(c, "product")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	view, err := h.Service.Comparison(c.Context(), queryList(c, "permit"), products)
	if err != nil {
		return respondError(c, "GetComparison", err)
	}
	return c.JSON(view)
}

// ExportComparison downloads the last comparison table as CSV
// GET /api/v1/comparison/export
func (h *DashboardHandler) ExportComparison(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.Service.ExportComparison(c.Context(), &buf); err != nil {
		return respondError(c, "ExportComparison", err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment(ExportFilename)
	return c.Send(buf.Bytes())
}

// GetMap returns station markers for a city
// GET /api/v1/map?city=Tijuana&product=regular
func (h *DashboardHandler) GetMap(c *fiber.Ctx) error {
	product, err := queryProduct(c, "product")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	view, err := h.Service.Map(c.Context(), c.Query("city", "Tijuana"), product)
	if err != nil {
		return respondError(c, "GetMap", err)
	}
	return c.JSON(view)
}

// GetGraphs returns the 30-day price series per brand
// GET /api/v1/graphs?permit=...&product=regular
func (h *DashboardHandler) GetGraphs(c *fiber.Ctx) error {
	product, err := queryProduct(c, "product")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	view, err := h.Service.Graphs(c.Context(), queryList(c, "permit"), product)
	if err != nil {
		return respondError(c, "GetGraphs", err)
	}
	return c.JSON(view)
}

// GetCosts returns terminal tariff indicators
// GET /api/v1/costs?terminal=...
func (h *DashboardHandler) GetCosts(c *fiber.Ctx) error {
	view, err := h.Service.Costs(c.Context(), queryList(c, "terminal"))
	if err != nil {
		return respondError(c, "GetCosts", err)
	}
	return c.JSON(view)
}

// GetFilters returns dropdown options
// GET /api/v1/filters
func (h *DashboardHandler) GetFilters(c *fiber.Ctx) error {
	opts, err := h.Service.Filters(c.Context())
	if err != nil {
		return respondError(c, "GetFilters", err)
	}
	return c.JSON(opts)
}
