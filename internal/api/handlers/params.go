package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jojuma-project/backend/internal/logger"
	"github.com/jojuma-project/backend/internal/models"
	"github.com/jojuma-project/backend/internal/pricing"
	"github.com/jojuma-project/backend/internal/services"
)

// queryList collects a multi-value query parameter given as ?k=a&k=b or ?k=a,b.
func queryList(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// queryProduct parses a single product parameter, falling back to regular.
func queryProduct(c *fiber.Ctx, key string) (models.Product, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return models.ProductRegular, nil
	}
	return parseProduct(raw)
}

func parseProduct(s string) (models.Product, error) {
	p, ok := models.ParseProduct(s)
	if !ok {
		return "", fmt.Errorf("unknown product %q", s)
	}
	return p, nil
}

// queryProducts parses the product checklist, falling back to regular.
func queryProducts(c *fiber.Ctx, key string) ([]models.Product, error) {
	raw := queryList(c, key)
	if len(raw) == 0 {
		return []models.Product{models.ProductRegular}, nil
	}
	out := make([]models.Product, 0, len(raw))
	for _, s := range raw {
		p, err := parseProduct(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// respondError maps service errors to HTTP responses.
func respondError(c *fiber.Ctx, component string, err error) error {
	switch {
	case errors.Is(err, services.ErrNoSnapshot):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, pricing.ErrNoActiveTable):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case pricing.IsDataShapeError(err):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.Error("%s: %v", component, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
