package handlers

import (
	"context"

	"github.com/calroads/circuity-api/internal/models"
	"github.com/gofiber/fiber/v2"
)

// healthChecker composes liveness of the service's dependencies
type healthChecker interface {
	Check(ctx context.Context) *models.HealthStatus
}

type HealthHandler struct {
	health healthChecker
}

func NewHealthHandler(health healthChecker) *HealthHandler {
	return &HealthHandler{health: health}
}

// Health godoc
// @Summary Health check endpoint
// @Description Probes the routing engine and the store; always answers 200, the status field carries the verdict
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(h.health.Check(c.UserContext()))
}

// Root godoc
// @Summary Service information
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":        "California Circuity Factor API",
		"version":     "1.0.0",
		"description": "Calculate transportation efficiency using circuity factors",
		"endpoints": fiber.Map{
			"calculate": "POST /calculate - Calculate circuity between two points",
			"history":   "GET /history - Get calculation history",
			"stats":     "GET /stats - Get calculation statistics",
			"health":    "GET /health - Service health check",
		},
	})
}
