package handlers

import (
	"github.com/gofiber/fiber/v3"

	"annuaire/internal/db"
)

// ProbeHandler serves the Kubernetes liveness and readiness endpoints.
type ProbeHandler struct {
	db *db.DB
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(database *db.DB) *ProbeHandler {
	return &ProbeHandler{db: database}
}

// Liveness handles /healthz. Returns 200 as long as the process is up.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles /readyz. The directory cannot serve a single page
// without Postgres, so readiness is exactly one pool ping.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if err := h.db.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "directory store unreachable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
