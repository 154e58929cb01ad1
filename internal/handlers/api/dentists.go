package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"annuaire/internal/db"
	"annuaire/internal/models"
)

const maxPageSize = 100

// DentistHandler exposes the public directory as a JSON API.
type DentistHandler struct {
	db *db.DB
}

// NewDentistHandler creates a new API dentist handler.
func NewDentistHandler(database *db.DB) *DentistHandler {
	return &DentistHandler{db: database}
}

// Search returns published listings matching the query filters.
func (h *DentistHandler) Search(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit <= 0 || limit > maxPageSize {
		limit = 20
	}
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	minRating, _ := strconv.ParseFloat(c.Query("min_rating", "0"), 64)

	filters := models.DentistFilters{
		Query:        c.Query("q"),
		City:         c.Query("city"),
		Neighborhood: c.Query("neighborhood"),
		Specialty:    c.Query("specialty"),
		Verified:     c.Query("verified") == "true",
		MinRating:    minRating,
		Limit:        limit,
		Offset:       offset,
	}

	dentists, total, err := h.db.SearchDentists(c.Context(), filters)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "search failed")
	}

	return jsonSuccess(c, fiber.Map{
		"dentists": dentists,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// Get returns a single listing by slug.
func (h *DentistHandler) Get(c fiber.Ctx) error {
	dent, err := h.db.GetDentistBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, db.ErrDentistNotFound) {
			return jsonError(c, fiber.StatusNotFound, "listing not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch listing")
	}

	return jsonSuccess(c, dent)
}

// Stats returns the directory aggregates.
func (h *DentistHandler) Stats(c fiber.Ctx) error {
	stats, err := h.db.GetStats(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch stats")
	}

	cities, err := h.db.GetTopCities(c.Context(), 10)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch city counts")
	}

	return jsonSuccess(c, fiber.Map{
		"stats":      stats,
		"top_cities": cities,
	})
}
