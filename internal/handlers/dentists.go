package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"annuaire/internal/config"
	"annuaire/internal/db"
	"annuaire/internal/metrics"
	"annuaire/internal/models"
)

const searchPageSize = 20

// DentistHandler serves the public directory pages.
type DentistHandler struct {
	db  *db.DB
	cfg *config.Config
	tax *config.Taxonomy
}

// NewDentistHandler creates a new public directory handler.
func NewDentistHandler(database *db.DB, cfg *config.Config, tax *config.Taxonomy) *DentistHandler {
	return &DentistHandler{db: database, cfg: cfg, tax: tax}
}

// Home renders the landing page with featured listings and directory stats.
func (h *DentistHandler) Home(c fiber.Ctx) error {
	featured, err := h.db.GetFeaturedDentists(c.Context(), 6)
	if err != nil {
		return err
	}

	stats, err := h.db.GetStats(c.Context())
	if err != nil {
		return err
	}

	topCities, err := h.db.GetTopCities(c.Context(), 8)
	if err != nil {
		return err
	}

	return c.Render("index", MergeBranding(fiber.Map{
		"User":        c.Locals("user"),
		"Featured":    featured,
		"Stats":       stats,
		"TopCities":   topCities,
		"Cities":      h.tax.CityNames(),
		"Specialties": h.tax.SpecialtyNames(),
	}, h.cfg))
}

// Search renders the filtered directory listing with pagination.
func (h *DentistHandler) Search(c fiber.Ctx) error {
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
		Limit:        searchPageSize,
		Offset:       offset,
	}

	dentists, total, err := h.db.SearchDentists(c.Context(), filters)
	if err != nil {
		return err
	}

	totalPages := (total + searchPageSize - 1) / searchPageSize
	currentPage := int64(offset/searchPageSize) + 1

	return c.Render("search", MergeBranding(fiber.Map{
		"User":          c.Locals("user"),
		"Dentists":      dentists,
		"Total":         total,
		"Filters":       filters,
		"CurrentPage":   currentPage,
		"TotalPages":    totalPages,
		"PrevOffset":    offset - searchPageSize,
		"NextOffset":    offset + searchPageSize,
		"HasPrev":       offset > 0,
		"HasNext":       int64(offset+searchPageSize) < total,
		"Cities":        h.tax.CityNames(),
		"Neighborhoods": h.tax.NeighborhoodsFor(filters.City),
		"Specialties":   h.tax.SpecialtyNames(),
	}, h.cfg))
}

// Show renders a single listing by slug and records the view.
func (h *DentistHandler) Show(c fiber.Ctx) error {
	slug := c.Params("slug")

	dent, err := h.db.GetDentistBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrDentistNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "listing not found")
		}
		return err
	}

	metrics.RecordListingView(dent.ID)

	var canManage bool
	if user, ok := c.Locals("user").(*models.User); ok {
		canManage = user.CanManage(dent)
	}

	return c.Render("dentist", MergeBranding(fiber.Map{
		"User":      c.Locals("user"),
		"Dentist":   dent,
		"IsPremium": dent.IsPremium(),
		"CanManage": canManage,
	}, h.cfg))
}

