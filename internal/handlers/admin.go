package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"annuaire/internal/config"
	"annuaire/internal/db"
	"annuaire/internal/models"
	"annuaire/internal/validation"
)

const adminPageSize = 50

// AdminHandler handles administrator listing management.
type AdminHandler struct {
	db  *db.DB
	cfg *config.Config
	tax *config.Taxonomy
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(database *db.DB, cfg *config.Config, tax *config.Taxonomy) *AdminHandler {
	return &AdminHandler{db: database, cfg: cfg, tax: tax}
}

// Index renders the admin console: the listing table plus the moderation
// queue counters.
func (h *AdminHandler) Index(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	dentists, err := h.db.GetDentists(c.Context(), adminPageSize, offset)
	if err != nil {
		return err
	}

	stats, err := h.db.GetStats(c.Context())
	if err != nil {
		return err
	}

	counts, err := h.db.GetSubmissionCountsByStatus(c.Context())
	if err != nil {
		return err
	}

	return c.Render("admin", MergeBranding(fiber.Map{
		"User":        user,
		"Dentists":    dentists,
		"Stats":       stats,
		"Counts":      counts,
		"Offset":      offset,
		"NextOffset":  offset + adminPageSize,
		"PrevOffset":  offset - adminPageSize,
		"HasPrev":     offset > 0,
		"HasNext":     len(dentists) == adminPageSize,
		"Cities":      h.tax.CityNames(),
		"Specialties": h.tax.SpecialtyNames(),
	}, h.cfg))
}

// Create publishes a listing directly, bypassing moderation. The slug is
// generated from the name.
func (h *AdminHandler) Create(c fiber.Ctx) error {
	dent, err := h.dentistFromForm(c)
	if err != nil {
		return err
	}

	if err := h.db.CreateDentistGeneratingSlug(c.Context(), dent); err != nil {
		return err
	}

	return c.Redirect().To("/admin")
}

// Update applies a full edit to a listing. The slug is never touched.
func (h *AdminHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid listing id")
	}

	dent, err := h.dentistFromForm(c)
	if err != nil {
		return err
	}
	dent.ID = id

	if err := h.db.UpdateDentist(c.Context(), dent); err != nil {
		if errors.Is(err, db.ErrDentistNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "listing not found")
		}
		return err
	}

	return c.Redirect().To("/admin")
}

// SetVerified flips the verification badge on a listing.
func (h *AdminHandler) SetVerified(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid listing id")
	}

	verified := c.FormValue("verified") == "true"
	if err := h.db.SetVerified(c.Context(), id, verified); err != nil {
		if errors.Is(err, db.ErrDentistNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "listing not found")
		}
		return err
	}

	return c.Redirect().To("/admin")
}

// SetPremium sets or clears a listing's premium expiry.
func (h *AdminHandler) SetPremium(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid listing id")
	}

	var until *time.Time
	if raw := strings.TrimSpace(c.FormValue("premium_until")); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid premium date")
		}
		until = &t
	}

	if err := h.db.SetPremiumUntil(c.Context(), id, until); err != nil {
		if errors.Is(err, db.ErrDentistNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "listing not found")
		}
		return err
	}

	return c.Redirect().To("/admin")
}

// Delete removes a listing and, through the cascade, its leads.
func (h *AdminHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid listing id")
	}

	if err := h.db.DeleteDentist(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrDentistNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "listing not found")
		}
		return err
	}

	return c.Redirect().To("/admin")
}

// dentistFromForm builds a listing from the admin form fields.
func (h *AdminHandler) dentistFromForm(c fiber.Ctx) (*models.Dentist, error) {
	name := strings.TrimSpace(c.FormValue("name"))
	if !validation.ValidateName(name) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	dent := &models.Dentist{
		Name:         name,
		Address:      optionalField(c.FormValue("address")),
		City:         optionalField(c.FormValue("city")),
		Neighborhood: optionalField(c.FormValue("neighborhood")),
		Phone:        optionalField(c.FormValue("phone")),
		Email:        optionalField(c.FormValue("email")),
		Website:      optionalField(c.FormValue("website")),
		PhotoURL:     optionalField(c.FormValue("photo_url")),
		Specialties:  validation.ParseSpecialties(c.FormValue("specialties")),
		Verified:     c.FormValue("verified") == "true",
	}

	if dent.Email != nil && !validation.ValidateEmail(*dent.Email) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid email")
	}
	if dent.Website != nil {
		if ok, _ := validation.ValidateURL(*dent.Website); !ok {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid website URL")
		}
	}

	if raw := strings.TrimSpace(c.FormValue("rating")); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || rating < 0 || rating > 5 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "rating must be between 0 and 5")
		}
		dent.Rating = &rating
	}
	if raw := strings.TrimSpace(c.FormValue("review_count")); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count < 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "review count must be non-negative")
		}
		dent.ReviewCount = &count
	}

	latStr, longStr := c.FormValue("latitude"), c.FormValue("longitude")
	if latStr != "" && longStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		long, errLong := strconv.ParseFloat(longStr, 64)
		if errLat != nil || errLong != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid coordinates")
		}
		dent.Latitude = &lat
		dent.Longitude = &long
	}

	return dent, nil
}
