package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"annuaire/internal/config"
	"annuaire/internal/db"
	"annuaire/internal/models"
	"annuaire/internal/validation"
)

// SubmissionHandler handles the public practice submission flow.
type SubmissionHandler struct {
	db  *db.DB
	cfg *config.Config
	tax *config.Taxonomy
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(database *db.DB, cfg *config.Config, tax *config.Taxonomy) *SubmissionHandler {
	return &SubmissionHandler{db: database, cfg: cfg, tax: tax}
}

// New renders the submission form.
func (h *SubmissionHandler) New(c fiber.Ctx) error {
	return c.Render("submit", MergeBranding(fiber.Map{
		"User":        c.Locals("user"),
		"Cities":      h.tax.CityNames(),
		"Specialties": h.tax.SpecialtyNames(),
	}, h.cfg))
}

// Create accepts a submission and queues it for moderation. Works for both
// anonymous visitors and signed-in users; a signed-in submitter is recorded
// so approval can hand them ownership directly.
func (h *SubmissionHandler) Create(c fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	city := strings.TrimSpace(c.FormValue("city"))
	phone := strings.TrimSpace(c.FormValue("phone"))

	if !validation.ValidateName(name) || city == "" || phone == "" {
		return htmxError(c, "Nom, ville et téléphone sont obligatoires.")
	}
	if !validation.ValidatePhone(phone) {
		return htmxError(c, "Le numéro de téléphone n'est pas valide.")
	}

	sub := &models.PendingDentist{
		Name:         name,
		City:         city,
		Phone:        phone,
		Neighborhood: optionalField(c.FormValue("neighborhood")),
		Address:      optionalField(c.FormValue("address")),
		Website:      optionalField(c.FormValue("website")),
		PhotoURL:     optionalField(c.FormValue("photo_url")),
		Specialties:  validation.ParseSpecialties(c.FormValue("specialties")),
	}

	if email := strings.TrimSpace(c.FormValue("email")); email != "" {
		if !validation.ValidateEmail(email) {
			return htmxError(c, "L'adresse email n'est pas valide.")
		}
		sub.Email = &email
	}

	if sub.Website != nil {
		if ok, _ := validation.ValidateURL(*sub.Website); !ok {
			return htmxError(c, "L'adresse du site web n'est pas valide.")
		}
	}

	// Coordinates travel together or not at all.
	latStr, longStr := c.FormValue("latitude"), c.FormValue("longitude")
	if latStr != "" && longStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		long, errLong := strconv.ParseFloat(longStr, 64)
		if errLat == nil && errLong == nil {
			sub.Latitude = &lat
			sub.Longitude = &long
		}
	}

	if user, ok := c.Locals("user").(*models.User); ok {
		sub.SubmittedBy = &user.ID
		if sub.Email == nil && user.Email != "" {
			sub.Email = &user.Email
		}
	}

	if err := h.db.CreatePendingDentist(c.Context(), sub); err != nil {
		return err
	}

	return c.Render("partials/submission_success", fiber.Map{
		"Name": sub.Name,
	}, "")
}


// optionalField converts an empty form value to nil.
func optionalField(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
