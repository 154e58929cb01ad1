package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"annuaire/internal/config"
	"annuaire/internal/db"
	"annuaire/internal/models"
	"annuaire/internal/validation"
)

// DashboardHandler serves the practice owner dashboard.
type DashboardHandler struct {
	db  *db.DB
	cfg *config.Config
	tax *config.Taxonomy
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(database *db.DB, cfg *config.Config, tax *config.Taxonomy) *DashboardHandler {
	return &DashboardHandler{db: database, cfg: cfg, tax: tax}
}

// Index renders the owner dashboard: their listing, their lead inbox and
// the state of their latest submission if they have one in flight.
func (h *DashboardHandler) Index(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var dent *models.Dentist
	d, err := h.db.GetDentistForOwner(c.Context(), user)
	if err == nil {
		dent = d
	} else if !errors.Is(err, db.ErrDentistNotFound) {
		return err
	}

	var leads []models.Lead
	var unread int
	if dent != nil {
		leads, err = h.db.GetLeadsForOwner(c.Context(), user)
		if err != nil {
			return err
		}
		for _, l := range leads {
			if l.Status == models.LeadStatusNew {
				unread++
			}
		}
	}

	var latestSubmission *models.PendingDentist
	if user.Email != "" {
		sub, err := h.db.GetLatestPendingByEmail(c.Context(), user.Email)
		if err == nil {
			latestSubmission = sub
		} else if !errors.Is(err, db.ErrSubmissionNotFound) {
			return err
		}
	}

	return c.Render("dashboard", MergeBranding(fiber.Map{
		"User":             user,
		"Dentist":          dent,
		"Leads":            leads,
		"UnreadLeads":      unread,
		"LatestSubmission": latestSubmission,
		"Cities":           h.tax.CityNames(),
		"Specialties":      h.tax.SpecialtyNames(),
	}, h.cfg))
}

// UpdateListing applies an owner's edit to every listing attached to their
// account. Contact email, slug, verification and counters are off limits
// here; those stay admin or system controlled.
func (h *DashboardHandler) UpdateListing(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name != "" && !validation.ValidateName(name) {
		return htmxError(c, "Le nom n'est pas valide.")
	}

	upd := models.DentistUpdate{
		Name:         name,
		Address:      optionalField(c.FormValue("address")),
		City:         optionalField(c.FormValue("city")),
		Neighborhood: optionalField(c.FormValue("neighborhood")),
		Phone:        optionalField(c.FormValue("phone")),
		Website:      optionalField(c.FormValue("website")),
		PhotoURL:     optionalField(c.FormValue("photo_url")),
		Specialties:  validation.ParseSpecialties(c.FormValue("specialties")),
	}

	if upd.Phone != nil && !validation.ValidatePhone(*upd.Phone) {
		return htmxError(c, "Le numéro de téléphone n'est pas valide.")
	}
	if upd.Website != nil {
		if ok, _ := validation.ValidateURL(*upd.Website); !ok {
			return htmxError(c, "L'adresse du site web n'est pas valide.")
		}
	}

	slugs, err := h.db.UpdateOwnedListings(c.Context(), user, upd)
	if err != nil {
		return err
	}
	if len(slugs) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "no listing attached to this account")
	}

	return c.Redirect().To("/dashboard")
}

// MarkLeadRead marks one of the owner's leads as read. The transition is
// one-way.
func (h *DashboardHandler) MarkLeadRead(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	leadID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid lead id")
	}

	if err := h.db.MarkLeadRead(c.Context(), leadID, user); err != nil {
		if errors.Is(err, db.ErrLeadNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "lead not found")
		}
		return err
	}

	return c.Redirect().To("/dashboard")
}

