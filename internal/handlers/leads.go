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

// LeadHandler handles patient contact messages left on listings.
type LeadHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewLeadHandler creates a new lead handler.
func NewLeadHandler(database *db.DB, cfg *config.Config) *LeadHandler {
	return &LeadHandler{db: database, cfg: cfg}
}

// Create records a patient message against a published listing. Anonymous,
// no account required. The listing owner is notified by email when the
// listing carries a contact address.
func (h *LeadHandler) Create(c fiber.Ctx) error {
	dentistID, err := uuid.Parse(c.FormValue("dentist_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid listing id")
	}

	lead := &models.Lead{
		DentistID:   dentistID,
		PatientName: optionalField(c.FormValue("name")),
		Phone:       optionalField(c.FormValue("phone")),
		Message:     optionalField(c.FormValue("message")),
	}

	if email := strings.TrimSpace(c.FormValue("email")); email != "" {
		if !validation.ValidateEmail(email) {
			return htmxError(c, "L'adresse email n'est pas valide.")
		}
		lead.Email = &email
	}
	if lead.Phone != nil && !validation.ValidatePhone(*lead.Phone) {
		return htmxError(c, "Le numéro de téléphone n'est pas valide.")
	}

	if err := h.db.CreateLead(c.Context(), lead); err != nil {
		if errors.Is(err, db.ErrDentistNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "listing not found")
		}
		return err
	}

	if Notifier != nil {
		if dent, err := h.db.GetDentistByID(c.Context(), dentistID); err == nil {
			Notifier.NotifyLeadReceived(c.Context(), dent, lead)
		}
	}

	return c.Render("partials/lead_success", fiber.Map{}, "")
}
