package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"annuaire/internal/db"
	"annuaire/internal/models"
	"annuaire/internal/validation"
)

// LeadHandler exposes lead capture and the owner lead inbox as JSON.
type LeadHandler struct {
	db *db.DB
}

// NewLeadHandler creates a new API lead handler.
func NewLeadHandler(database *db.DB) *LeadHandler {
	return &LeadHandler{db: database}
}

type createLeadRequest struct {
	DentistID   string  `json:"dentist_id"`
	PatientName *string `json:"patient_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Message     *string `json:"message"`
}

// Create records a patient contact message against a listing.
func (h *LeadHandler) Create(c fiber.Ctx) error {
	var req createLeadRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	dentistID, err := uuid.Parse(req.DentistID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid listing id")
	}

	lead := &models.Lead{
		DentistID:   dentistID,
		PatientName: req.PatientName,
		Email:       req.Email,
		Phone:       req.Phone,
		Message:     req.Message,
	}

	if lead.Email != nil && !validation.ValidateEmail(*lead.Email) {
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	if lead.Phone != nil && !validation.ValidatePhone(*lead.Phone) {
		return jsonError(c, fiber.StatusBadRequest, "invalid phone number")
	}

	if err := h.db.CreateLead(c.Context(), lead); err != nil {
		if errors.Is(err, db.ErrDentistNotFound) {
			return jsonError(c, fiber.StatusNotFound, "listing not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create lead")
	}

	return jsonSuccess(c, lead)
}

// List returns the authenticated owner's leads.
func (h *LeadHandler) List(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	leads, err := h.db.GetLeadsForOwner(c.Context(), user)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch leads")
	}

	return jsonSuccess(c, leads)
}

// MarkRead marks one of the owner's leads as read.
func (h *LeadHandler) MarkRead(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	leadID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid lead id")
	}

	if err := h.db.MarkLeadRead(c.Context(), leadID, user); err != nil {
		if errors.Is(err, db.ErrLeadNotFound) {
			return jsonError(c, fiber.StatusNotFound, "lead not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update lead")
	}

	return jsonSuccess(c, fiber.Map{"id": leadID, "status": models.LeadStatusRead})
}
