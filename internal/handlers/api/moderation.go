package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"annuaire/internal/db"
	"annuaire/internal/models"
	"annuaire/internal/moderation"
)

// ModerationHandler exposes the review queue as a JSON API.
type ModerationHandler struct {
	db     *db.DB
	engine *moderation.Engine
}

// NewModerationHandler creates a new API moderation handler.
func NewModerationHandler(database *db.DB, engine *moderation.Engine) *ModerationHandler {
	return &ModerationHandler{db: database, engine: engine}
}

// ListPending returns the pending submissions, oldest first.
func (h *ModerationHandler) ListPending(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok || !user.IsAdmin() {
		return jsonError(c, fiber.StatusForbidden, "admin access required")
	}

	pending, err := h.db.GetPendingSubmissions(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch submissions")
	}

	return jsonSuccess(c, pending)
}

// Approve publishes a pending submission as a new listing.
func (h *ModerationHandler) Approve(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok || !user.IsAdmin() {
		return jsonError(c, fiber.StatusForbidden, "admin access required")
	}

	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	dent, err := h.engine.Approve(c.Context(), subID, &user.ID)
	if err != nil {
		return h.engineError(c, err)
	}

	return jsonSuccess(c, dent)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject marks a pending submission rejected.
func (h *ModerationHandler) Reject(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok || !user.IsAdmin() {
		return jsonError(c, fiber.StatusForbidden, "admin access required")
	}

	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var req rejectRequest
	c.Bind().Body(&req) // body optional, reason may be empty

	if err := h.engine.Reject(c.Context(), subID, req.Reason, &user.ID); err != nil {
		return h.engineError(c, err)
	}

	return jsonSuccess(c, fiber.Map{"id": subID, "status": models.StatusRejected})
}

type linkRequest struct {
	DentistID string `json:"dentist_id"`
}

// Link resolves a pending submission against an existing listing.
func (h *ModerationHandler) Link(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok || !user.IsAdmin() {
		return jsonError(c, fiber.StatusForbidden, "admin access required")
	}

	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var req linkRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	dentistID, err := uuid.Parse(req.DentistID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid listing id")
	}

	dent, err := h.engine.Link(c.Context(), subID, dentistID, &user.ID)
	if err != nil {
		return h.engineError(c, err)
	}

	return jsonSuccess(c, dent)
}

func (h *ModerationHandler) engineError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, db.ErrSubmissionNotFound):
		return jsonError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, db.ErrAlreadyResolved):
		return jsonError(c, fiber.StatusConflict, "submission already reviewed")
	case errors.Is(err, db.ErrDentistNotFound):
		return jsonError(c, fiber.StatusNotFound, "listing not found")
	case errors.Is(err, moderation.ErrMissingEmail):
		return jsonError(c, fiber.StatusUnprocessableEntity, "submission has no email to attach ownership to")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "review failed")
	}
}
