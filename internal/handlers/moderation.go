package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"annuaire/internal/config"
	"annuaire/internal/db"
	"annuaire/internal/models"
	"annuaire/internal/moderation"
)

// ModerationHandler handles submission review operations.
type ModerationHandler struct {
	db     *db.DB
	cfg    *config.Config
	engine *moderation.Engine
}

// NewModerationHandler creates a new moderation handler.
func NewModerationHandler(database *db.DB, cfg *config.Config, engine *moderation.Engine) *ModerationHandler {
	return &ModerationHandler{db: database, cfg: cfg, engine: engine}
}

// Index renders the moderation queue, oldest submissions first.
func (h *ModerationHandler) Index(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "you do not have moderation permissions")
	}

	pending, err := h.db.GetPendingSubmissions(c.Context())
	if err != nil {
		return err
	}

	counts, err := h.db.GetSubmissionCountsByStatus(c.Context())
	if err != nil {
		return err
	}

	return c.Render("moderation", MergeBranding(fiber.Map{
		"User":    user,
		"Pending": pending,
		"Counts":  counts,
	}, h.cfg))
}

// Approve publishes a pending submission as a new listing.
func (h *ModerationHandler) Approve(c fiber.Ctx) error {
	user, subID, err := h.reviewContext(c)
	if err != nil {
		return err
	}

	dent, err := h.engine.Approve(c.Context(), subID, &user.ID)
	if err != nil {
		return moderationError(err)
	}

	return c.Render("partials/moderation_success", fiber.Map{
		"Action": "approuvée",
		"Name":   dent.Name,
		"Slug":   dent.Slug,
	}, "")
}

// Reject marks a pending submission rejected with an optional reason.
func (h *ModerationHandler) Reject(c fiber.Ctx) error {
	user, subID, err := h.reviewContext(c)
	if err != nil {
		return err
	}

	reason := c.FormValue("reason")
	if err := h.engine.Reject(c.Context(), subID, reason, &user.ID); err != nil {
		return moderationError(err)
	}

	sub, err := h.db.GetPendingDentistByID(c.Context(), subID)
	if err != nil {
		return err
	}

	return c.Render("partials/moderation_success", fiber.Map{
		"Action": "rejetée",
		"Name":   sub.Name,
	}, "")
}

// Link resolves a pending submission against an existing listing, handing
// the submitter ownership of it instead of creating a duplicate.
func (h *ModerationHandler) Link(c fiber.Ctx) error {
	user, subID, err := h.reviewContext(c)
	if err != nil {
		return err
	}

	dentistID, err := uuid.Parse(c.FormValue("dentist_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid listing id")
	}

	dent, err := h.engine.Link(c.Context(), subID, dentistID, &user.ID)
	if err != nil {
		return moderationError(err)
	}

	return c.Render("partials/moderation_success", fiber.Map{
		"Action": "rattachée",
		"Name":   dent.Name,
		"Slug":   dent.Slug,
	}, "")
}

// reviewContext extracts the reviewing admin and the submission id from
// the request.
func (h *ModerationHandler) reviewContext(c fiber.Ctx) (*models.User, uuid.UUID, error) {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsAdmin() {
		return nil, uuid.Nil, fiber.NewError(fiber.StatusForbidden, "you do not have moderation permissions")
	}

	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid submission id")
	}

	return user, subID, nil
}

// moderationError maps engine errors onto HTTP statuses.
func moderationError(err error) error {
	switch {
	case errors.Is(err, db.ErrSubmissionNotFound):
		return fiber.NewError(fiber.StatusNotFound, "submission not found")
	case errors.Is(err, db.ErrAlreadyResolved):
		return fiber.NewError(fiber.StatusConflict, "submission already reviewed")
	case errors.Is(err, db.ErrDentistNotFound):
		return fiber.NewError(fiber.StatusNotFound, "listing not found")
	case errors.Is(err, moderation.ErrMissingEmail):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "submission has no email to attach ownership to")
	default:
		return err
	}
}
