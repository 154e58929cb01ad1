// Package moderation owns the submission lifecycle: how a pending
// practice submission becomes a published listing, gets linked to an
// existing one, or is rejected.
package moderation

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"annuaire/internal/db"
	"annuaire/internal/models"
	"annuaire/internal/slug"
)

// ErrMissingEmail is returned when a link is attempted on a submission
// without an email; there is nothing to transfer ownership to.
var ErrMissingEmail = errors.New("submission has no email, cannot link")

// slugAttempts bounds the generate-then-verify retry loop when publishing
// a submission.
const slugAttempts = 5

// Store is the durable state the engine operates on. *db.DB satisfies it.
type Store interface {
	GetPendingDentistByID(ctx context.Context, id uuid.UUID) (*models.PendingDentist, error)
	GetDentistByID(ctx context.Context, id uuid.UUID) (*models.Dentist, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateDentist(ctx context.Context, dent *models.Dentist) error
	UpdateDentistOwnership(ctx context.Context, id uuid.UUID, email string, ownerUserID *uuid.UUID) error
	MarkApproved(ctx context.Context, id uuid.UUID, resolution string, dentistID uuid.UUID, reviewerID *uuid.UUID) error
	MarkRejected(ctx context.Context, id uuid.UUID, reason *string, reviewerID *uuid.UUID) error
}

// Notifier delivers best-effort emails on resolution. Implementations must
// never fail the calling operation; delivery problems are theirs to log.
type Notifier interface {
	NotifySubmissionApproved(ctx context.Context, sub *models.PendingDentist, dent *models.Dentist)
	NotifySubmissionRejected(ctx context.Context, sub *models.PendingDentist, reason string)
	NotifySubmissionLinked(ctx context.Context, sub *models.PendingDentist, dent *models.Dentist)
}

// Engine applies moderation decisions to submissions.
type Engine struct {
	store    Store
	notifier Notifier
}

// New creates a moderation engine.
func New(store Store, notifier Notifier) *Engine {
	return &Engine{store: store, notifier: notifier}
}

// Approve publishes a pending submission as a new listing. The listing is
// inserted first with verified=false (publication does not imply
// verification); only then is the submission moved to its terminal state,
// so an insert failure leaves the submission untouched. A status-update
// failure after a successful insert is reported to the caller; the
// already-inserted listing is an accepted, detectable inconsistency since
// the storage layer offers no cross-table transaction here.
func (e *Engine) Approve(ctx context.Context, submissionID uuid.UUID, reviewerID *uuid.UUID) (*models.Dentist, error) {
	sub, err := e.store.GetPendingDentistByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !sub.IsPending() {
		return nil, db.ErrAlreadyResolved
	}

	dent := &models.Dentist{
		Name:         sub.Name,
		City:         &sub.City,
		Phone:        &sub.Phone,
		Neighborhood: sub.Neighborhood,
		Address:      sub.Address,
		Email:        sub.Email,
		Website:      sub.Website,
		Specialties:  sub.Specialties,
		Latitude:     sub.Latitude,
		Longitude:    sub.Longitude,
		PhotoURL:     sub.PhotoURL,
		Verified:     false,
		OwnerUserID:  sub.SubmittedBy,
	}

	for i := 0; i < slugAttempts; i++ {
		dent.Slug = slug.Make(sub.Name)
		err = e.store.CreateDentist(ctx, dent)
		if !errors.Is(err, db.ErrDuplicateSlug) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	if err := e.store.MarkApproved(ctx, sub.ID, models.ResolutionCreated, dent.ID, reviewerID); err != nil {
		return nil, err
	}

	e.notifier.NotifySubmissionApproved(ctx, sub, dent)
	return dent, nil
}

// Reject moves a pending submission to the rejected terminal state with an
// optional free-text reason. No listing is created; a corrected
// re-submission starts a brand-new pending row.
func (e *Engine) Reject(ctx context.Context, submissionID uuid.UUID, reason string, reviewerID *uuid.UUID) error {
	sub, err := e.store.GetPendingDentistByID(ctx, submissionID)
	if err != nil {
		return err
	}
	if !sub.IsPending() {
		return db.ErrAlreadyResolved
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	if err := e.store.MarkRejected(ctx, sub.ID, reasonPtr, reviewerID); err != nil {
		return err
	}

	e.notifier.NotifySubmissionRejected(ctx, sub, reason)
	return nil
}

// Link attaches a pending submission to an existing listing instead of
// publishing a new one: the listing's contact email is overwritten with
// the submission's email (silently transferring management access, which
// the confirming administrator has been warned about) and, when the
// submitter has an account, the durable owner reference is set. The
// submission then resolves as approved with a "linked" resolution.
func (e *Engine) Link(ctx context.Context, submissionID, dentistID uuid.UUID, reviewerID *uuid.UUID) (*models.Dentist, error) {
	sub, err := e.store.GetPendingDentistByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !sub.IsPending() {
		return nil, db.ErrAlreadyResolved
	}
	if sub.Email == nil || *sub.Email == "" {
		return nil, ErrMissingEmail
	}

	dent, err := e.store.GetDentistByID(ctx, dentistID)
	if err != nil {
		return nil, err
	}

	ownerID := sub.SubmittedBy
	if ownerID == nil {
		if owner, err := e.store.GetUserByEmail(ctx, *sub.Email); err == nil {
			ownerID = &owner.ID
		} else if !errors.Is(err, db.ErrUserNotFound) {
			return nil, err
		}
	}

	if err := e.store.UpdateDentistOwnership(ctx, dent.ID, *sub.Email, ownerID); err != nil {
		return nil, err
	}

	if err := e.store.MarkApproved(ctx, sub.ID, models.ResolutionLinked, dent.ID, reviewerID); err != nil {
		return nil, err
	}

	e.notifier.NotifySubmissionLinked(ctx, sub, dent)
	return dent, nil
}
