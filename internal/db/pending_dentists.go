package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"annuaire/internal/models"
)

// pendingColumns is the standard column list for submission queries.
const pendingColumns = `id, name, city, phone, neighborhood, address, email, website,
	specialties, latitude, longitude, photo_url, status, rejection_reason,
	resolution, resolved_dentist_id, submitted_by, submitted_at, reviewed_by, reviewed_at`

func scanPending(row pgx.Row) (*models.PendingDentist, error) {
	var sub models.PendingDentist
	err := row.Scan(
		&sub.ID,
		&sub.Name,
		&sub.City,
		&sub.Phone,
		&sub.Neighborhood,
		&sub.Address,
		&sub.Email,
		&sub.Website,
		&sub.Specialties,
		&sub.Latitude,
		&sub.Longitude,
		&sub.PhotoURL,
		&sub.Status,
		&sub.RejectionReason,
		&sub.Resolution,
		&sub.ResolvedDentistID,
		&sub.SubmittedBy,
		&sub.SubmittedAt,
		&sub.ReviewedBy,
		&sub.ReviewedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func scanPendings(rows pgx.Rows) ([]models.PendingDentist, error) {
	defer rows.Close()

	var subs []models.PendingDentist
	for rows.Next() {
		var sub models.PendingDentist
		if err := rows.Scan(
			&sub.ID,
			&sub.Name,
			&sub.City,
			&sub.Phone,
			&sub.Neighborhood,
			&sub.Address,
			&sub.Email,
			&sub.Website,
			&sub.Specialties,
			&sub.Latitude,
			&sub.Longitude,
			&sub.PhotoURL,
			&sub.Status,
			&sub.RejectionReason,
			&sub.Resolution,
			&sub.ResolvedDentistID,
			&sub.SubmittedBy,
			&sub.SubmittedAt,
			&sub.ReviewedBy,
			&sub.ReviewedAt,
		); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// CreatePendingDentist records a new submission with pending status.
// Rejected submissions are never reopened; a corrected submission starts
// fresh through this same path.
func (d *DB) CreatePendingDentist(ctx context.Context, sub *models.PendingDentist) error {
	query := `
		INSERT INTO pending_dentists (name, city, phone, neighborhood, address, email, website,
			specialties, latitude, longitude, photo_url, status, submitted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, submitted_at
	`

	err := d.Pool.QueryRow(ctx, query,
		sub.Name,
		sub.City,
		sub.Phone,
		sub.Neighborhood,
		sub.Address,
		sub.Email,
		sub.Website,
		sub.Specialties,
		sub.Latitude,
		sub.Longitude,
		sub.PhotoURL,
		models.StatusPending,
		sub.SubmittedBy,
	).Scan(&sub.ID, &sub.SubmittedAt)
	if err != nil {
		return err
	}

	sub.Status = models.StatusPending
	return nil
}

// GetPendingDentistByID retrieves a submission by ID.
func (d *DB) GetPendingDentistByID(ctx context.Context, id uuid.UUID) (*models.PendingDentist, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_dentists WHERE id = $1`
	return scanPending(d.Pool.QueryRow(ctx, query, id))
}

// GetPendingSubmissions retrieves all submissions awaiting moderation,
// oldest first.
func (d *DB) GetPendingSubmissions(ctx context.Context) ([]models.PendingDentist, error) {
	query := `
		SELECT ` + pendingColumns + `
		FROM pending_dentists
		WHERE status = $1
		ORDER BY submitted_at ASC
	`
	rows, err := d.Pool.Query(ctx, query, models.StatusPending)
	if err != nil {
		return nil, err
	}
	return scanPendings(rows)
}

// GetLatestPendingByEmail retrieves the most recent submission for an
// email, any status. Used by the owner dashboard.
func (d *DB) GetLatestPendingByEmail(ctx context.Context, email string) (*models.PendingDentist, error) {
	query := `
		SELECT ` + pendingColumns + `
		FROM pending_dentists
		WHERE email = $1
		ORDER BY submitted_at DESC
		LIMIT 1
	`
	return scanPending(d.Pool.QueryRow(ctx, query, email))
}

// MarkApproved transitions a submission to the approved terminal state,
// recording how it was resolved. The update is conditional on the row
// still being pending so a double click or a concurrent moderator cannot
// resolve it twice; ErrAlreadyResolved reports the no-op.
func (d *DB) MarkApproved(ctx context.Context, id uuid.UUID, resolution string, dentistID uuid.UUID, reviewerID *uuid.UUID) error {
	query := `
		UPDATE pending_dentists
		SET status = $1, resolution = $2, resolved_dentist_id = $3, reviewed_by = $4, reviewed_at = $5
		WHERE id = $6 AND status = $7
	`
	result, err := d.Pool.Exec(ctx, query,
		models.StatusApproved,
		resolution,
		dentistID,
		reviewerID,
		time.Now(),
		id,
		models.StatusPending,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return d.resolveConflict(ctx, id)
	}
	return nil
}

// MarkRejected transitions a submission to the rejected terminal state.
// An empty reason is stored as NULL.
func (d *DB) MarkRejected(ctx context.Context, id uuid.UUID, reason *string, reviewerID *uuid.UUID) error {
	if reason != nil && *reason == "" {
		reason = nil
	}

	query := `
		UPDATE pending_dentists
		SET status = $1, rejection_reason = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $5 AND status = $6
	`
	result, err := d.Pool.Exec(ctx, query,
		models.StatusRejected,
		reason,
		reviewerID,
		time.Now(),
		id,
		models.StatusPending,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return d.resolveConflict(ctx, id)
	}
	return nil
}

// resolveConflict distinguishes "row does not exist" from "row already
// reached a terminal state" after a zero-row conditional update.
func (d *DB) resolveConflict(ctx context.Context, id uuid.UUID) error {
	var status string
	err := d.Pool.QueryRow(ctx, `SELECT status FROM pending_dentists WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSubmissionNotFound
	}
	if err != nil {
		return err
	}
	return ErrAlreadyResolved
}

// GetSubmissionCountsByStatus returns the number of submissions per status.
// Used by the metrics collector.
func (d *DB) GetSubmissionCountsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT status, COUNT(*) FROM pending_dentists GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
