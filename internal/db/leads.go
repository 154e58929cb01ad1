package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"annuaire/internal/models"
)

const leadColumns = `id, dentist_id, patient_name, email, phone, message, status, created_at`

func scanLeads(rows pgx.Rows) ([]models.Lead, error) {
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		var lead models.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.DentistID,
			&lead.PatientName,
			&lead.Email,
			&lead.Phone,
			&lead.Message,
			&lead.Status,
			&lead.CreatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

// CreateLead records a patient contact message for a listing and bumps the
// listing's lead counter. The foreign key enforces that the listing
// exists; a violation comes back as ErrDentistNotFound with nothing
// persisted.
func (d *DB) CreateLead(ctx context.Context, lead *models.Lead) error {
	query := `
		INSERT INTO leads (dentist_id, patient_name, email, phone, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := d.Pool.QueryRow(ctx, query,
		lead.DentistID,
		lead.PatientName,
		lead.Email,
		lead.Phone,
		lead.Message,
		models.LeadStatusNew,
	).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrDentistNotFound
		}
		return err
	}
	lead.Status = models.LeadStatusNew

	// Counter update is independent of the insert; a failure here leaves
	// the lead in place and only the display counter behind by one.
	_, err = d.Pool.Exec(ctx, `UPDATE dentists SET leads_count = leads_count + 1 WHERE id = $1`, lead.DentistID)
	return err
}

// GetLeadsForOwner retrieves all leads for the listings the user manages,
// newest first. Authorization happens through the dentists join, not on
// the lead rows themselves.
func (d *DB) GetLeadsForOwner(ctx context.Context, user *models.User) ([]models.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE dentist_id IN (SELECT id FROM dentists WHERE owner_user_id = $1 OR email = $2)
		ORDER BY created_at DESC
	`
	rows, err := d.Pool.Query(ctx, query, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return scanLeads(rows)
}

// MarkLeadRead moves a lead from new to read, but only when the lead
// belongs to a listing the user manages. The transition is one-way: there
// is no path back to new.
func (d *DB) MarkLeadRead(ctx context.Context, leadID uuid.UUID, user *models.User) error {
	query := `
		UPDATE leads
		SET status = $1
		FROM dentists d
		WHERE leads.id = $2 AND leads.dentist_id = d.id
			AND (d.owner_user_id = $3 OR d.email = $4)
	`
	result, err := d.Pool.Exec(ctx, query, models.LeadStatusRead, leadID, user.ID, user.Email)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// GetLeadCountsByStatus returns the number of leads per status. Used by
// the metrics collector.
func (d *DB) GetLeadCountsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
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
