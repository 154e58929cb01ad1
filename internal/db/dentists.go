package db

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"annuaire/internal/models"
	"annuaire/internal/slug"
)

// slugInsertAttempts bounds the generate-then-verify retry loop for new
// listing slugs.
const slugInsertAttempts = 5

// dentistColumns is the standard column list for listing queries.
const dentistColumns = `id, slug, name, address, city, neighborhood, phone, email, website,
	specialties, photo_url, rating, review_count, latitude, longitude, verified,
	premium_until, views_count, leads_count, owner_user_id, created_at, updated_at`

// scanDentist scans a row into a Dentist struct.
func scanDentist(row pgx.Row) (*models.Dentist, error) {
	var dent models.Dentist
	err := row.Scan(
		&dent.ID,
		&dent.Slug,
		&dent.Name,
		&dent.Address,
		&dent.City,
		&dent.Neighborhood,
		&dent.Phone,
		&dent.Email,
		&dent.Website,
		&dent.Specialties,
		&dent.PhotoURL,
		&dent.Rating,
		&dent.ReviewCount,
		&dent.Latitude,
		&dent.Longitude,
		&dent.Verified,
		&dent.PremiumUntil,
		&dent.ViewsCount,
		&dent.LeadsCount,
		&dent.OwnerUserID,
		&dent.CreatedAt,
		&dent.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDentistNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dent, nil
}

// scanDentists scans multiple rows into a slice of Dentists.
func scanDentists(rows pgx.Rows) ([]models.Dentist, error) {
	defer rows.Close()

	var dentists []models.Dentist
	for rows.Next() {
		var dent models.Dentist
		if err := rows.Scan(
			&dent.ID,
			&dent.Slug,
			&dent.Name,
			&dent.Address,
			&dent.City,
			&dent.Neighborhood,
			&dent.Phone,
			&dent.Email,
			&dent.Website,
			&dent.Specialties,
			&dent.PhotoURL,
			&dent.Rating,
			&dent.ReviewCount,
			&dent.Latitude,
			&dent.Longitude,
			&dent.Verified,
			&dent.PremiumUntil,
			&dent.ViewsCount,
			&dent.LeadsCount,
			&dent.OwnerUserID,
			&dent.CreatedAt,
			&dent.UpdatedAt,
		); err != nil {
			return nil, err
		}
		dentists = append(dentists, dent)
	}

	return dentists, rows.Err()
}

// CreateDentist inserts a new listing with the slug already set on the
// struct. Returns ErrDuplicateSlug on a uniqueness violation so the caller
// can regenerate and retry.
func (d *DB) CreateDentist(ctx context.Context, dent *models.Dentist) error {
	query := `
		INSERT INTO dentists (slug, name, address, city, neighborhood, phone, email, website,
			specialties, photo_url, rating, review_count, latitude, longitude, verified, owner_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, views_count, leads_count, created_at, updated_at
	`

	err := d.Pool.QueryRow(ctx, query,
		dent.Slug,
		dent.Name,
		dent.Address,
		dent.City,
		dent.Neighborhood,
		dent.Phone,
		dent.Email,
		dent.Website,
		dent.Specialties,
		dent.PhotoURL,
		dent.Rating,
		dent.ReviewCount,
		dent.Latitude,
		dent.Longitude,
		dent.Verified,
		dent.OwnerUserID,
	).Scan(&dent.ID, &dent.ViewsCount, &dent.LeadsCount, &dent.CreatedAt, &dent.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return err
	}

	return nil
}

// CreateDentistGeneratingSlug derives a slug from the listing name and
// inserts, retrying with a fresh random suffix on collision. The bounded
// loop keeps slug uniqueness a verified property rather than a
// probabilistic one.
func (d *DB) CreateDentistGeneratingSlug(ctx context.Context, dent *models.Dentist) error {
	var err error
	for i := 0; i < slugInsertAttempts; i++ {
		dent.Slug = slug.Make(dent.Name)
		err = d.CreateDentist(ctx, dent)
		if !errors.Is(err, ErrDuplicateSlug) {
			return err
		}
	}
	return err
}

// GetDentistByID retrieves a listing by its ID.
func (d *DB) GetDentistByID(ctx context.Context, id uuid.UUID) (*models.Dentist, error) {
	query := `SELECT ` + dentistColumns + ` FROM dentists WHERE id = $1`
	return scanDentist(d.Pool.QueryRow(ctx, query, id))
}

// GetDentistBySlug retrieves a listing by its public slug.
func (d *DB) GetDentistBySlug(ctx context.Context, slug string) (*models.Dentist, error) {
	query := `SELECT ` + dentistColumns + ` FROM dentists WHERE slug = $1`
	return scanDentist(d.Pool.QueryRow(ctx, query, slug))
}

// GetFeaturedDentists returns listings for the homepage: verified, or rated
// at least 4.5.
func (d *DB) GetFeaturedDentists(ctx context.Context, limit int) ([]models.Dentist, error) {
	query := `
		SELECT ` + dentistColumns + `
		FROM dentists
		WHERE verified = TRUE OR rating >= 4.5
		ORDER BY verified DESC, rating DESC NULLS LAST, created_at DESC
		LIMIT $1
	`
	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return scanDentists(rows)
}

// GetDentists returns listings ordered by quality, used when nothing
// matches the featured filter.
func (d *DB) GetDentists(ctx context.Context, limit, offset int) ([]models.Dentist, error) {
	query := `
		SELECT ` + dentistColumns + `
		FROM dentists
		ORDER BY verified DESC, rating DESC NULLS LAST, created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := d.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanDentists(rows)
}

// SearchDentists returns listings matching the filters plus the total count
// for pagination.
func (d *DB) SearchDentists(ctx context.Context, filters models.DentistFilters) ([]models.Dentist, int64, error) {
	where := ` WHERE TRUE`
	var args []any

	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		args = append(args, pattern)
		p := strconv.Itoa(len(args))
		where += ` AND (name ILIKE $` + p + ` OR address ILIKE $` + p +
			` OR neighborhood ILIKE $` + p + ` OR city ILIKE $` + p + `)`
	}
	if filters.City != "" {
		args = append(args, filters.City)
		where += ` AND city ILIKE $` + strconv.Itoa(len(args))
	}
	if filters.Neighborhood != "" {
		args = append(args, filters.Neighborhood)
		where += ` AND neighborhood ILIKE $` + strconv.Itoa(len(args))
	}
	if filters.Specialty != "" {
		args = append(args, []string{filters.Specialty})
		where += ` AND specialties @> $` + strconv.Itoa(len(args))
	}
	if filters.Verified {
		where += ` AND verified = TRUE`
	}
	if filters.MinRating > 0 {
		args = append(args, filters.MinRating)
		where += ` AND rating >= $` + strconv.Itoa(len(args))
	}

	var total int64
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM dentists`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	sql := `SELECT ` + dentistColumns + ` FROM dentists` + where +
		` ORDER BY verified DESC, rating DESC NULLS LAST, created_at DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filters.Offset)
	sql += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := d.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	dentists, err := scanDentists(rows)
	if err != nil {
		return nil, 0, err
	}
	return dentists, total, nil
}

// GetStats returns the aggregate directory numbers for the homepage.
func (d *DB) GetStats(ctx context.Context) (*models.DirectoryStats, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE verified),
			COUNT(DISTINCT city) FILTER (WHERE city IS NOT NULL)
		FROM dentists
	`
	var stats models.DirectoryStats
	if err := d.Pool.QueryRow(ctx, query).Scan(&stats.Total, &stats.Verified, &stats.Cities); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetTopCities returns the cities with the most listings.
func (d *DB) GetTopCities(ctx context.Context, limit int) ([]models.CityCount, error) {
	query := `
		SELECT city, COUNT(*)
		FROM dentists
		WHERE city IS NOT NULL
		GROUP BY city
		ORDER BY COUNT(*) DESC, city ASC
		LIMIT $1
	`
	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []models.CityCount
	for rows.Next() {
		var cc models.CityCount
		if err := rows.Scan(&cc.City, &cc.Count); err != nil {
			return nil, err
		}
		cities = append(cities, cc)
	}
	return cities, rows.Err()
}

// UpdateDentist applies a full administrator edit. The slug is never
// touched: it is stable for the life of the row.
func (d *DB) UpdateDentist(ctx context.Context, dent *models.Dentist) error {
	query := `
		UPDATE dentists
		SET name = $1, address = $2, city = $3, neighborhood = $4, phone = $5, email = $6,
			website = $7, specialties = $8, photo_url = $9, rating = $10, review_count = $11,
			latitude = $12, longitude = $13, verified = $14, updated_at = NOW()
		WHERE id = $15
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		dent.Name,
		dent.Address,
		dent.City,
		dent.Neighborhood,
		dent.Phone,
		dent.Email,
		dent.Website,
		dent.Specialties,
		dent.PhotoURL,
		dent.Rating,
		dent.ReviewCount,
		dent.Latitude,
		dent.Longitude,
		dent.Verified,
		dent.ID,
	).Scan(&dent.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDentistNotFound
	}
	return err
}

// SetVerified toggles the administrator-controlled verification flag.
func (d *DB) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	query := `UPDATE dentists SET verified = $1, updated_at = NOW() WHERE id = $2`
	result, err := d.Pool.Exec(ctx, query, verified, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrDentistNotFound
	}
	return nil
}

// SetPremiumUntil sets or clears the premium expiry timestamp.
func (d *DB) SetPremiumUntil(ctx context.Context, id uuid.UUID, until *time.Time) error {
	query := `UPDATE dentists SET premium_until = $1, updated_at = NOW() WHERE id = $2`
	result, err := d.Pool.Exec(ctx, query, until, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrDentistNotFound
	}
	return nil
}

// DeleteDentist removes a listing. Administrator action, terminal and
// irreversible.
func (d *DB) DeleteDentist(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM dentists WHERE id = $1`
	result, err := d.Pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrDentistNotFound
	}
	return nil
}

// UpdateDentistOwnership overwrites the contact email and, when the
// submitter has an account, the durable owner reference. Used by the link
// moderation action; the overwrite is unconditional once the administrator
// confirms.
func (d *DB) UpdateDentistOwnership(ctx context.Context, id uuid.UUID, email string, ownerUserID *uuid.UUID) error {
	query := `
		UPDATE dentists
		SET email = $1, owner_user_id = COALESCE($2, owner_user_id), updated_at = NOW()
		WHERE id = $3
	`
	result, err := d.Pool.Exec(ctx, query, email, ownerUserID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrDentistNotFound
	}
	return nil
}

// GetDentistForOwner resolves at most one listing managed by the user:
// the durable owner reference first, the contact email as fallback for
// rows predating it.
func (d *DB) GetDentistForOwner(ctx context.Context, user *models.User) (*models.Dentist, error) {
	query := `
		SELECT ` + dentistColumns + `
		FROM dentists
		WHERE owner_user_id = $1 OR email = $2
		ORDER BY created_at ASC
		LIMIT 1
	`
	return scanDentist(d.Pool.QueryRow(ctx, query, user.ID, user.Email))
}

// UpdateOwnedListings applies a self-service edit to every listing the
// user manages. Updating all matching rows is the explicit policy: the
// data model does not prevent duplicate contact emails, and a partial
// update would pick one arbitrarily. Returns the slugs of the updated
// rows.
func (d *DB) UpdateOwnedListings(ctx context.Context, user *models.User, upd models.DentistUpdate) ([]string, error) {
	query := `
		UPDATE dentists
		SET name = COALESCE(NULLIF($1, ''), name), address = $2, city = $3, neighborhood = $4,
			phone = $5, website = $6, specialties = $7, photo_url = $8, updated_at = NOW()
		WHERE owner_user_id = $9 OR email = $10
		RETURNING slug
	`
	rows, err := d.Pool.Query(ctx, query,
		upd.Name,
		upd.Address,
		upd.City,
		upd.Neighborhood,
		upd.Phone,
		upd.Website,
		upd.Specialties,
		upd.PhotoURL,
		user.ID,
		user.Email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slugs = append(slugs, s)
	}
	return slugs, rows.Err()
}

// IncrementViews bumps the view counter for a listing.
func (d *DB) IncrementViews(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE dentists SET views_count = views_count + 1 WHERE id = $1`
	_, err := d.Pool.Exec(ctx, query, id)
	return err
}
