package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"annuaire/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping verifies the database connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDevDentists inserts sample listings for development. Skips slugs that
// already exist.
func (d *DB) SeedDevDentists(ctx context.Context) error {
	dentists := []struct {
		slug     string
		name     string
		city     string
		phone    string
		verified bool
	}{
		{"dr-amina-tazi-dev01", "Dr. Amina Tazi", "Casablanca", "+212600000001", true},
		{"cabinet-el-fassi-dev02", "Cabinet El Fassi", "Rabat", "+212600000002", true},
		{"dr-omar-bennani-dev03", "Dr. Omar Bennani", "Fès", "+212600000003", false},
		{"clinique-sourire-dev04", "Clinique Sourire", "Marrakech", "+212600000004", false},
	}

	query := `
		INSERT INTO dentists (slug, name, city, phone, verified)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO NOTHING
	`

	for _, dent := range dentists {
		if _, err := d.Pool.Exec(ctx, query, dent.slug, dent.name, dent.city, dent.phone, dent.verified); err != nil {
			return fmt.Errorf("failed to seed dentist %s: %w", dent.slug, err)
		}
	}

	return nil
}
