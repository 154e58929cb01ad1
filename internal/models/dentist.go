package models

import (
	"time"

	"github.com/google/uuid"
)

// Dentist represents a published practice listing.
type Dentist struct {
	ID           uuid.UUID  `json:"id"`
	Slug         string     `json:"slug"` // URL-safe, unique, immutable once set
	Name         string     `json:"name"`
	Address      *string    `json:"address"`
	City         *string    `json:"city"`
	Neighborhood *string    `json:"neighborhood"`
	Phone        *string    `json:"phone"`
	Email        *string    `json:"email"` // contact address, also legacy ownership key
	Website      *string    `json:"website"`
	Specialties  []string   `json:"specialties"`
	PhotoURL     *string    `json:"photo_url"`
	Rating       *float64   `json:"rating"`       // 0.0-5.0 or absent
	ReviewCount  *int       `json:"review_count"` // non-negative or absent
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	Verified     bool       `json:"verified"`
	PremiumUntil *time.Time `json:"premium_until"`
	ViewsCount   int64      `json:"views_count"`
	LeadsCount   int64      `json:"leads_count"`
	OwnerUserID  *uuid.UUID `json:"owner_user_id"` // durable ownership reference
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsPremium returns true if the listing has a premium timestamp strictly in
// the future.
func (d *Dentist) IsPremium() bool {
	return d.PremiumUntil != nil && d.PremiumUntil.After(time.Now())
}

// DentistFilters holds the search filter parameters for listing queries.
type DentistFilters struct {
	Query        string
	City         string
	Neighborhood string
	Specialty    string
	Verified     bool
	MinRating    float64
	Limit        int
	Offset       int
}

// DentistUpdate is the constrained field subset a practice owner may edit
// on their own listing. Slug, email, verification, ratings, counters and
// premium state stay administrator- or system-controlled.
type DentistUpdate struct {
	Name         string
	Address      *string
	City         *string
	Neighborhood *string
	Phone        *string
	Website      *string
	Specialties  []string
	PhotoURL     *string
}

// DirectoryStats holds the aggregate numbers shown on the homepage.
type DirectoryStats struct {
	Total    int64 `json:"total"`
	Verified int64 `json:"verified"`
	Cities   int64 `json:"cities"`
}

// CityCount pairs a city with its listing count.
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}
