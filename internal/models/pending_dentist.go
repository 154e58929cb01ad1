package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission status constants. Pending is initial; approved and rejected
// are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Resolution constants record how an approved submission was resolved:
// by publishing a new listing or by linking to an existing one.
const (
	ResolutionCreated = "created"
	ResolutionLinked  = "linked"
)

// PendingDentist represents a practice submission awaiting moderation.
type PendingDentist struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	City              string     `json:"city"`
	Phone             string     `json:"phone"`
	Neighborhood      *string    `json:"neighborhood"`
	Address           *string    `json:"address"`
	Email             *string    `json:"email"`
	Website           *string    `json:"website"`
	Specialties       []string   `json:"specialties"`
	Latitude          *float64   `json:"latitude"`
	Longitude         *float64   `json:"longitude"`
	PhotoURL          *string    `json:"photo_url"`
	Status            string     `json:"status"` // pending, approved, rejected
	RejectionReason   *string    `json:"rejection_reason"`
	Resolution        *string    `json:"resolution"` // created, linked
	ResolvedDentistID *uuid.UUID `json:"resolved_dentist_id"`
	SubmittedBy       *uuid.UUID `json:"submitted_by"` // nil for anonymous submissions
	SubmittedAt       time.Time  `json:"submitted_at"`
	ReviewedBy        *uuid.UUID `json:"reviewed_by"`
	ReviewedAt        *time.Time `json:"reviewed_at"`
}

// IsPending returns true if the submission has not reached a terminal state.
func (p *PendingDentist) IsPending() bool {
	return p.Status == StatusPending
}
