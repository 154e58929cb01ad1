package models

import (
	"time"

	"github.com/google/uuid"
)

// Lead status constants. The transition is one-way: new leads can be
// marked read, never the reverse.
const (
	LeadStatusNew  = "new"
	LeadStatusRead = "read"
)

// Lead represents a patient contact message left on a published listing.
type Lead struct {
	ID          uuid.UUID `json:"id"`
	DentistID   uuid.UUID `json:"dentist_id"`
	PatientName *string   `json:"patient_name"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Message     *string   `json:"message"`
	Status      string    `json:"status"` // new, read
	CreatedAt   time.Time `json:"created_at"`
}

// HasContact returns true if the lead carries at least one way to reach
// the patient back.
func (l *Lead) HasContact() bool {
	return (l.Email != nil && *l.Email != "") || (l.Phone != nil && *l.Phone != "")
}
