package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// User represents an authenticated account (practice owner or administrator).
// Authentication happens via OIDC; the administrator role is granted by the
// ADMIN_EMAILS allow-list at sign-in, never by an ad-hoc secret check.
type User struct {
	ID        uuid.UUID `json:"id"`
	Sub       string    `json:"sub"` // OIDC subject identifier
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // owner, admin
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user is an administrator.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanManage returns true if the user may manage the given listing, either
// as an administrator, as the durable owner, or via the legacy contact
// email match.
func (u *User) CanManage(d *Dentist) bool {
	if u.IsAdmin() {
		return true
	}
	if d.OwnerUserID != nil && *d.OwnerUserID == u.ID {
		return true
	}
	return d.Email != nil && *d.Email == u.Email
}
