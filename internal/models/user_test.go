package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestUser_IsAdmin(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	if !admin.IsAdmin() {
		t.Error("IsAdmin() = false for admin role")
	}
	owner := &User{Role: RoleOwner}
	if owner.IsAdmin() {
		t.Error("IsAdmin() = true for owner role")
	}
}

func TestUser_CanManage(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()
	email := "owner@example.com"
	otherEmail := "other@example.com"

	tests := []struct {
		name    string
		user    *User
		dentist *Dentist
		want    bool
	}{
		{
			name:    "admin manages everything",
			user:    &User{ID: userID, Email: email, Role: RoleAdmin},
			dentist: &Dentist{},
			want:    true,
		},
		{
			name:    "owner reference match",
			user:    &User{ID: userID, Email: email, Role: RoleOwner},
			dentist: &Dentist{OwnerUserID: &userID},
			want:    true,
		},
		{
			name:    "owner reference mismatch",
			user:    &User{ID: userID, Email: email, Role: RoleOwner},
			dentist: &Dentist{OwnerUserID: &otherID},
			want:    false,
		},
		{
			name:    "contact email fallback",
			user:    &User{ID: userID, Email: email, Role: RoleOwner},
			dentist: &Dentist{Email: &email},
			want:    true,
		},
		{
			name:    "email mismatch",
			user:    &User{ID: userID, Email: email, Role: RoleOwner},
			dentist: &Dentist{Email: &otherEmail},
			want:    false,
		},
		{
			name:    "no ownership signal",
			user:    &User{ID: userID, Email: email, Role: RoleOwner},
			dentist: &Dentist{},
			want:    false,
		},
		{
			name:    "owner reference wins even with different contact email",
			user:    &User{ID: userID, Email: email, Role: RoleOwner},
			dentist: &Dentist{OwnerUserID: &userID, Email: &otherEmail},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.CanManage(tt.dentist); got != tt.want {
				t.Errorf("CanManage() = %v, want %v", got, tt.want)
			}
		})
	}
}
