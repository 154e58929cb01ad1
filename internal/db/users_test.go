package db

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"annuaire/internal/models"
)

func TestUpsertUser_Create(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	user := &models.User{
		Sub:   "oidc|new-user",
		Email: "new@example.com",
		Name:  "New User",
	}
	if err := db.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("UpsertUser() did not set ID")
	}
	if user.Role != models.RoleOwner {
		t.Errorf("UpsertUser() role = %q, want default %q", user.Role, models.RoleOwner)
	}
}

func TestUpsertUser_Update(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	user := &models.User{
		Sub:   "oidc|returning-user",
		Email: "old@example.com",
		Name:  "Old Name",
		Role:  models.RoleOwner,
	}
	if err := db.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser() first error = %v", err)
	}
	firstID := user.ID

	// A later sign-in refreshes profile and role but keeps the row.
	again := &models.User{
		Sub:   "oidc|returning-user",
		Email: "new@example.com",
		Name:  "New Name",
		Role:  models.RoleAdmin,
	}
	if err := db.UpsertUser(ctx, again); err != nil {
		t.Fatalf("UpsertUser() second error = %v", err)
	}

	if again.ID != firstID {
		t.Errorf("UpsertUser() ID changed across sign-ins: %v != %v", again.ID, firstID)
	}

	got, err := db.GetUserBySub(ctx, "oidc|returning-user")
	if err != nil {
		t.Fatalf("GetUserBySub() error = %v", err)
	}
	if got.Email != "new@example.com" {
		t.Errorf("UpsertUser() email = %q, want refreshed value", got.Email)
	}
	if got.Role != models.RoleAdmin {
		t.Errorf("UpsertUser() role = %q, want %q", got.Role, models.RoleAdmin)
	}
}

func TestGetUserBySub_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.GetUserBySub(context.Background(), "oidc|missing")
	if err != ErrUserNotFound {
		t.Errorf("GetUserBySub() error = %v, want ErrUserNotFound", err)
	}
}

func TestGetUserByEmail_OldestWins(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	first := &models.User{Sub: "oidc|shared-email-1", Email: "shared@example.com", Name: "First"}
	if err := db.UpsertUser(ctx, first); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}
	second := &models.User{Sub: "oidc|shared-email-2", Email: "shared@example.com", Name: "Second"}
	if err := db.UpsertUser(ctx, second); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	got, err := db.GetUserByEmail(ctx, "shared@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("GetUserByEmail() ID = %v, want oldest account %v", got.ID, first.ID)
	}
}
