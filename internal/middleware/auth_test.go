package middleware

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
)

func newTestApp(t *testing.T) (*fiber.App, *AuthMiddleware) {
	t.Helper()

	app := fiber.New()
	sessionMiddleware, store := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	// No session means the user lookup is never reached, so the
	// middleware works without a database here.
	return app, NewAuthMiddleware(store, nil)
}

func TestRequireAuth_RedirectsToLogin(t *testing.T) {
	app, auth := newTestApp(t)
	app.Get("/dashboard", auth.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString("dashboard")
	})

	req, _ := http.NewRequest("GET", "/dashboard", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("expected %d, got %d", fiber.StatusSeeOther, resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestRequireAuthAPI_UnauthenticatedGets401Envelope(t *testing.T) {
	app, auth := newTestApp(t)
	app.Get("/api/v1/leads", auth.RequireAuthAPI, func(c fiber.Ctx) error {
		return c.SendString("leads")
	})

	req, _ := http.NewRequest("GET", "/api/v1/leads", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "" {
		t.Errorf("API route must not redirect, got Location %q", loc)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if payload["status"] != "error" {
		t.Errorf("expected envelope status error, got %q", payload["status"])
	}
	if payload["error"] == "" {
		t.Error("expected an error message in the envelope")
	}
}
