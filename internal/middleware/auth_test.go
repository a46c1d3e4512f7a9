package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
)

func newTestApp(cfg *config.Config) *fiber.App {
	app := fiber.New()

	sessionMiddleware, store := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
	})
	app.Use(sessionMiddleware)

	m := NewAuthMiddleware(store, cfg)

	// Test-only login endpoint that plants a session the way the OIDC
	// callback would.
	app.Post("/test-login", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		sess.Set("operator_email", c.Query("email"))
		return c.SendString("ok")
	})

	app.Get("/api/admin/ping", m.RequireOperator, func(c fiber.Ctx) error {
		email, _ := c.Locals("operator_email").(string)
		return c.SendString(email)
	})

	return app
}

func TestRequireOperator_NoSession(t *testing.T) {
	cfg := &config.Config{OperatorEmails: []string{"ops@example.com"}}
	app := newTestApp(cfg)

	req, _ := http.NewRequest("GET", "/api/admin/ping", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Success {
		t.Error("expected success=false")
	}
	if body.Error == "" {
		t.Error("expected an error message")
	}
}

func TestRequireOperator_AllowlistedEmail(t *testing.T) {
	cfg := &config.Config{OperatorEmails: []string{"ops@example.com"}}
	app := newTestApp(cfg)

	req, _ := http.NewRequest("POST", "/test-login?email=ops@example.com", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie returned")
	}

	req2, _ := http.NewRequest("GET", "/api/admin/ping", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("admin request failed: %v", err)
	}
	if resp2.StatusCode != fiber.StatusOK {
		body, _ := io.ReadAll(resp2.Body)
		t.Fatalf("expected 200, got %d: %s", resp2.StatusCode, body)
	}
	body, _ := io.ReadAll(resp2.Body)
	if string(body) != "ops@example.com" {
		t.Errorf("expected operator email in locals, got %q", body)
	}
}

func TestRequireOperator_RemovedFromAllowlist(t *testing.T) {
	cfg := &config.Config{OperatorEmails: []string{"ops@example.com"}}
	app := newTestApp(cfg)

	// Session carries an email that is no longer allowlisted.
	req, _ := http.NewRequest("POST", "/test-login?email=gone@example.com", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}

	req2, _ := http.NewRequest("GET", "/api/admin/ping", nil)
	for _, c := range resp.Cookies() {
		req2.AddCookie(c)
	}
	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("admin request failed: %v", err)
	}
	if resp2.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for de-allowlisted operator, got %d", resp2.StatusCode)
	}
}
