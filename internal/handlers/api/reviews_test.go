package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
	"github.com/lucifer-kj/review-app-sub002/internal/db"
	"github.com/lucifer-kj/review-app-sub002/internal/models"
	"github.com/lucifer-kj/review-app-sub002/internal/testutil"
)

func newReviewTestApp(database *db.DB) *fiber.App {
	app := fiber.New()
	h := NewReviewHandler(database, &config.Config{})
	app.Post("/api/reviews", h.Submit)
	app.Patch("/api/reviews/:id/feedback", h.AttachFeedback)
	return app
}

func postJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	return resp, decoded
}

// Validation runs before any tenant lookup, so these tests get by
// without a database.

func TestSubmit_RejectsOutOfRangeRating(t *testing.T) {
	app := newReviewTestApp(nil)

	for _, rating := range []int{0, 6, -1} {
		resp, body := postJSON(t, app, "POST", "/api/reviews",
			`{"slug":"acme-cafe","reviewer_name":"Jo","rating":`+jsonInt(rating)+`}`)

		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("rating %d: status = %d, want 400", rating, resp.StatusCode)
		}
		if success, _ := body["success"].(bool); success {
			t.Errorf("rating %d: success = true, want false", rating)
		}
		if msg, _ := body["error"].(string); !strings.Contains(msg, "rating") {
			t.Errorf("rating %d: error = %q, want a rating message", rating, msg)
		}
	}
}

func TestSubmit_RejectsInvalidSlug(t *testing.T) {
	app := newReviewTestApp(nil)

	for _, slug := range []string{"", "acme cafe", "-leading", "UPPER CASE!"} {
		resp, body := postJSON(t, app, "POST", "/api/reviews",
			`{"slug":`+jsonString(slug)+`,"rating":5}`)

		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("slug %q: status = %d, want 400", slug, resp.StatusCode)
		}
		if success, _ := body["success"].(bool); success {
			t.Errorf("slug %q: success = true, want false", slug)
		}
	}
}

func TestSubmit_RejectsMalformedBody(t *testing.T) {
	app := newReviewTestApp(nil)

	resp, _ := postJSON(t, app, "POST", "/api/reviews", `{"slug":`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAttachFeedback_RejectsBadReviewID(t *testing.T) {
	app := newReviewTestApp(nil)

	resp, body := postJSON(t, app, "PATCH", "/api/reviews/not-a-uuid/feedback",
		`{"feedback_text":"slow service"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "review id") {
		t.Errorf("error = %q, want an invalid review id message", msg)
	}
}

func TestAttachFeedback_RejectsEmptyText(t *testing.T) {
	app := newReviewTestApp(nil)

	resp, _ := postJSON(t, app, "PATCH",
		"/api/reviews/4f2f54a5-95c0-4c0f-a22a-111111111111/feedback",
		`{"feedback_text":"   "}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSubmit_UnknownSlugReturns404(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" && os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	app := newReviewTestApp(database)

	resp, body := postJSON(t, app, "POST", "/api/reviews",
		`{"slug":"no-such-business","reviewer_name":"Jo","rating":5}`)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if msg, _ := body["error"].(string); msg != "business not found" {
		t.Errorf("error = %q, want %q", msg, "business not found")
	}
}

func TestSubmit_SuspendedTenantReturns404(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" && os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	testutil.CreateTestTenant(t, database, "closed-cafe", models.TenantSuspended, "https://g.page/closed")
	app := newReviewTestApp(database)

	resp, _ := postJSON(t, app, "POST", "/api/reviews",
		`{"slug":"closed-cafe","reviewer_name":"Jo","rating":5}`)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func jsonInt(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
