package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/lucifer-kj/review-app-sub002/internal/models"
)

func TestCreateReview(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	tenant := createTestTenant(t, db, "acme-cafe", models.TenantActive)

	review := &models.Review{
		TenantID:     tenant.ID,
		ReviewerName: "Jane",
		Rating:       5,
	}

	created, err := db.CreateReview(ctx, review)
	if err != nil {
		t.Fatalf("CreateReview() error = %v", err)
	}
	if !created {
		t.Error("CreateReview() created = false, want true")
	}
	if review.ID == uuid.Nil {
		t.Error("CreateReview() did not set ID")
	}
	if review.Source != models.SourceWeb {
		t.Errorf("CreateReview() source = %q, want %q", review.Source, models.SourceWeb)
	}
	if review.FeedbackSubmitted {
		t.Error("CreateReview() feedback_submitted = true on a fresh row")
	}
}

func TestCreateReview_IdempotentPerTracking(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	tenant := createTestTenant(t, db, "acme-cafe", models.TenantActive)

	tracking := uuid.NewString()

	first := &models.Review{
		TenantID:     tenant.ID,
		ReviewerName: "Jane",
		Rating:       5,
		TrackingID:   &tracking,
		Source:       models.SourceOneTap,
	}
	created, err := db.CreateReview(ctx, first)
	if err != nil {
		t.Fatalf("CreateReview() first error = %v", err)
	}
	if !created {
		t.Fatal("CreateReview() first created = false")
	}

	// Re-opening the same signed link must not produce a second row.
	second := &models.Review{
		TenantID:     tenant.ID,
		ReviewerName: "Jane",
		Rating:       5,
		TrackingID:   &tracking,
		Source:       models.SourceOneTap,
	}
	created, err = db.CreateReview(ctx, second)
	if err != nil {
		t.Fatalf("CreateReview() second error = %v", err)
	}
	if created {
		t.Error("CreateReview() second created = true, want false")
	}
	if second.ID != first.ID {
		t.Errorf("CreateReview() second id = %v, want existing %v", second.ID, first.ID)
	}

	var count int
	if err := db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM reviews WHERE tenant_id = $1 AND tracking_id = $2",
		tenant.ID, tracking,
	).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 1 {
		t.Errorf("review rows = %d, want 1", count)
	}
}

func TestCreateReview_SameTrackingDifferentTenants(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	tenantA := createTestTenant(t, db, "acme-cafe", models.TenantActive)
	tenantB := createTestTenant(t, db, "corner-bistro", models.TenantActive)

	tracking := uuid.NewString()

	for _, tenant := range []*models.Tenant{tenantA, tenantB} {
		review := &models.Review{
			TenantID:   tenant.ID,
			Rating:     4,
			TrackingID: &tracking,
		}
		created, err := db.CreateReview(ctx, review)
		if err != nil {
			t.Fatalf("CreateReview() tenant %s error = %v", tenant.Slug, err)
		}
		if !created {
			t.Errorf("CreateReview() tenant %s created = false, want true", tenant.Slug)
		}
	}
}

func TestAttachFeedback(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	tenant := createTestTenant(t, db, "acme-cafe", models.TenantActive)

	review := &models.Review{
		TenantID:     tenant.ID,
		ReviewerName: "Sam",
		Rating:       2,
	}
	if _, err := db.CreateReview(ctx, review); err != nil {
		t.Fatalf("CreateReview() error = %v", err)
	}

	updated, err := db.AttachFeedback(ctx, review.ID, "service was slow")
	if err != nil {
		t.Fatalf("AttachFeedback() error = %v", err)
	}

	if updated.FeedbackText == nil || *updated.FeedbackText != "service was slow" {
		t.Errorf("AttachFeedback() feedback_text = %v, want %q", updated.FeedbackText, "service was slow")
	}
	if !updated.FeedbackSubmitted {
		t.Error("AttachFeedback() feedback_submitted = false, want true")
	}
	if updated.FeedbackAt == nil {
		t.Error("AttachFeedback() feedback_at not set")
	}
}

func TestAttachFeedback_UnknownReview(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := db.AttachFeedback(context.Background(), uuid.New(), "anything"); !errors.Is(err, ErrReviewNotFound) {
		t.Errorf("AttachFeedback() error = %v, want ErrReviewNotFound", err)
	}
}

func TestMarkRedirected(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	tenant := createTestTenant(t, db, "acme-cafe", models.TenantActive)

	review := &models.Review{TenantID: tenant.ID, Rating: 5}
	if _, err := db.CreateReview(ctx, review); err != nil {
		t.Fatalf("CreateReview() error = %v", err)
	}

	if err := db.MarkRedirected(ctx, review.ID); err != nil {
		t.Fatalf("MarkRedirected() error = %v", err)
	}

	got, err := db.GetReviewByID(ctx, review.ID)
	if err != nil {
		t.Fatalf("GetReviewByID() error = %v", err)
	}
	if !got.Redirected {
		t.Error("redirected = false, want true")
	}
}

func TestListReviewsForTenant(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	tenant := createTestTenant(t, db, "acme-cafe", models.TenantActive)
	other := createTestTenant(t, db, "corner-bistro", models.TenantActive)

	for i := 1; i <= 3; i++ {
		review := &models.Review{TenantID: tenant.ID, Rating: i}
		if _, err := db.CreateReview(ctx, review); err != nil {
			t.Fatalf("CreateReview() error = %v", err)
		}
	}
	otherReview := &models.Review{TenantID: other.ID, Rating: 5}
	if _, err := db.CreateReview(ctx, otherReview); err != nil {
		t.Fatalf("CreateReview() error = %v", err)
	}

	reviews, err := db.ListReviewsForTenant(ctx, tenant.ID, 10)
	if err != nil {
		t.Fatalf("ListReviewsForTenant() error = %v", err)
	}
	if len(reviews) != 3 {
		t.Errorf("ListReviewsForTenant() returned %d reviews, want 3", len(reviews))
	}
	for _, r := range reviews {
		if r.TenantID != tenant.ID {
			t.Errorf("review %v belongs to tenant %v, want %v", r.ID, r.TenantID, tenant.ID)
		}
	}
}

func TestIncrementSubmissionOutcome(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := db.IncrementSubmissionOutcome(ctx, "acme-cafe", "external_redirect"); err != nil {
			t.Fatalf("IncrementSubmissionOutcome() error = %v", err)
		}
	}
	if err := db.IncrementSubmissionOutcome(ctx, "acme-cafe", "internal_feedback"); err != nil {
		t.Fatalf("IncrementSubmissionOutcome() error = %v", err)
	}

	outcomes, err := db.GetAllSubmissionOutcomes(ctx)
	if err != nil {
		t.Fatalf("GetAllSubmissionOutcomes() error = %v", err)
	}

	counts := make(map[string]int64)
	for _, o := range outcomes {
		counts[o.Outcome] = o.Count
	}
	if counts["external_redirect"] != 3 {
		t.Errorf("external_redirect count = %d, want 3", counts["external_redirect"])
	}
	if counts["internal_feedback"] != 1 {
		t.Errorf("internal_feedback count = %d, want 1", counts["internal_feedback"])
	}
}
