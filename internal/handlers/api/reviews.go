package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
	"github.com/lucifer-kj/review-app-sub002/internal/db"
	"github.com/lucifer-kj/review-app-sub002/internal/metrics"
	"github.com/lucifer-kj/review-app-sub002/internal/models"
	"github.com/lucifer-kj/review-app-sub002/internal/review"
	"github.com/lucifer-kj/review-app-sub002/internal/validation"
)

// ReviewHandler handles public review submission and feedback capture.
type ReviewHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(database *db.DB, cfg *config.Config) *ReviewHandler {
	return &ReviewHandler{db: database, cfg: cfg}
}

// Submit persists a rating for a tenant and returns the branch the caller
// should take: navigate to the external review destination for high
// ratings, or to the feedback form for low ones.
func (h *ReviewHandler) Submit(c fiber.Ctx) error {
	var body struct {
		Slug          string `json:"slug"`
		ReviewerName  string `json:"reviewer_name"`
		ReviewerEmail string `json:"reviewer_email"`
		ReviewerPhone string `json:"reviewer_phone"`
		Rating        int    `json:"rating"`
		FeedbackText  string `json:"feedback_text"`
		TrackingID    string `json:"tracking_id"`
		Source        string `json:"source"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	slug := validation.NormalizeSlug(body.Slug)
	if !validation.ValidateSlug(slug) {
		return jsonError(c, fiber.StatusBadRequest, "invalid business identifier")
	}

	if !review.ValidRating(body.Rating) {
		return jsonError(c, fiber.StatusBadRequest, "rating must be between 1 and 5")
	}

	tenant, err := h.db.GetActiveTenantBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrTenantNotFound) {
			return jsonError(c, fiber.StatusNotFound, "business not found")
		}
		log.Printf("Failed to resolve tenant %s: %v", slug, err)
		return jsonError(c, fiber.StatusInternalServerError, "submission failed, please try again")
	}

	source := models.SourceWeb
	if body.Source == models.SourceOneTap {
		source = models.SourceOneTap
	}

	rec := &models.Review{
		TenantID:     tenant.ID,
		ReviewerName: validation.TrimName(body.ReviewerName),
		Rating:       body.Rating,
		Source:       source,
	}
	if email := strings.TrimSpace(body.ReviewerEmail); email != "" {
		rec.ReviewerEmail = &email
	}
	if phone := strings.TrimSpace(body.ReviewerPhone); phone != "" {
		rec.ReviewerPhone = &phone
	}
	if text := strings.TrimSpace(body.FeedbackText); text != "" {
		rec.FeedbackText = &text
	}
	if tracking := strings.TrimSpace(body.TrackingID); tracking != "" {
		rec.TrackingID = &tracking
	}
	if ua := c.Get("User-Agent"); ua != "" {
		rec.UserAgent = &ua
	}
	if ref := c.Get("Referer"); ref != "" {
		rec.Referrer = &ref
	}

	created, err := h.db.CreateReview(c.Context(), rec)
	if err != nil {
		log.Printf("Failed to persist review for tenant %s: %v", slug, err)
		return jsonError(c, fiber.StatusInternalServerError, "submission failed, please try again")
	}

	outcome := review.Decide(rec.Rating)
	if created {
		metrics.RecordSubmission(tenant.Slug, string(outcome))
	}

	if outcome == review.OutcomeExternalRedirect {
		go func(id uuid.UUID) {
			if err := h.db.MarkRedirected(context.Background(), id); err != nil {
				log.Printf("Failed to mark review %s redirected: %v", id, err)
			}
		}(rec.ID)

		return jsonOK(c, fiber.Map{
			"review_id":       rec.ID,
			"next":            "external",
			"destination_url": tenant.DestinationURL,
		})
	}

	return jsonOK(c, fiber.Map{
		"review_id": rec.ID,
		"next":      "feedback",
	})
}

// AttachFeedback records free-text feedback on an existing review.
// Review ids are random UUIDs, which is the possession proof for this
// update; a guessed id cannot realistically hit another tenant's row.
func (h *ReviewHandler) AttachFeedback(c fiber.Ctx) error {
	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid review id")
	}

	var body struct {
		FeedbackText string `json:"feedback_text"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	text := strings.TrimSpace(body.FeedbackText)
	if text == "" {
		return jsonError(c, fiber.StatusBadRequest, "feedback text is required")
	}

	updated, err := h.db.AttachFeedback(c.Context(), reviewID, text)
	if err != nil {
		if errors.Is(err, db.ErrReviewNotFound) {
			return jsonError(c, fiber.StatusNotFound, "this link is no longer valid")
		}
		log.Printf("Failed to attach feedback to review %s: %v", reviewID, err)
		return jsonError(c, fiber.StatusInternalServerError, "submission failed, please try again")
	}

	return jsonOK(c, fiber.Map{
		"review": updated,
	})
}
