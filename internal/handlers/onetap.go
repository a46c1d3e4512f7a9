package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
	"github.com/lucifer-kj/review-app-sub002/internal/db"
	"github.com/lucifer-kj/review-app-sub002/internal/metrics"
	"github.com/lucifer-kj/review-app-sub002/internal/models"
	"github.com/lucifer-kj/review-app-sub002/internal/review"
	"github.com/lucifer-kj/review-app-sub002/internal/signing"
	"github.com/lucifer-kj/review-app-sub002/internal/validation"
)

// OneTapHandler serves /r/:slug, the landing route for review links sent
// to customers. A verified signed payload submits in one tap; everything
// else degrades to the interactive rating form.
type OneTapHandler struct {
	db     *db.DB
	cfg    *config.Config
	signer *signing.Signer
}

// NewOneTapHandler creates a new one-tap handler.
func NewOneTapHandler(database *db.DB, cfg *config.Config, signer *signing.Signer) *OneTapHandler {
	return &OneTapHandler{db: database, cfg: cfg, signer: signer}
}

// Land resolves the tenant and decides between one-tap submission and the
// interactive form. A payload that fails verification is NEVER submitted;
// its identity fields may at most prefill the form.
func (h *OneTapHandler) Land(c fiber.Ctx) error {
	slug := validation.NormalizeSlug(c.Params("slug"))
	if !validation.ValidateSlug(slug) {
		return h.renderNotFound(c)
	}

	tenant, err := h.db.GetActiveTenantBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrTenantNotFound) {
			return h.renderNotFound(c)
		}
		return err
	}

	// A bare link has no rating parameter: plain interactive visit.
	if c.Query(signing.ParamRating) == "" {
		return h.renderRatePage(c, tenant, "", 0)
	}

	payload, err := signing.ParsePayload(func(key string) string { return c.Query(key) })
	if err != nil {
		metrics.RecordSignatureCheck("malformed")
		return h.renderRatePage(c, tenant, validation.TrimName(c.Query(signing.ParamName)), 0)
	}

	trusted, result := h.trustPayload(payload, c.Query(signing.ParamSignature))
	metrics.RecordSignatureCheck(result)
	if !trusted {
		// Advisory payloads may prefill the star the customer tapped,
		// but submission waits for their confirmation. Rejected
		// signatures prefill nothing beyond the name.
		prefillRating := 0
		if result == "advisory" && review.ValidRating(payload.Rating) {
			prefillRating = payload.Rating
		}
		return h.renderRatePage(c, tenant, validation.TrimName(payload.Name), prefillRating)
	}

	if !review.ValidRating(payload.Rating) {
		return h.renderRatePage(c, tenant, validation.TrimName(payload.Name), 0)
	}

	rev := &models.Review{
		TenantID:     tenant.ID,
		ReviewerName: validation.TrimName(payload.Name),
		Rating:       payload.Rating,
		Source:       models.SourceOneTap,
	}
	if payload.Phone != "" {
		phone := payload.Phone
		if payload.CountryCode != "" {
			phone = payload.CountryCode + " " + payload.Phone
		}
		rev.ReviewerPhone = &phone
	}
	if payload.TrackingID != "" {
		tracking := payload.TrackingID
		rev.TrackingID = &tracking
	}
	if ua := c.Get("User-Agent"); ua != "" {
		rev.UserAgent = &ua
	}
	if ref := c.Get("Referer"); ref != "" {
		rev.Referrer = &ref
	}

	created, err := h.db.CreateReview(c.Context(), rev)
	if err != nil {
		log.Printf("Failed to create one-tap review for tenant %s: %v", tenant.Slug, err)
		return c.Status(fiber.StatusInternalServerError).Render("error", MergeBranding(fiber.Map{
			"Title":   "Something went wrong",
			"Message": "We could not record your rating. Please try again.",
		}, h.cfg))
	}

	outcome := review.Decide(rev.Rating)
	if created {
		metrics.RecordSubmission(tenant.Slug, string(outcome))
	}

	if outcome == review.OutcomeExternalRedirect {
		go func() {
			if err := h.db.MarkRedirected(context.Background(), rev.ID); err != nil {
				log.Printf("Failed to mark review %s redirected: %v", rev.ID, err)
			}
		}()
		return c.Redirect().To(tenant.DestinationURL)
	}

	return c.Redirect().To("/r/" + tenant.Slug + "/feedback/" + rev.ID.String())
}

// trustPayload decides whether a payload may be auto-submitted. Only a
// verified signature qualifies; without a signing secret every payload is
// advisory, regardless of whether unsigned links were minted on purpose.
// The second return value is the metric label for the outcome.
func (h *OneTapHandler) trustPayload(payload signing.Payload, sig string) (bool, string) {
	if !h.signer.Enabled() {
		return false, "advisory"
	}
	if err := h.signer.Verify(payload, sig); err != nil {
		return false, "rejected"
	}
	return true, "verified"
}

func (h *OneTapHandler) renderRatePage(c fiber.Ctx, tenant *models.Tenant, prefillName string, prefillRating int) error {
	return c.Render("rate", MergeTenantBranding(fiber.Map{
		"Title":         "Rate your experience",
		"PrefillName":   prefillName,
		"PrefillRating": prefillRating,
	}, tenant, h.cfg))
}

func (h *OneTapHandler) renderNotFound(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("error", MergeBranding(fiber.Map{
		"Title":   "Not Found",
		"Message": "This business does not exist or is not accepting reviews.",
	}, h.cfg))
}
