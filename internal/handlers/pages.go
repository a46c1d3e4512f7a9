package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
	"github.com/lucifer-kj/review-app-sub002/internal/db"
	"github.com/lucifer-kj/review-app-sub002/internal/validation"
)

// PageHandler renders the tenant-branded feedback and thank-you pages.
type PageHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewPageHandler creates a new page handler.
func NewPageHandler(database *db.DB, cfg *config.Config) *PageHandler {
	return &PageHandler{db: database, cfg: cfg}
}

// Feedback renders the private feedback form for a low-rating review.
// The review must belong to the tenant in the path, otherwise feedback
// links could be replayed across tenants.
func (h *PageHandler) Feedback(c fiber.Ctx) error {
	slug := validation.NormalizeSlug(c.Params("slug"))

	tenant, err := h.db.GetActiveTenantBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrTenantNotFound) {
			return h.renderNotFound(c)
		}
		return err
	}

	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.renderNotFound(c)
	}

	rev, err := h.db.GetReviewByID(c.Context(), reviewID)
	if err != nil {
		if errors.Is(err, db.ErrReviewNotFound) {
			return h.renderNotFound(c)
		}
		return err
	}

	if rev.TenantID != tenant.ID {
		return h.renderNotFound(c)
	}

	return c.Render("feedback", MergeTenantBranding(fiber.Map{
		"Title":    "Tell us what went wrong",
		"ReviewID": rev.ID.String(),
	}, tenant, h.cfg))
}

// Thanks renders the post-submission thank-you page.
func (h *PageHandler) Thanks(c fiber.Ctx) error {
	slug := validation.NormalizeSlug(c.Params("slug"))

	tenant, err := h.db.GetActiveTenantBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrTenantNotFound) {
			return h.renderNotFound(c)
		}
		return err
	}

	return c.Render("thanks", MergeTenantBranding(fiber.Map{
		"Title": "Thank you",
	}, tenant, h.cfg))
}

func (h *PageHandler) renderNotFound(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("error", MergeBranding(fiber.Map{
		"Title":   "Not Found",
		"Message": "This page does not exist or is no longer available.",
	}, h.cfg))
}
