package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
	"github.com/lucifer-kj/review-app-sub002/internal/db"
	"github.com/lucifer-kj/review-app-sub002/internal/validation"
)

// TenantHandler handles public tenant resolution via JSON API.
type TenantHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewTenantHandler creates a new tenant handler.
func NewTenantHandler(database *db.DB, cfg *config.Config) *TenantHandler {
	return &TenantHandler{db: database, cfg: cfg}
}

// Resolve returns the public view of an active tenant by slug.
// Suspended and pending tenants are indistinguishable from unknown slugs.
func (h *TenantHandler) Resolve(c fiber.Ctx) error {
	slug := validation.NormalizeSlug(c.Params("slug"))

	if !validation.ValidateSlug(slug) {
		return jsonError(c, fiber.StatusBadRequest, "invalid business identifier")
	}

	tenant, err := h.db.GetActiveTenantBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrTenantNotFound) {
			return jsonError(c, fiber.StatusNotFound, "business not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to resolve business")
	}

	return jsonOK(c, fiber.Map{
		"tenant": tenant.Public(),
	})
}
