package api

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
	"github.com/lucifer-kj/review-app-sub002/internal/db"
	"github.com/lucifer-kj/review-app-sub002/internal/email"
	"github.com/lucifer-kj/review-app-sub002/internal/models"
	"github.com/lucifer-kj/review-app-sub002/internal/validation"
)

// AdminHandler handles the operator provisioning surface: tenant
// lifecycle and review-request dispatch.
type AdminHandler struct {
	db       *db.DB
	cfg      *config.Config
	notifier *email.Notifier
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(database *db.DB, cfg *config.Config, notifier *email.Notifier) *AdminHandler {
	return &AdminHandler{db: database, cfg: cfg, notifier: notifier}
}

// CreateTenant provisions a new tenant.
func (h *AdminHandler) CreateTenant(c fiber.Ctx) error {
	var body struct {
		Name           string `json:"name"`
		Slug           string `json:"slug"`
		DestinationURL string `json:"destination_url"`
		Status         string `json:"status"`
		PrimaryColor   string `json:"primary_color"`
		SecondaryColor string `json:"secondary_color"`
		LogoURL        string `json:"logo_url"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	body.Slug = validation.NormalizeSlug(body.Slug)
	body.Name = strings.TrimSpace(body.Name)

	if body.Name == "" {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}
	if !validation.ValidateSlug(body.Slug) {
		return jsonError(c, fiber.StatusBadRequest, "slug must contain only lowercase letters, numbers, and hyphens")
	}
	if valid, msg := validation.ValidateURL(body.DestinationURL); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if body.Status != "" && body.Status != models.TenantActive &&
		body.Status != models.TenantSuspended && body.Status != models.TenantPending {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}

	tenant := &models.Tenant{
		Name:           body.Name,
		Slug:           body.Slug,
		Status:         body.Status,
		PrimaryColor:   body.PrimaryColor,
		SecondaryColor: body.SecondaryColor,
		DestinationURL: body.DestinationURL,
	}
	if logo := strings.TrimSpace(body.LogoURL); logo != "" {
		tenant.LogoURL = &logo
	}

	if err := h.db.CreateTenant(c.Context(), tenant); err != nil {
		if errors.Is(err, db.ErrDuplicateSlug) {
			return jsonError(c, fiber.StatusConflict, "slug already exists")
		}
		log.Printf("Failed to create tenant %s: %v", body.Slug, err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to create tenant")
	}

	return jsonOK(c, fiber.Map{"tenant": tenant})
}

// UpdateTenantStatus activates or suspends a tenant. Tenants are never
// hard-deleted while reviews reference them.
func (h *AdminHandler) UpdateTenantStatus(c fiber.Ctx) error {
	slug := validation.NormalizeSlug(c.Params("slug"))

	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Status != models.TenantActive && body.Status != models.TenantSuspended && body.Status != models.TenantPending {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}

	tenant, err := h.db.GetTenantBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrTenantNotFound) {
			return jsonError(c, fiber.StatusNotFound, "tenant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch tenant")
	}

	if err := h.db.UpdateTenantStatus(c.Context(), tenant.ID, body.Status); err != nil {
		log.Printf("Failed to update tenant %s status: %v", slug, err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to update tenant")
	}

	tenant.Status = body.Status
	return jsonOK(c, fiber.Map{"tenant": tenant})
}

// ListTenants returns all tenants.
func (h *AdminHandler) ListTenants(c fiber.Ctx) error {
	tenants, err := h.db.ListTenants(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch tenants")
	}
	return jsonOK(c, fiber.Map{"tenants": tenants})
}

// ListReviews returns a tenant's reviews, newest first.
func (h *AdminHandler) ListReviews(c fiber.Ctx) error {
	slug := validation.NormalizeSlug(c.Params("slug"))

	tenant, err := h.db.GetTenantBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrTenantNotFound) {
			return jsonError(c, fiber.StatusNotFound, "tenant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch tenant")
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	reviews, err := h.db.ListReviewsForTenant(c.Context(), tenant.ID, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch reviews")
	}

	return jsonOK(c, fiber.Map{"reviews": reviews})
}

// SendReviewRequest dispatches a signed one-tap review-request email to a
// customer on behalf of a tenant.
func (h *AdminHandler) SendReviewRequest(c fiber.Ctx) error {
	slug := validation.NormalizeSlug(c.Params("slug"))

	var body struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		CountryCode string `json:"country_code"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" {
		return jsonError(c, fiber.StatusBadRequest, "customer email is required")
	}

	tenant, err := h.db.GetTenantBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrTenantNotFound) {
			return jsonError(c, fiber.StatusNotFound, "tenant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch tenant")
	}
	if !tenant.IsActive() {
		return jsonError(c, fiber.StatusConflict, db.ErrTenantNotActive.Error())
	}

	if !h.notifier.IsEnabled() {
		return jsonError(c, fiber.StatusServiceUnavailable, "email sending is not configured")
	}

	trackingID, err := h.notifier.SendReviewRequest(tenant, email.Customer{
		Name:        validation.TrimName(body.Name),
		Email:       body.Email,
		Phone:       strings.TrimSpace(body.Phone),
		CountryCode: strings.TrimSpace(body.CountryCode),
	})
	if err != nil {
		switch {
		case errors.Is(err, email.ErrThrottled):
			return jsonError(c, fiber.StatusTooManyRequests, "review request limit reached, try again later")
		case errors.Is(err, email.ErrSigningDisabled):
			return jsonError(c, fiber.StatusServiceUnavailable, "link signing is not configured")
		default:
			log.Printf("Failed to send review request for tenant %s: %v", slug, err)
			return jsonError(c, fiber.StatusInternalServerError, "failed to send review request")
		}
	}

	return jsonOK(c, fiber.Map{
		"tracking_id": trackingID,
		"sent":        true,
	})
}
