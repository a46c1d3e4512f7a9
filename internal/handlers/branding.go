package handlers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
	"github.com/lucifer-kj/review-app-sub002/internal/models"
)

// MergeBranding adds site branding data to a fiber.Map for template rendering.
func MergeBranding(data fiber.Map, cfg *config.Config) fiber.Map {
	data["SiteTitle"] = cfg.SiteTitle
	data["SiteFooter"] = cfg.SiteFooter
	return data
}

// MergeTenantBranding layers a tenant's branding on top of the site
// branding. Public review pages are themed per tenant.
func MergeTenantBranding(data fiber.Map, tenant *models.Tenant, cfg *config.Config) fiber.Map {
	data = MergeBranding(data, cfg)
	data["TenantName"] = tenant.Name
	data["TenantSlug"] = tenant.Slug
	data["PrimaryColor"] = tenant.PrimaryColor
	data["SecondaryColor"] = tenant.SecondaryColor
	if tenant.LogoURL != nil {
		data["LogoURL"] = *tenant.LogoURL
	}
	return data
}
