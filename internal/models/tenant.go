package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant statuses.
const (
	TenantActive    = "active"
	TenantSuspended = "suspended"
	TenantPending   = "pending"
)

// Destination health statuses.
const (
	HealthUnknown   = "unknown"
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
)

// Tenant represents a business that collects reviews through the service.
// The slug is immutable once published; outstanding signed links and QR
// codes embed it.
type Tenant struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Slug                 string     `json:"slug"`
	Status               string     `json:"status"`
	PrimaryColor         string     `json:"primary_color"`
	SecondaryColor       string     `json:"secondary_color"`
	LogoURL              *string    `json:"logo_url,omitempty"`
	DestinationURL       string     `json:"destination_url"`
	DestinationHealth    string     `json:"destination_health"`
	DestinationCheckedAt *time.Time `json:"destination_checked_at,omitempty"`
	DestinationError     *string    `json:"destination_error,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// IsActive returns true if the tenant may receive public submissions.
func (t *Tenant) IsActive() bool {
	return t.Status == TenantActive
}

// PublicView is the subset of tenant fields safe to expose to
// unauthenticated callers.
type PublicView struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Status         string    `json:"status"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	LogoURL        *string   `json:"logo_url,omitempty"`
	DestinationURL string    `json:"destination_url"`
}

// Public returns the tenant's public view.
func (t *Tenant) Public() PublicView {
	return PublicView{
		ID:             t.ID,
		Name:           t.Name,
		Slug:           t.Slug,
		Status:         t.Status,
		PrimaryColor:   t.PrimaryColor,
		SecondaryColor: t.SecondaryColor,
		LogoURL:        t.LogoURL,
		DestinationURL: t.DestinationURL,
	}
}
