package models

import (
	"time"

	"github.com/google/uuid"
)

// Review sources.
const (
	SourceWeb    = "web"
	SourceOneTap = "one-tap"
)

// Review represents a single customer rating for a tenant. The row is
// created at first rating submission and mutated at most once more when
// the low-rating branch attaches feedback text.
type Review struct {
	ID                uuid.UUID  `json:"id"`
	TenantID          uuid.UUID  `json:"tenant_id"`
	ReviewerName      string     `json:"reviewer_name"`
	ReviewerEmail     *string    `json:"reviewer_email,omitempty"`
	ReviewerPhone     *string    `json:"reviewer_phone,omitempty"`
	Rating            int        `json:"rating"`
	FeedbackText      *string    `json:"feedback_text,omitempty"`
	FeedbackSubmitted bool       `json:"feedback_submitted"`
	FeedbackAt        *time.Time `json:"feedback_at,omitempty"`
	Redirected        bool       `json:"redirected"`
	TrackingID        *string    `json:"tracking_id,omitempty"`
	Source            string     `json:"source"`
	UserAgent         *string    `json:"user_agent,omitempty"`
	Referrer          *string    `json:"referrer,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// SubmissionOutcome is a durable per-tenant counter row exported as a
// Prometheus metric.
type SubmissionOutcome struct {
	TenantSlug string    `json:"tenant_slug"`
	Outcome    string    `json:"outcome"`
	Count      int64     `json:"count"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
