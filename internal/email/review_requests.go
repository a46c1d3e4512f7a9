package email

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
	"github.com/lucifer-kj/review-app-sub002/internal/models"
	"github.com/lucifer-kj/review-app-sub002/internal/signing"
	"github.com/lucifer-kj/review-app-sub002/internal/throttle"
)

var (
	// ErrThrottled means the tenant hit its review-request cap for the
	// current window.
	ErrThrottled = errors.New("review request limit reached for this tenant")

	// ErrSigningDisabled means no signing secret is configured and
	// unsigned (advisory) links are not explicitly allowed. Minting
	// fails closed rather than silently producing spoofable links.
	ErrSigningDisabled = errors.New("link signing is not configured")
)

// Customer identifies the recipient of a review request.
type Customer struct {
	Name        string
	Email       string
	Phone       string
	CountryCode string
}

// Notifier dispatches signed review-request emails.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
	signer    *signing.Signer
	limiter   *throttle.Limiter
	now       func() time.Time
}

// NewNotifier creates a new review-request notifier.
func NewNotifier(cfg *config.Config, signer *signing.Signer, limiter *throttle.Limiter) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
		signer:    signer,
		limiter:   limiter,
		now:       time.Now,
	}
}

// IsEnabled returns true if the notifier can actually send email.
func (n *Notifier) IsEnabled() bool {
	return n.service.IsEnabled()
}

// BuildOneTapLinks mints the five one-tap URLs for ratings 1 through 5,
// all sharing one tracking id and issuance timestamp. With signing
// enabled each link carries a signature; in explicitly-allowed unsigned
// mode the sig parameter is omitted and consumers treat the payload as
// advisory only.
func (n *Notifier) BuildOneTapLinks(tenant *models.Tenant, customer Customer, trackingID string, issuedAt time.Time) ([5]string, error) {
	var links [5]string

	if !n.signer.Enabled() && !n.cfg.AllowUnsignedLinks {
		return links, ErrSigningDisabled
	}

	for rating := 1; rating <= 5; rating++ {
		payload := signing.Payload{
			Name:        customer.Name,
			Phone:       customer.Phone,
			CountryCode: customer.CountryCode,
			Rating:      rating,
			TrackingID:  trackingID,
			IssuedAt:    issuedAt,
		}

		values := payload.Values()
		if n.signer.Enabled() {
			sig, err := n.signer.Sign(payload)
			if err != nil {
				return links, err
			}
			values.Set(signing.ParamSignature, sig)
		}

		links[rating-1] = fmt.Sprintf("%s/r/%s?%s", n.cfg.BaseURL, tenant.Slug, values.Encode())
	}

	return links, nil
}

// SendReviewRequest mints a tracking id, builds the signed links, and
// dispatches the review-request email. Returns the tracking id so the
// caller can correlate the eventual submission.
func (n *Notifier) SendReviewRequest(tenant *models.Tenant, customer Customer) (string, error) {
	allowed, err := n.limiter.Allow(tenant.Slug)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", ErrThrottled
	}

	trackingID := uuid.NewString()

	links, err := n.BuildOneTapLinks(tenant, customer, trackingID, n.now().Truncate(time.Second))
	if err != nil {
		return "", err
	}

	subject, htmlBody, textBody := n.templates.ReviewRequest(tenant, customer.Name, links)
	n.service.SendAsync([]string{customer.Email}, subject, htmlBody, textBody)

	return trackingID, nil
}
