// Package review holds the rating-branch business rules.
package review

// Rating bounds for a valid submission.
const (
	MinRating = 1
	MaxRating = 5
)

// externalThreshold is the lowest rating that sends a customer to the
// tenant's public review destination. Fixed business rule, not
// configurable per tenant.
const externalThreshold = 4

// Outcome is the terminal branch for a submitted rating.
type Outcome string

const (
	// OutcomeExternalRedirect sends the customer to the tenant's public
	// review destination (e.g. a Google review page).
	OutcomeExternalRedirect Outcome = "external_redirect"

	// OutcomeInternalFeedback routes the customer to the internal
	// feedback capture form.
	OutcomeInternalFeedback Outcome = "internal_feedback"
)

// ValidRating reports whether r is within the accepted 1-5 range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Decide returns the branch for an already-validated rating.
func Decide(rating int) Outcome {
	if rating >= externalThreshold {
		return OutcomeExternalRedirect
	}
	return OutcomeInternalFeedback
}
