package db

import "errors"

// Domain-level database error sentinels.
var (
	// Tenant errors
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrDuplicateSlug   = errors.New("slug already exists")
	ErrTenantNotActive = errors.New("tenant is not active")

	// Review errors
	ErrReviewNotFound = errors.New("review not found")
)
