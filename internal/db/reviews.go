package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lucifer-kj/review-app-sub002/internal/models"
)

// reviewColumns is the standard column list for review queries.
const reviewColumns = `id, tenant_id, reviewer_name, reviewer_email, reviewer_phone, rating,
	feedback_text, feedback_submitted, feedback_at, redirected, tracking_id,
	source, user_agent, referrer, created_at, updated_at`

// scanReview scans a row into a Review struct.
func scanReview(row pgx.Row) (*models.Review, error) {
	var r models.Review
	err := row.Scan(
		&r.ID,
		&r.TenantID,
		&r.ReviewerName,
		&r.ReviewerEmail,
		&r.ReviewerPhone,
		&r.Rating,
		&r.FeedbackText,
		&r.FeedbackSubmitted,
		&r.FeedbackAt,
		&r.Redirected,
		&r.TrackingID,
		&r.Source,
		&r.UserAgent,
		&r.Referrer,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReview persists a review row. When a tracking id is present the
// insert is idempotent per (tenant, tracking id): a duplicate submission
// from the same one-tap link returns the existing row with created=false.
func (d *DB) CreateReview(ctx context.Context, review *models.Review) (created bool, err error) {
	query := `
		INSERT INTO reviews (tenant_id, reviewer_name, reviewer_email, reviewer_phone, rating,
			feedback_text, tracking_id, source, user_agent, referrer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (tenant_id, tracking_id) WHERE tracking_id IS NOT NULL DO NOTHING
		RETURNING id, feedback_submitted, redirected, created_at, updated_at
	`

	source := review.Source
	if source == "" {
		source = models.SourceWeb
	}

	err = d.Pool.QueryRow(ctx, query,
		review.TenantID,
		review.ReviewerName,
		review.ReviewerEmail,
		review.ReviewerPhone,
		review.Rating,
		review.FeedbackText,
		review.TrackingID,
		source,
		review.UserAgent,
		review.Referrer,
	).Scan(&review.ID, &review.FeedbackSubmitted, &review.Redirected, &review.CreatedAt, &review.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict on (tenant_id, tracking_id): the link was already consumed.
		if review.TrackingID == nil {
			return false, ErrReviewNotFound
		}
		existing, getErr := d.GetReviewByTracking(ctx, review.TenantID, *review.TrackingID)
		if getErr != nil {
			return false, getErr
		}
		*review = *existing
		return false, nil
	}
	if err != nil {
		return false, err
	}

	review.Source = source
	return true, nil
}

// GetReviewByID retrieves a review by its ID.
func (d *DB) GetReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return scanReview(d.Pool.QueryRow(ctx, query, id))
}

// GetReviewByTracking retrieves a review by tenant and tracking id.
func (d *DB) GetReviewByTracking(ctx context.Context, tenantID uuid.UUID, trackingID string) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE tenant_id = $1 AND tracking_id = $2`
	return scanReview(d.Pool.QueryRow(ctx, query, tenantID, trackingID))
}

// AttachFeedback stores trimmed feedback text on an existing review and
// marks when it was captured. Repeated writes are last-write-wins.
func (d *DB) AttachFeedback(ctx context.Context, id uuid.UUID, feedbackText string) (*models.Review, error) {
	query := `
		UPDATE reviews
		SET feedback_text = $1, feedback_submitted = TRUE, feedback_at = NOW(), updated_at = NOW()
		WHERE id = $2
		RETURNING ` + reviewColumns

	return scanReview(d.Pool.QueryRow(ctx, query, feedbackText, id))
}

// MarkRedirected records that the customer was sent to the external
// review destination.
func (d *DB) MarkRedirected(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE reviews SET redirected = TRUE, updated_at = NOW() WHERE id = $1`
	result, err := d.Pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// ListReviewsForTenant retrieves a tenant's reviews, newest first.
func (d *DB) ListReviewsForTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]models.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := d.Pool.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(
			&r.ID,
			&r.TenantID,
			&r.ReviewerName,
			&r.ReviewerEmail,
			&r.ReviewerPhone,
			&r.Rating,
			&r.FeedbackText,
			&r.FeedbackSubmitted,
			&r.FeedbackAt,
			&r.Redirected,
			&r.TrackingID,
			&r.Source,
			&r.UserAgent,
			&r.Referrer,
			&r.CreatedAt,
			&r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}

	return reviews, rows.Err()
}
