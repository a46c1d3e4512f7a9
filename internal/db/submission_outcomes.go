package db

import (
	"context"

	"github.com/lucifer-kj/review-app-sub002/internal/models"
)

// IncrementSubmissionOutcome upserts a per-tenant submission counter by outcome.
func (d *DB) IncrementSubmissionOutcome(ctx context.Context, tenantSlug, outcome string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO submission_outcomes (tenant_slug, outcome, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (tenant_slug, outcome) DO UPDATE
		SET count = submission_outcomes.count + 1, last_seen_at = NOW()
	`, tenantSlug, outcome)
	return err
}

// GetAllSubmissionOutcomes returns all submission counter rows for metrics export.
func (d *DB) GetAllSubmissionOutcomes(ctx context.Context) ([]models.SubmissionOutcome, error) {
	rows, err := d.Pool.Query(ctx, `SELECT tenant_slug, outcome, count, last_seen_at FROM submission_outcomes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []models.SubmissionOutcome
	for rows.Next() {
		var o models.SubmissionOutcome
		if err := rows.Scan(&o.TenantSlug, &o.Outcome, &o.Count, &o.LastSeenAt); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
