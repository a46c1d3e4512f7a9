package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lucifer-kj/review-app-sub002/internal/models"
)

// tenantColumns is the standard column list for tenant queries.
const tenantColumns = `id, name, slug, status, primary_color, secondary_color, logo_url,
	destination_url, destination_health, destination_checked_at, destination_error,
	created_at, updated_at`

// scanTenant scans a row into a Tenant struct.
func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Slug,
		&t.Status,
		&t.PrimaryColor,
		&t.SecondaryColor,
		&t.LogoURL,
		&t.DestinationURL,
		&t.DestinationHealth,
		&t.DestinationCheckedAt,
		&t.DestinationError,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// scanTenants scans multiple rows into a slice of Tenants.
func scanTenants(rows pgx.Rows) ([]models.Tenant, error) {
	defer rows.Close()

	var tenants []models.Tenant
	for rows.Next() {
		var t models.Tenant
		if err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.Slug,
			&t.Status,
			&t.PrimaryColor,
			&t.SecondaryColor,
			&t.LogoURL,
			&t.DestinationURL,
			&t.DestinationHealth,
			&t.DestinationCheckedAt,
			&t.DestinationError,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}

	return tenants, rows.Err()
}

// CreateTenant creates a new tenant.
func (d *DB) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	status := tenant.Status
	if status == "" {
		status = models.TenantPending
	}
	primary := tenant.PrimaryColor
	if primary == "" {
		primary = "#2563eb"
	}
	secondary := tenant.SecondaryColor
	if secondary == "" {
		secondary = "#1e40af"
	}

	query := `
		INSERT INTO tenants (name, slug, status, primary_color, secondary_color, logo_url, destination_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, destination_health, created_at, updated_at
	`

	err := d.Pool.QueryRow(ctx, query,
		tenant.Name,
		tenant.Slug,
		status,
		primary,
		secondary,
		tenant.LogoURL,
		tenant.DestinationURL,
	).Scan(&tenant.ID, &tenant.DestinationHealth, &tenant.CreatedAt, &tenant.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return err
	}

	tenant.Status = status
	tenant.PrimaryColor = primary
	tenant.SecondaryColor = secondary
	return nil
}

// GetTenantByID retrieves a tenant by its ID regardless of status.
func (d *DB) GetTenantByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	return scanTenant(d.Pool.QueryRow(ctx, query, id))
}

// GetTenantBySlug retrieves a tenant by slug regardless of status.
// For operator use only; public resolution goes through GetActiveTenantBySlug.
func (d *DB) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE slug = $1`
	return scanTenant(d.Pool.QueryRow(ctx, query, slug))
}

// GetActiveTenantBySlug retrieves an active tenant by slug. Suspended and
// pending tenants resolve to ErrTenantNotFound so public callers cannot
// enumerate de-provisioned tenants.
func (d *DB) GetActiveTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE slug = $1 AND status = $2`
	return scanTenant(d.Pool.QueryRow(ctx, query, slug, models.TenantActive))
}

// UpdateTenantStatus changes a tenant's status. Tenants are never hard
// deleted while reviews reference them; suspension is the soft removal.
func (d *DB) UpdateTenantStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE tenants SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := d.Pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}

// ListTenants returns all tenants ordered by creation time.
func (d *DB) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at ASC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanTenants(rows)
}

// EnsureTenant inserts a tenant if its slug does not exist yet. Used by the
// YAML bootstrap; existing rows are left untouched so published slugs stay
// immutable.
func (d *DB) EnsureTenant(ctx context.Context, tenant *models.Tenant) error {
	status := tenant.Status
	if status == "" {
		status = models.TenantPending
	}
	primary := tenant.PrimaryColor
	if primary == "" {
		primary = "#2563eb"
	}
	secondary := tenant.SecondaryColor
	if secondary == "" {
		secondary = "#1e40af"
	}

	query := `
		INSERT INTO tenants (name, slug, status, primary_color, secondary_color, logo_url, destination_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slug) DO NOTHING
	`
	_, err := d.Pool.Exec(ctx, query,
		tenant.Name,
		tenant.Slug,
		status,
		primary,
		secondary,
		tenant.LogoURL,
		tenant.DestinationURL,
	)
	if err != nil {
		return err
	}

	tenant.Status = status
	tenant.PrimaryColor = primary
	tenant.SecondaryColor = secondary
	return nil
}

// GetTenantsNeedingDestinationCheck retrieves active tenants whose review
// destination has not been probed recently.
func (d *DB) GetTenantsNeedingDestinationCheck(ctx context.Context, maxAge time.Duration, limit int) ([]models.Tenant, error) {
	cutoff := time.Now().Add(-maxAge)
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE status = $1 AND (destination_checked_at IS NULL OR destination_checked_at < $2)
		ORDER BY destination_checked_at NULLS FIRST
		LIMIT $3
	`

	rows, err := d.Pool.Query(ctx, query, models.TenantActive, cutoff, limit)
	if err != nil {
		return nil, err
	}
	return scanTenants(rows)
}

// UpdateTenantDestinationHealth updates the destination health for a tenant.
func (d *DB) UpdateTenantDestinationHealth(ctx context.Context, id uuid.UUID, status string, errorMsg *string) error {
	query := `
		UPDATE tenants
		SET destination_health = $1, destination_checked_at = NOW(), destination_error = $2
		WHERE id = $3
	`
	result, err := d.Pool.Exec(ctx, query, status, errorMsg, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}
