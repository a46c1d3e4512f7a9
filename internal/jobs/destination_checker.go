package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lucifer-kj/review-app-sub002/internal/db"
	"github.com/lucifer-kj/review-app-sub002/internal/models"
	"github.com/lucifer-kj/review-app-sub002/internal/validation"
)

// DestinationChecker performs background reachability checks on tenant
// destination URLs. A broken destination means high ratings redirect
// customers into a dead end, so operators want to see it on the tenant
// before customers do.
type DestinationChecker struct {
	db       *db.DB
	interval time.Duration
	maxAge   time.Duration
	client   *resty.Client
}

// NewDestinationChecker creates a new destination checker.
func NewDestinationChecker(database *db.DB, interval, maxAge time.Duration) *DestinationChecker {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetHeader("User-Agent", "ReviewFlow-DestinationChecker/1.0")

	return &DestinationChecker{
		db:       database,
		interval: interval,
		maxAge:   maxAge,
		client:   client,
	}
}

// Start begins the background check loop.
func (d *DestinationChecker) Start(ctx context.Context) {
	log.Printf("Destination checker started (interval: %v, maxAge: %v)", d.interval, d.maxAge)

	// Run immediately on start
	d.checkAll(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Destination checker stopped")
			return
		case <-ticker.C:
			d.checkAll(ctx)
		}
	}
}

// checkAll checks all tenants whose last check is older than maxAge.
func (d *DestinationChecker) checkAll(ctx context.Context) {
	tenants, err := d.db.GetTenantsNeedingDestinationCheck(ctx, d.maxAge, 50)
	if err != nil {
		log.Printf("Destination checker: failed to get tenants: %v", err)
		return
	}

	if len(tenants) == 0 {
		return
	}

	log.Printf("Destination checker: checking %d tenants", len(tenants))

	for _, tenant := range tenants {
		select {
		case <-ctx.Done():
			return
		default:
		}

		status, errorMsg := d.checkURL(ctx, tenant.DestinationURL)
		if err := d.db.UpdateTenantDestinationHealth(ctx, tenant.ID, status, errorMsg); err != nil {
			log.Printf("Destination checker: failed to update tenant %s: %v", tenant.Slug, err)
			continue
		}

		// Delay between checks to avoid overwhelming external servers
		time.Sleep(1 * time.Second)
	}
}

// checkURL performs a HEAD request against a destination URL. URLs are
// validated before any request is made to prevent SSRF.
func (d *DestinationChecker) checkURL(ctx context.Context, url string) (string, *string) {
	if valid, msg := validation.ValidateDestinationURL(url); !valid {
		return models.HealthUnhealthy, &msg
	}

	resp, err := d.client.R().SetContext(ctx).Head(url)
	if err != nil {
		errMsg := "connection failed: " + err.Error()
		return models.HealthUnknown, &errMsg
	}

	// Some sites reject HEAD outright; fall back to GET before calling
	// the destination unhealthy.
	if resp.StatusCode() == 405 {
		resp, err = d.client.R().SetContext(ctx).Get(url)
		if err != nil {
			errMsg := "connection failed: " + err.Error()
			return models.HealthUnknown, &errMsg
		}
	}

	if resp.StatusCode() >= 500 {
		errMsg := "destination returned " + resp.Status()
		return models.HealthUnhealthy, &errMsg
	}

	return models.HealthHealthy, nil
}
