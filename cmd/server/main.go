package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/redis/v3"
	"github.com/joho/godotenv"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
	"github.com/lucifer-kj/review-app-sub002/internal/db"
	"github.com/lucifer-kj/review-app-sub002/internal/email"
	"github.com/lucifer-kj/review-app-sub002/internal/jobs"
	"github.com/lucifer-kj/review-app-sub002/internal/metrics"
	"github.com/lucifer-kj/review-app-sub002/internal/models"
	"github.com/lucifer-kj/review-app-sub002/internal/server"
	"github.com/lucifer-kj/review-app-sub002/internal/signing"
	"github.com/lucifer-kj/review-app-sub002/internal/throttle"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Provision tenants from the optional bootstrap file
	if err := bootstrapTenants(ctx, cfg, database); err != nil {
		log.Fatalf("Failed to bootstrap tenants: %v", err)
	}

	// Register Prometheus collectors
	metrics.Init(database)

	// One-tap link signer
	signer := signing.New(cfg.ReviewLinkSecret, cfg.ReviewLinkMaxAge)
	switch {
	case signer.Enabled():
		log.Println("One-tap link signing enabled")
	case cfg.AllowUnsignedLinks:
		log.Println("WARNING: one-tap links are UNSIGNED (advisory mode). Set REVIEW_LINK_SECRET for production.")
	default:
		log.Println("No REVIEW_LINK_SECRET set. One-tap review requests are disabled.")
	}

	// Shared storage for rate-limit and throttle counters. Without Redis
	// the counters fall back to in-process memory, so caps only hold
	// per replica.
	var storage fiber.Storage
	if cfg.RedisURL != "" {
		storage = redis.New(redis.Config{URL: cfg.RedisURL})
		log.Println("Using Redis for rate-limit and throttle counters")
	} else {
		storage = memory.New()
		log.Println("REDIS_URL not set, using in-memory rate-limit and throttle counters")
	}

	limiter := throttle.New(storage, cfg.ReviewRequestsPerHour, time.Hour, "review-requests")
	notifier := email.NewNotifier(cfg, signer, limiter)
	if notifier.IsEnabled() {
		log.Println("Email sending enabled")
	} else {
		log.Println("SMTP is not configured. Review-request emails are disabled.")
	}

	// Background destination health checks
	checker := jobs.NewDestinationChecker(database, cfg.DestinationCheckInterval, cfg.DestinationCheckMaxAge)
	go checker.Start(ctx)

	// HTTP server
	srv := server.New(cfg, storage)
	if err := srv.RegisterRoutes(ctx, database, signer, notifier); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// bootstrapTenants provisions tenants listed in the optional YAML file.
// Existing tenants are never modified.
func bootstrapTenants(ctx context.Context, cfg *config.Config, database *db.DB) error {
	tenantsCfg, err := config.LoadTenantsConfig()
	if err != nil {
		return err
	}
	if tenantsCfg == nil {
		return nil
	}

	for _, tc := range tenantsCfg.Tenants {
		tenant := &models.Tenant{
			Name:           tc.Name,
			Slug:           tc.Slug,
			Status:         tc.Status,
			PrimaryColor:   tc.PrimaryColor,
			SecondaryColor: tc.SecondaryColor,
			DestinationURL: tc.DestinationURL,
		}
		if tc.LogoURL != "" {
			logo := tc.LogoURL
			tenant.LogoURL = &logo
		}
		if err := database.EnsureTenant(ctx, tenant); err != nil {
			return err
		}
	}

	log.Printf("Bootstrapped %d tenants from config", len(tenantsCfg.Tenants))
	return nil
}
