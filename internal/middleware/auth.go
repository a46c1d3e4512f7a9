package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
)

// AuthMiddleware guards the operator surface via sessions.
type AuthMiddleware struct {
	store *session.Store
	cfg   *config.Config
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(store *session.Store, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{store: store, cfg: cfg}
}

// RequireOperator ensures the session belongs to an allowlisted operator.
// The allowlist is re-checked on every request so removing an address
// takes effect without waiting for the session to expire.
func (m *AuthMiddleware) RequireOperator(c fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	email, _ := sess.Get("operator_email").(string)
	if email == "" {
		return unauthorized(c)
	}

	if !m.cfg.IsOperator(email) {
		sess.Destroy()
		return unauthorized(c)
	}

	c.Locals("operator_email", email)
	return c.Next()
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   "operator login required",
	})
}
