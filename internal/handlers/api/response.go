package api

import (
	"github.com/gofiber/fiber/v3"
)

// jsonOK returns a 200 response with success=true merged into the payload.
func jsonOK(c fiber.Ctx, payload fiber.Map) error {
	payload["success"] = true
	return c.JSON(payload)
}

// jsonError returns an error response with the given HTTP status code.
// Messages are terse and actionable; store-internal error text never
// reaches the public submission flow.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
