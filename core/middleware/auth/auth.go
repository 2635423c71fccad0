// Package auth protects operator endpoints with a static API key.
package auth

import (
	"crypto/subtle"

	"rules-service/core/apperror"

	"github.com/gofiber/fiber/v2"
)

// HeaderName carries the API key.
const HeaderName = "X-API-Key"

// Config holds the middleware configuration.
type Config struct {
	// ApiKey is the expected key. An empty key rejects every request.
	ApiKey string
}

// New returns the middleware.
func New(cfg Config) fiber.Handler {
	expected := []byte(cfg.ApiKey)
	return func(c *fiber.Ctx) error {
		got := []byte(c.Get(HeaderName))
		if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			return apperror.New(fiber.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", "", "missing or invalid API key")
		}
		return c.Next()
	}
}
