package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// Header carries the API key.
const Header = "X-API-Key"

// Config holds the auth middleware settings.
type Config struct {
	// ApiKey is the expected key. An empty key lets every request through.
	ApiKey string
}

// New returns a middleware that rejects requests without the configured key.
func New(cfg Config) fiber.Handler {
	want := []byte(cfg.ApiKey)
	return func(c *fiber.Ctx) error {
		if len(want) == 0 {
			return c.Next()
		}
		got := []byte(c.Get(Header))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or missing API key"})
		}
		return c.Next()
	}
}
