package auth

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Config of the API authentication middleware.
type Config struct {
	// Prefix selects the protected paths.
	Prefix string
	// Public paths below Prefix that are served without a token.
	Public []string
	// Bearer verifies the token and stores the caller.
	Bearer fiber.Handler
}

// New returns the middleware guarding every path below cfg.Prefix except cfg.Public.
func New(cfg Config) fiber.Handler {
	prefix := strings.TrimSuffix(cfg.Prefix, "/")

	return func(c *fiber.Ctx) error {
		path := strings.TrimSuffix(c.Path(), "/")

		if path != prefix && !strings.HasPrefix(path, prefix+"/") {
			return c.Next()
		}

		if IsPublic(path, cfg.Public) {
			return c.Next()
		}

		return cfg.Bearer(c)
	}
}

// IsPublic reports whether path is one of the public paths.
func IsPublic(path string, public []string) bool {
	return slices.Contains(public, strings.TrimSuffix(path, "/"))
}
