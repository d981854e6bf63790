package api

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/ardzz/perplexity-scrape/pkg/openai"
)

const apiKeyHeader = "X-API-Key"

// requireAPIKey enforces the shared-secret header when a key is
// configured. With no key configured the check is disabled entirely.
// The comparison is constant-time to avoid leaking key prefixes.
func (s *Server) requireAPIKey(c *fiber.Ctx) error {
	if s.config.APIKey == "" {
		return c.Next()
	}

	provided := c.Get(apiKeyHeader)
	if provided == "" {
		c.Set(fiber.HeaderWWWAuthenticate, "ApiKey")
		return s.renderError(c, fiber.StatusUnauthorized, openai.ErrTypeAuthentication,
			"Missing API key. Provide "+apiKeyHeader+" header.", "")
	}

	if subtle.ConstantTimeCompare([]byte(provided), []byte(s.config.APIKey)) != 1 {
		c.Set(fiber.HeaderWWWAuthenticate, "ApiKey")
		return s.renderError(c, fiber.StatusUnauthorized, openai.ErrTypeAuthentication,
			"Invalid API key.", "")
	}

	return c.Next()
}
