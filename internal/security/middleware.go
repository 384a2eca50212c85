package security

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/apitemplate/apitemplate/internal/config"
)

// SubjectKey is the fiber.Ctx locals key holding the authenticated subject.
const SubjectKey = "subject"

const bearerPrefix = "bearer "

// RequireBearer returns middleware that rejects requests without a valid
// "Authorization: Bearer <token>" header.
func RequireBearer(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			return unauthorized(c, "Not authenticated")
		}

		claims, err := ParseAccessToken(cfg, strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("rejected bearer token")
			return unauthorized(c, "Could not validate credentials")
		}

		c.Locals(SubjectKey, claims.Subject)

		return c.Next()
	}
}

// Subject returns the subject stored by RequireBearer, or "".
func Subject(c *fiber.Ctx) string {
	subject, _ := c.Locals(SubjectKey).(string)
	return subject
}

func unauthorized(c *fiber.Ctx, detail string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": detail})
}
