package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	// bearerPrefix is the scheme expected in the Authorization header.
	bearerPrefix = "Bearer "

	// LocalsUserID is the fiber.Locals key carrying the verified user id.
	LocalsUserID = "userID"
)

// RequireUser creates fiber middleware that verifies the bearer credential
// and stores the resulting user id in fiber.Locals. Gated routes never fall
// back to an anonymous identity: missing or invalid credentials end the
// chain with 401.
func RequireUser(tokens *Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": ErrMissingToken.Msg,
			})
		}

		userID, err := tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			log.Warn().Str("IP", c.IP()).Msg("rejected invalid bearer token")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": ErrInvalidToken.Msg,
			})
		}

		c.Locals(LocalsUserID, userID)

		return c.Next()
	}
}

// UserID extracts the verified user id a RequireUser middleware stored.
// The second return is false on routes the middleware did not run on.
func UserID(c *fiber.Ctx) (uint64, bool) {
	id, ok := c.Locals(LocalsUserID).(uint64)
	return id, ok
}
