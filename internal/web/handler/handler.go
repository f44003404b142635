// Package handler holds the pieces shared by all web handler packages:
// the init contract, the request context helper and the error responder
// mapping fault kinds to HTTP statuses.
package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studyhive/studyhive/internal/auth"
	"github.com/studyhive/studyhive/internal/config"
	"github.com/studyhive/studyhive/internal/fault"
)

const (
	// RootPath is the root path of the route group.
	RootPath = "/"

	// APIPath is the base path of the JSON API.
	APIPath = "/api"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB, tokens *auth.Tokens)
}

// Context derives the bounded request context every storage call runs under.
// The deadline guarantees no operation blocks past the configured timeout;
// callers that hit it receive a retryable unavailable error instead of a hang.
func Context(c *fiber.Ctx, cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), time.Duration(cfg.Webserver.RequestTimeout)*time.Second)
}

// statusOf maps a fault kind to its HTTP status.
func statusOf(kind fault.Kind) int {
	switch kind {
	case fault.Validation:
		return fiber.StatusBadRequest
	case fault.Unauthorized:
		return fiber.StatusUnauthorized
	case fault.Forbidden:
		return fiber.StatusForbidden
	case fault.NotFound:
		return fiber.StatusNotFound
	case fault.Unavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// Error renders a tagged error as the stable JSON error envelope. Client
// errors keep their message; unexpected server-side failures are logged and
// collapsed to a generic message.
func Error(c *fiber.Ctx, err error) error {
	kind := fault.KindOf(err)
	message := "internal server error"

	var fe *fault.Error
	if kind != fault.Internal && errors.As(err, &fe) {
		message = fe.Msg
	}

	if kind == fault.Internal || kind == fault.Unavailable {
		log.Error().Err(err).Str("URI", c.OriginalURL()).Msg("request failed")
	}

	return c.Status(statusOf(kind)).JSON(fiber.Map{
		"error":   string(kind),
		"message": message,
	})
}

// ValidationError renders a payload validation failure.
func ValidationError(c *fiber.Ctx, message string) error {
	return Error(c, fault.New(fault.Validation, "%s", message))
}
