// Package videosession exposes the per-group conferencing session API. All
// three routes are member-only; the group id always comes from the path and
// the caller identity always comes from the verified bearer token.
package videosession

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studyhive/studyhive/internal/auth"
	"github.com/studyhive/studyhive/internal/config"
	sessionctl "github.com/studyhive/studyhive/internal/db/controller/videosession"
	"github.com/studyhive/studyhive/internal/web/handler"
	grouphdl "github.com/studyhive/studyhive/internal/web/handler/group"
)

// Path is the base path for video session routes, nested under a group.
const Path = grouphdl.Path + "/:id/video-session"

// Service provides the video session handlers.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, tokens *auth.Tokens) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db

	gate := auth.RequireUser(tokens)
	app.Get(Path, gate, s.Describe)
	app.Post(Path, gate, s.GetOrCreate)
	app.Delete(Path, gate, s.End)
}

// GetOrCreate joins the group's live session, starting one when none is live.
// Every member posting within the session window receives the same room name.
func (s *Service) GetOrCreate(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	groupID, err := grouphdl.GroupID(c)
	if err != nil {
		return handler.ValidationError(c, "malformed group id")
	}

	ctx, cancel := handler.Context(c, s.cfg)
	defer cancel()

	sess, err := sessionctl.GetOrCreate(ctx, s.db, groupID, userID)
	if err != nil {
		return handler.Error(c, err)
	}

	if sess.IsNew {
		log.Info().Uint64("group_id", groupID).Uint64("user_id", userID).
			Str("room", sess.RoomName).Msg("video session started")
	}

	return c.JSON(sess)
}

// Describe reports the group's current session state without side effects.
func (s *Service) Describe(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	groupID, err := grouphdl.GroupID(c)
	if err != nil {
		return handler.ValidationError(c, "malformed group id")
	}

	ctx, cancel := handler.Context(c, s.cfg)
	defer cancel()

	sess, err := sessionctl.Describe(ctx, s.db, groupID, userID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(sess)
}

// End terminates the group's session for everyone. Ending when no session
// exists still answers 200.
func (s *Service) End(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	groupID, err := grouphdl.GroupID(c)
	if err != nil {
		return handler.ValidationError(c, "malformed group id")
	}

	ctx, cancel := handler.Context(c, s.cfg)
	defer cancel()

	if err := sessionctl.End(ctx, s.db, groupID, userID); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"message": "video session ended"})
}
