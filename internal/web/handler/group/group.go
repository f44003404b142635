// Package group exposes the study group API: listing, lookup, creation,
// membership, likes and ratings. Reads are public; every mutation requires a
// verified bearer token and acts on behalf of the authenticated user.
package group

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studyhive/studyhive/internal/auth"
	"github.com/studyhive/studyhive/internal/config"
	groupctl "github.com/studyhive/studyhive/internal/db/controller/group"
	"github.com/studyhive/studyhive/internal/db/controller/membership"
	"github.com/studyhive/studyhive/internal/db/models"
	"github.com/studyhive/studyhive/internal/web/handler"
)

// Path is the base path for group routes.
const Path = handler.APIPath + "/groups"

// Service provides the group handlers.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type createInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=1000"`
	Icon        string `json:"icon" validate:"max=255"`
}

type rateInput struct {
	Rating int `json:"rating" validate:"required"`
}

type ratingView struct {
	UserID uint64 `json:"userId"`
	Rating int    `json:"rating"`
}

// View is the JSON shape of a group. Members and likes flatten to user id
// arrays; the creator resolves to a public reference.
type View struct {
	ID            uint64         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Icon          string         `json:"icon,omitempty"`
	Creator       models.UserRef `json:"creator"`
	Members       []uint64       `json:"members"`
	Likes         []uint64       `json:"likes"`
	Ratings       []ratingView   `json:"ratings"`
	AverageRating float64        `json:"averageRating"`
	CreatedAt     int64          `json:"createdAt"`
}

// NewView converts a loaded group into its JSON shape.
func NewView(g *models.Group) View {
	ratings := make([]ratingView, 0, len(g.Ratings))
	for _, r := range g.Ratings {
		ratings = append(ratings, ratingView{UserID: r.UserID, Rating: r.Rating})
	}

	return View{
		ID:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		Icon:          g.Icon,
		Creator:       g.Creator.Ref(),
		Members:       g.MemberIDs(),
		Likes:         g.LikeIDs(),
		Ratings:       ratings,
		AverageRating: g.AverageRating,
		CreatedAt:     g.CreatedAt.Unix(),
	}
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, tokens *auth.Tokens) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Get(Path, s.List)
	app.Get(Path+"/:id", s.Get)

	// mutations are gated per route; the reads above stay public
	gate := auth.RequireUser(tokens)
	app.Post(Path, gate, s.Create)
	app.Post(Path+"/:id/join", gate, s.Join)
	app.Post(Path+"/:id/leave", gate, s.Leave)
	app.Post(Path+"/:id/like", gate, s.Like)
	app.Post(Path+"/:id/rate", gate, s.Rate)
}

// GroupID parses the ":id" route parameter.
func GroupID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}

	return id, nil
}

// List returns all groups, newest first. The optional creator and member
// query parameters narrow the result to groups created or joined by a user.
func (s *Service) List(c *fiber.Ctx) error {
	var filter groupctl.Filter

	if raw := c.Query("creator"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return handler.ValidationError(c, "malformed creator id")
		}

		filter.CreatorID = &id
	}

	if raw := c.Query("member"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return handler.ValidationError(c, "malformed member id")
		}

		filter.MemberID = &id
	}

	ctx, cancel := handler.Context(c, s.cfg)
	defer cancel()

	groups, err := groupctl.List(ctx, s.db, filter)
	if err != nil {
		return handler.Error(c, err)
	}

	views := make([]View, 0, len(groups))
	for i := range groups {
		views = append(views, NewView(&groups[i]))
	}

	return c.JSON(views)
}

// Get returns a single group by id.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := GroupID(c)
	if err != nil {
		return handler.ValidationError(c, "malformed group id")
	}

	ctx, cancel := handler.Context(c, s.cfg)
	defer cancel()

	g, err := groupctl.Get(ctx, s.db, id)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(NewView(g))
}

// Create stores a new group owned by the authenticated user.
func (s *Service) Create(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var input createInput
	if err := c.BodyParser(&input); err != nil {
		return handler.ValidationError(c, "malformed request body")
	}

	if err := s.validator.Struct(input); err != nil {
		return handler.ValidationError(c, err.Error())
	}

	ctx, cancel := handler.Context(c, s.cfg)
	defer cancel()

	g, err := groupctl.Create(ctx, s.db, userID, input.Name, input.Description, input.Icon)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Uint64("group_id", g.ID).Uint64("creator_id", userID).Msg("group created")

	return c.Status(fiber.StatusCreated).JSON(NewView(g))
}

// Join adds the authenticated user to the group's members.
func (s *Service) Join(c *fiber.Ctx) error {
	return s.mutate(c, membership.Join)
}

// Leave removes the authenticated user from the group's members.
func (s *Service) Leave(c *fiber.Ctx) error {
	return s.mutate(c, membership.Leave)
}

// Like toggles the authenticated user's like on the group.
func (s *Service) Like(c *fiber.Ctx) error {
	return s.mutate(c, groupctl.ToggleLike)
}

// Rate records the authenticated user's rating of the group, replacing any
// rating they gave before.
func (s *Service) Rate(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	groupID, err := GroupID(c)
	if err != nil {
		return handler.ValidationError(c, "malformed group id")
	}

	var input rateInput
	if err := c.BodyParser(&input); err != nil {
		return handler.ValidationError(c, "malformed request body")
	}

	ctx, cancel := handler.Context(c, s.cfg)
	defer cancel()

	g, err := groupctl.Rate(ctx, s.db, groupID, userID, input.Rating)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(NewView(g))
}

// mutate runs a per-user group mutation and renders the updated group.
func (s *Service) mutate(c *fiber.Ctx,
	op func(ctx context.Context, db *gorm.DB, groupID, userID uint64) (*models.Group, error),
) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	groupID, err := GroupID(c)
	if err != nil {
		return handler.ValidationError(c, "malformed group id")
	}

	ctx, cancel := handler.Context(c, s.cfg)
	defer cancel()

	g, err := op(ctx, s.db, groupID, userID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(NewView(g))
}
