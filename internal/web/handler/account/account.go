// Package account provides registration and login for local accounts. Both
// endpoints answer with a signed bearer token the caller presents on every
// gated route afterwards.
package account

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studyhive/studyhive/internal/auth"
	"github.com/studyhive/studyhive/internal/config"
	"github.com/studyhive/studyhive/internal/db/models"
	"github.com/studyhive/studyhive/internal/web/handler"
)

const (
	// Path is the base path for account routes.
	Path = handler.APIPath + "/auth"

	// RouteRegister creates a new account.
	RouteRegister = Path + "/register"
	// RouteLogin exchanges credentials for a bearer token.
	RouteLogin = Path + "/login"
)

// Service provides the account handlers.
type Service struct {
	handler.Service
	cfg       *config.Config
	provider  *auth.LocalProvider
	tokens    *auth.Tokens
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type registerInput struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string         `json:"token"`
	User  models.UserRef `json:"user"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, tokens *auth.Tokens) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.provider = auth.NewLocalProvider(db)
	s.tokens = tokens
	s.validator = validator.New()

	app.Post(RouteRegister, s.Register)
	app.Post(RouteLogin, s.Login)
}

// Register creates an account and immediately issues a bearer token.
func (s *Service) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := c.BodyParser(&input); err != nil {
		return handler.ValidationError(c, "malformed request body")
	}

	if err := s.validator.Struct(input); err != nil {
		return handler.ValidationError(c, err.Error())
	}

	ctx, cancel := handler.Context(c, s.cfg)
	defer cancel()

	user, err := s.provider.Register(ctx, input.Username, input.Email, input.Password)
	if err != nil {
		return handler.Error(c, err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("account registered")

	return c.Status(fiber.StatusCreated).JSON(tokenResponse{Token: token, User: user.Ref()})
}

// Login exchanges a username/password pair for a bearer token.
func (s *Service) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return handler.ValidationError(c, "malformed request body")
	}

	if err := s.validator.Struct(input); err != nil {
		return handler.ValidationError(c, err.Error())
	}

	ctx, cancel := handler.Context(c, s.cfg)
	defer cancel()

	user, err := s.provider.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return handler.Error(c, err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(tokenResponse{Token: token, User: user.Ref()})
}
