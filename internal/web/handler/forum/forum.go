// Package forum exposes the question/answer thread API. Listing a group's
// threads is public; asking and answering require a verified bearer token,
// and the author is always the authenticated caller.
package forum

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studyhive/studyhive/internal/auth"
	"github.com/studyhive/studyhive/internal/config"
	forumctl "github.com/studyhive/studyhive/internal/db/controller/forum"
	"github.com/studyhive/studyhive/internal/db/models"
	"github.com/studyhive/studyhive/internal/web/handler"
)

const (
	// Path is the base path for forum routes.
	Path = handler.APIPath + "/forum"

	// RouteGroupPosts lists the threads of one group.
	RouteGroupPosts = Path + "/group/:groupId"
	// RouteAnswer appends an answer to one thread.
	RouteAnswer = Path + "/:postId/answer"
)

// Service provides the forum handlers.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type createPostInput struct {
	GroupID uint64 `json:"groupId" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type answerInput struct {
	Content string `json:"content" validate:"required"`
}

// AnswerView is the JSON shape of one answer inside a thread.
type AnswerView struct {
	ID        uint64         `json:"id"`
	Author    models.UserRef `json:"author"`
	Content   string         `json:"content"`
	CreatedAt int64          `json:"createdAt"`
}

// PostView is the JSON shape of a thread: the question plus its answers in
// the order they were given.
type PostView struct {
	ID        uint64         `json:"id"`
	GroupID   uint64         `json:"groupId"`
	Author    models.UserRef `json:"author"`
	Content   string         `json:"content"`
	Answers   []AnswerView   `json:"answers"`
	CreatedAt int64          `json:"createdAt"`
}

// NewPostView converts a loaded post into its JSON shape.
func NewPostView(p *models.ForumPost) PostView {
	answers := make([]AnswerView, 0, len(p.Answers))
	for _, a := range p.Answers {
		answers = append(answers, AnswerView{
			ID:        a.ID,
			Author:    a.Author.Ref(),
			Content:   a.Content,
			CreatedAt: a.CreatedAt.Unix(),
		})
	}

	return PostView{
		ID:        p.ID,
		GroupID:   p.GroupID,
		Author:    p.Author.Ref(),
		Content:   p.Content,
		Answers:   answers,
		CreatedAt: p.CreatedAt.Unix(),
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

	app.Get(RouteGroupPosts, s.ListGroupPosts)

	app.Post(Path, auth.RequireUser(tokens), s.CreatePost)
	app.Post(RouteAnswer, auth.RequireUser(tokens), s.AddAnswer)
}

// CreatePost stores a new question in a group.
func (s *Service) CreatePost(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var input createPostInput
	if err := c.BodyParser(&input); err != nil {
		return handler.ValidationError(c, "malformed request body")
	}

	if err := s.validator.Struct(input); err != nil {
		return handler.ValidationError(c, err.Error())
	}

	ctx, cancel := handler.Context(c, s.cfg)
	defer cancel()

	post, err := forumctl.CreatePost(ctx, s.db, input.GroupID, userID, input.Content)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Uint64("post_id", post.ID).Uint64("group_id", post.GroupID).Msg("forum post created")

	return c.Status(fiber.StatusCreated).JSON(NewPostView(post))
}

// ListGroupPosts returns a group's threads, newest question first.
func (s *Service) ListGroupPosts(c *fiber.Ctx) error {
	groupID, err := strconv.ParseUint(c.Params("groupId"), 10, 64)
	if err != nil || groupID == 0 {
		return handler.ValidationError(c, "malformed group id")
	}

	ctx, cancel := handler.Context(c, s.cfg)
	defer cancel()

	posts, err := forumctl.ListPosts(ctx, s.db, groupID)
	if err != nil {
		return handler.Error(c, err)
	}

	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, NewPostView(&posts[i]))
	}

	return c.JSON(views)
}

// AddAnswer appends the caller's answer to a thread.
func (s *Service) AddAnswer(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	postID, err := strconv.ParseUint(c.Params("postId"), 10, 64)
	if err != nil || postID == 0 {
		return handler.ValidationError(c, "malformed post id")
	}

	var input answerInput
	if err := c.BodyParser(&input); err != nil {
		return handler.ValidationError(c, "malformed request body")
	}

	if err := s.validator.Struct(input); err != nil {
		return handler.ValidationError(c, err.Error())
	}

	ctx, cancel := handler.Context(c, s.cfg)
	defer cancel()

	post, err := forumctl.AddAnswer(ctx, s.db, postID, userID, input.Content)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(NewPostView(post))
}
