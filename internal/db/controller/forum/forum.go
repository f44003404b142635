// Package forum provides the question/answer thread store. Posts are scoped
// to a group, answers are append-only and insertion-ordered, and every author
// is resolved to a display identity before a post leaves this package.
package forum

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	groupctl "github.com/studyhive/studyhive/internal/db/controller/group"
	"github.com/studyhive/studyhive/internal/db/models"
	"github.com/studyhive/studyhive/internal/fault"
)

var (
	// ErrPostNotFound is returned when a post with the given id does not exist.
	ErrPostNotFound = fault.New(fault.NotFound, "forum post not found")
	// ErrContentEmpty is returned for empty or whitespace-only content.
	ErrContentEmpty = fault.New(fault.Validation, "content is required")
	// ErrQuestionTooLong is returned when a question exceeds its budget.
	ErrQuestionTooLong = fault.New(fault.Validation,
		fmt.Sprintf("question content exceeds %d characters", models.PostContentMax))
	// ErrAnswerTooLong is returned when an answer exceeds its budget.
	ErrAnswerTooLong = fault.New(fault.Validation,
		fmt.Sprintf("answer content exceeds %d characters", models.AnswerContentMax))
)

// preloaded attaches the author identities a post resolves before leaving storage.
func preloaded(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Author").
		Preload("Answers", func(tx *gorm.DB) *gorm.DB { return tx.Order("forum_answers.id") }).
		Preload("Answers.Author")
}

// checkContent rejects empty or whitespace-only content before it reaches
// storage and enforces the fixed character budget.
func checkContent(content string, limit int, tooLong error) error {
	if strings.TrimSpace(content) == "" {
		return ErrContentEmpty
	}

	if len(content) > limit {
		return tooLong
	}

	return nil
}

// CreatePost stores a new question in the group. The author is the verified
// caller, never taken from the payload; the group must exist.
func CreatePost(ctx context.Context, db *gorm.DB, groupID, authorID uint64, content string) (*models.ForumPost, error) {
	if err := checkContent(content, models.PostContentMax, ErrQuestionTooLong); err != nil {
		return nil, err
	}

	// group-existence check is the only coupling to the group store
	if _, err := groupctl.Get(ctx, db, groupID); err != nil {
		return nil, err
	}

	post := &models.ForumPost{
		GroupID:  groupID,
		AuthorID: authorID,
		Content:  content,
	}

	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, fault.FromDB(err, "failed to create forum post")
	}

	return GetPost(ctx, db, post.ID)
}

// GetPost retrieves a post with its author and all answer authors resolved.
func GetPost(ctx context.Context, db *gorm.DB, postID uint64) (*models.ForumPost, error) {
	var post models.ForumPost

	err := preloaded(db.WithContext(ctx)).First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}

		return nil, fault.FromDB(err, "failed to load forum post")
	}

	return &post, nil
}

// ListPosts retrieves the group's posts newest first, authors resolved.
func ListPosts(ctx context.Context, db *gorm.DB, groupID uint64) ([]models.ForumPost, error) {
	var posts []models.ForumPost

	err := preloaded(db.WithContext(ctx)).
		Where("group_id = ?", groupID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fault.FromDB(err, "failed to list forum posts")
	}

	return posts, nil
}

// AddAnswer appends an answer to the post, preserving insertion order, and
// returns the full post with every author resolved.
func AddAnswer(ctx context.Context, db *gorm.DB, postID, authorID uint64, content string) (*models.ForumPost, error) {
	if err := checkContent(content, models.AnswerContentMax, ErrAnswerTooLong); err != nil {
		return nil, err
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.ForumPost
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}

			return fault.FromDB(err, "failed to load forum post")
		}

		return tx.Create(&models.ForumAnswer{
			PostID:   postID,
			AuthorID: authorID,
			Content:  content,
		}).Error
	})
	if err != nil {
		return nil, fault.FromDB(err, "failed to add answer")
	}

	return GetPost(ctx, db, postID)
}
