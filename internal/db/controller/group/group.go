// Package group provides the group store: creation, lookup, listing, likes
// and ratings. All mutations on a single group run read-modify-write inside a
// transaction holding a row lock on the group, so concurrent requests against
// the same group serialize while different groups proceed in parallel.
package group

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyhive/studyhive/internal/db/models"
	"github.com/studyhive/studyhive/internal/db/txn"
	"github.com/studyhive/studyhive/internal/fault"
)

var (
	// ErrNameRequired is returned when creating a group without a name.
	ErrNameRequired = fault.New(fault.Validation, "group name is required")
	// ErrDescriptionRequired is returned when creating a group without a description.
	ErrDescriptionRequired = fault.New(fault.Validation, "group description is required")
	// ErrGroupNotFound is returned when a group with the given id does not exist.
	ErrGroupNotFound = fault.New(fault.NotFound, "group not found")
	// ErrRatingOutOfRange is returned for rating values outside [1,5].
	ErrRatingOutOfRange = fault.New(fault.Validation, "rating must be between 1 and 5")
)

// Filter narrows List results. Both fields are combinable; nil means "any".
type Filter struct {
	CreatorID *uint64
	MemberID  *uint64
}

// preloaded attaches the associations every group read resolves.
func preloaded(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Creator").
		Preload("Members").
		Preload("Likes").
		Preload("Ratings").
		Preload("Session")
}

// Create stores a new group owned by creatorID. The creator does not become
// a member; joining is a separate, explicit operation.
func Create(ctx context.Context, db *gorm.DB, creatorID uint64, name, description, icon string) (*models.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}

	if strings.TrimSpace(description) == "" {
		return nil, ErrDescriptionRequired
	}

	g := &models.Group{
		Name:        name,
		Description: description,
		Icon:        icon,
		CreatorID:   creatorID,
	}

	if err := db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, fault.FromDB(err, "failed to create group")
	}

	return Get(ctx, db, g.ID)
}

// Get retrieves a group with creator, members, likes, ratings and session resolved.
func Get(ctx context.Context, db *gorm.DB, id uint64) (*models.Group, error) {
	var g models.Group

	err := preloaded(db.WithContext(ctx)).First(&g, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}

		return nil, fault.FromDB(err, "failed to load group")
	}

	return &g, nil
}

// List retrieves groups matching the filter, newest first.
func List(ctx context.Context, db *gorm.DB, f Filter) ([]models.Group, error) {
	tx := db.WithContext(ctx).Model(&models.Group{})

	if f.CreatorID != nil {
		tx = tx.Where("groups.creator_id = ?", *f.CreatorID)
	}

	if f.MemberID != nil {
		tx = tx.
			Joins("JOIN group_members ON group_members.group_id = groups.id").
			Where("group_members.user_id = ?", *f.MemberID)
	}

	var groups []models.Group
	if err := preloaded(tx).Order("groups.id DESC").Find(&groups).Error; err != nil {
		return nil, fault.FromDB(err, "failed to list groups")
	}

	return groups, nil
}

// lockGroup loads the bare group row under a FOR UPDATE lock, serializing all
// mutations against the same group for the duration of the transaction.
func lockGroup(tx *gorm.DB, id uint64) (*models.Group, error) {
	var g models.Group

	err := txn.ForUpdate(tx).First(&g, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}

		return nil, fault.FromDB(err, "failed to lock group")
	}

	return &g, nil
}

// ToggleLike flips userID's like on the group: present becomes absent and
// vice versa, so two consecutive calls by the same user restore the original
// state. Returns the updated group.
func ToggleLike(ctx context.Context, db *gorm.DB, groupID, userID uint64) (*models.Group, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockGroup(tx, groupID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.GroupLike{}).
			Where("group_id = ? AND user_id = ?", groupID, userID).
			Count(&count).Error; err != nil {
			return fault.FromDB(err, "failed to check like")
		}

		if count > 0 {
			return tx.
				Where("group_id = ? AND user_id = ?", groupID, userID).
				Delete(&models.GroupLike{}).Error
		}

		return tx.Create(&models.GroupLike{GroupID: groupID, UserID: userID}).Error
	})
	if err != nil {
		return nil, fault.FromDB(err, "failed to toggle like")
	}

	return Get(ctx, db, groupID)
}

// Rate upserts userID's rating of the group (last write wins, at most one row
// per user) and recomputes the cached average in the same transaction.
func Rate(ctx context.Context, db *gorm.DB, groupID, userID uint64, rating int) (*models.Group, error) {
	if rating < models.RatingMin || rating > models.RatingMax {
		return nil, ErrRatingOutOfRange
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockGroup(tx, groupID); err != nil {
			return err
		}

		row := models.GroupRating{GroupID: groupID, UserID: userID, Rating: rating}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return fault.FromDB(err, "failed to store rating")
		}

		var ratings []models.GroupRating
		if err := tx.Where("group_id = ?", groupID).Find(&ratings).Error; err != nil {
			return fault.FromDB(err, "failed to load ratings")
		}

		return tx.Model(&models.Group{}).
			Where("id = ?", groupID).
			Update("average_rating", Average(ratings)).Error
	})
	if err != nil {
		return nil, fault.FromDB(err, "failed to rate group")
	}

	return Get(ctx, db, groupID)
}

// Average is the rating aggregator: the arithmetic mean of all rating values
// at full precision. An empty rating set yields 0, never NaN.
func Average(ratings []models.GroupRating) float64 {
	if len(ratings) == 0 {
		return 0
	}

	var sum int
	for _, r := range ratings {
		sum += r.Rating
	}

	return float64(sum) / float64(len(ratings))
}
