// Package membership coordinates group membership. The group side and the
// user side of the relation live in a single junction table, so the
// "user is a member of group" and "group is among the user's joined groups"
// views can never disagree; joins and leaves are idempotent and serialized
// per group through the same row lock the group store uses.
package membership

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyhive/studyhive/internal/db/controller/group"
	"github.com/studyhive/studyhive/internal/db/models"
	"github.com/studyhive/studyhive/internal/db/txn"
	"github.com/studyhive/studyhive/internal/fault"
)

// Join adds userID to the group's members. Joining a group the user already
// belongs to is a no-op, not an error; the current state is returned either way.
func Join(ctx context.Context, db *gorm.DB, groupID, userID uint64) (*models.Group, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.Group
		if err := txn.ForUpdate(tx).First(&g, groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return group.ErrGroupNotFound
			}

			return fault.FromDB(err, "failed to lock group")
		}

		// duplicate joins collapse on the composite primary key
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.GroupMember{GroupID: groupID, UserID: userID}).Error
	})
	if err != nil {
		return nil, fault.FromDB(err, "failed to join group")
	}

	return group.Get(ctx, db, groupID)
}

// Leave removes userID from the group's members. Leaving a group the user is
// not a member of is a no-op, not an error.
func Leave(ctx context.Context, db *gorm.DB, groupID, userID uint64) (*models.Group, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.Group
		if err := txn.ForUpdate(tx).First(&g, groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return group.ErrGroupNotFound
			}

			return fault.FromDB(err, "failed to lock group")
		}

		return tx.Where("group_id = ? AND user_id = ?", groupID, userID).
			Delete(&models.GroupMember{}).Error
	})
	if err != nil {
		return nil, fault.FromDB(err, "failed to leave group")
	}

	return group.Get(ctx, db, groupID)
}

// IsMember reports whether userID is currently a member of the group.
func IsMember(ctx context.Context, db *gorm.DB, groupID, userID uint64) (bool, error) {
	var count int64

	err := db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, fault.FromDB(err, "failed to check membership")
	}

	return count > 0, nil
}

// JoinedGroupIDs returns the ids of all groups the user is a member of,
// derived from the junction table rather than a stored per-user index.
func JoinedGroupIDs(ctx context.Context, db *gorm.DB, userID uint64) ([]uint64, error) {
	var ids []uint64

	err := db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("user_id = ?", userID).
		Order("group_id").
		Pluck("group_id", &ids).Error
	if err != nil {
		return nil, fault.FromDB(err, "failed to load joined groups")
	}

	return ids, nil
}
