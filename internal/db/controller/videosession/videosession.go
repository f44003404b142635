// Package videosession coordinates the single shared conferencing session of
// a group. The state machine per group is NoSession -> ActiveSession ->
// (Expired | Ended) -> NoSession: at most one non-expired session exists at a
// time, every member calling in during the 24h window converges on the same
// room, and expiry is evaluated lazily from the record's age on every read
// and write path rather than swept by a background task.
package videosession

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyhive/studyhive/internal/db/controller/group"
	"github.com/studyhive/studyhive/internal/db/controller/membership"
	"github.com/studyhive/studyhive/internal/db/models"
	"github.com/studyhive/studyhive/internal/db/txn"
	"github.com/studyhive/studyhive/internal/fault"
)

// ErrNotMember is returned when a non-member touches a group's session.
var ErrNotMember = fault.New(fault.Forbidden, "you are not a member of this group")

// timeNow is swapped in tests to simulate session age.
var timeNow = time.Now //nolint:gochecknoglobals

var whitespace = regexp.MustCompile(`\s+`)

// Session is the bookkeeping handed back to callers; the external
// conferencing provider only ever needs RoomName.
type Session struct {
	Exists    bool      `json:"exists"`
	IsNew     bool      `json:"isNew,omitempty"`
	RoomName  string    `json:"roomName,omitempty"`
	CreatedBy uint64    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// newRoomName derives a globally unique room identifier from the group name
// plus a random 122-bit suffix, mirroring what the conferencing provider
// expects: collisions are negligible and the name hints at the group.
func newRoomName(groupName string) string {
	return whitespace.ReplaceAllString(groupName, "-") + "-" + uuid.NewString()
}

// requireMember gates session operations on current group membership.
// Unknown groups surface as NotFound before the membership check.
func requireMember(ctx context.Context, db *gorm.DB, groupID, userID uint64) error {
	if _, err := group.Get(ctx, db, groupID); err != nil {
		return err
	}

	member, err := membership.IsMember(ctx, db, groupID, userID)
	if err != nil {
		return err
	}

	if !member {
		return ErrNotMember
	}

	return nil
}

// GetOrCreate returns the group's live session, creating one if none is live.
// Room identity is a function of "is there a live session", not of who asks:
// two members calling concurrently within the 24h window receive the same
// room, which the locked read-modify-write below guarantees. A session whose
// age has reached the TTL is treated as absent and replaced.
func GetOrCreate(ctx context.Context, db *gorm.DB, groupID, userID uint64) (*Session, error) {
	if err := requireMember(ctx, db, groupID, userID); err != nil {
		return nil, err
	}

	var out Session

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.Group
		if err := txn.ForUpdate(tx).First(&g, groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return group.ErrGroupNotFound
			}

			return fault.FromDB(err, "failed to lock group")
		}

		now := timeNow()

		var existing models.VideoSession

		err := tx.Where("group_id = ?", groupID).First(&existing).Error
		switch {
		case err == nil && existing.LiveAt(now):
			// join semantics: converge on the live room
			out = Session{
				Exists:    true,
				IsNew:     false,
				RoomName:  existing.RoomName,
				CreatedBy: existing.CreatedByID,
				CreatedAt: existing.CreatedAt,
			}

			return nil
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return fault.FromDB(err, "failed to load session")
		}

		sess := models.VideoSession{
			GroupID:     groupID,
			RoomName:    newRoomName(g.Name),
			CreatedByID: userID,
			CreatedAt:   now,
		}

		// replaces an expired record still physically present
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sess).Error; err != nil {
			return fault.FromDB(err, "failed to store session")
		}

		out = Session{
			Exists:    true,
			IsNew:     true,
			RoomName:  sess.RoomName,
			CreatedBy: sess.CreatedByID,
			CreatedAt: sess.CreatedAt,
		}

		return nil
	})
	if err != nil {
		return nil, fault.FromDB(err, "failed to get or create session")
	}

	return &out, nil
}

// Describe reports the group's session state without creating anything.
// Exists is false when no record is stored or the stored record has aged out,
// even though expired records are not eagerly deleted.
func Describe(ctx context.Context, db *gorm.DB, groupID, userID uint64) (*Session, error) {
	if err := requireMember(ctx, db, groupID, userID); err != nil {
		return nil, err
	}

	var sess models.VideoSession

	err := db.WithContext(ctx).Where("group_id = ?", groupID).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Session{Exists: false}, nil
		}

		return nil, fault.FromDB(err, "failed to load session")
	}

	if !sess.LiveAt(timeNow()) {
		return &Session{Exists: false}, nil
	}

	return &Session{
		Exists:    true,
		RoomName:  sess.RoomName,
		CreatedBy: sess.CreatedByID,
		CreatedAt: sess.CreatedAt,
	}, nil
}

// End clears the group's session unconditionally. Any member may end it, not
// only its creator; ending when no session exists is a no-op, not an error.
func End(ctx context.Context, db *gorm.DB, groupID, userID uint64) error {
	if err := requireMember(ctx, db, groupID, userID); err != nil {
		return err
	}

	err := db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&models.VideoSession{}).Error
	if err != nil {
		return fault.FromDB(err, "failed to end session")
	}

	return nil
}
