package models

import "time"

// Group represents a study group: a named collection of users collaborating,
// with membership, likes, ratings, and at most one live video session.
// Creating a group does not make the creator a member; membership is a
// separate, explicit join.
type Group struct {
	// ID is the unique identifier for the group.
	ID uint64 `gorm:"primaryKey"`
	// Name is the display name of the group. Required.
	Name string `gorm:"size:100;not null"`
	// Description explains what the group studies. Required.
	Description string `gorm:"size:1000;not null"`
	// Icon is an optional icon reference for the group.
	Icon string `gorm:"size:255"`
	// CreatorID is the id of the user who created the group. Immutable.
	CreatorID uint64 `gorm:"not null;index"`
	// Creator is the associated creator account.
	Creator User `gorm:"foreignKey:CreatorID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE"`
	// AverageRating is the cached arithmetic mean of all ratings, stored at
	// full precision and recomputed on every rating mutation. Zero when the
	// group has no ratings.
	AverageRating float64 `gorm:"not null;default:0"`
	// Members are the group's membership rows.
	Members []GroupMember `gorm:"foreignKey:GroupID"`
	// Likes are the group's like rows; presence of a row means "liked".
	Likes []GroupLike `gorm:"foreignKey:GroupID"`
	// Ratings are the group's rating rows, at most one per user.
	Ratings []GroupRating `gorm:"foreignKey:GroupID"`
	// Session is the group's active video session, if any. The group_id
	// primary key on the session row guarantees at most one per group.
	Session *VideoSession `gorm:"foreignKey:GroupID"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the group was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Group model.
func (Group) TableName() string {
	return "groups"
}

// MemberIDs returns the ids of all current members.
func (g *Group) MemberIDs() []uint64 {
	ids := make([]uint64, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.UserID)
	}

	return ids
}

// LikeIDs returns the ids of all users who currently like the group.
func (g *Group) LikeIDs() []uint64 {
	ids := make([]uint64, 0, len(g.Likes))
	for _, l := range g.Likes {
		ids = append(ids, l.UserID)
	}

	return ids
}

// HasMember reports whether the user is a current member of the group.
func (g *Group) HasMember(userID uint64) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}

	return false
}
