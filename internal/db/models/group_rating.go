package models

import "time"

const (
	// RatingMin is the lowest accepted rating value.
	RatingMin = 1
	// RatingMax is the highest accepted rating value.
	RatingMax = 5
)

// GroupRating is a single user's rating of a group. The composite primary key
// enforces at most one rating per (group, user); re-rating overwrites the row
// (last write wins).
type GroupRating struct {
	// GroupID is the id of the rated group.
	GroupID uint64 `gorm:"primaryKey;column:group_id"`
	// UserID is the id of the rating user.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// Rating is the rating value in [RatingMin, RatingMax].
	Rating int `gorm:"not null"`
	// Group is the associated group (loaded via foreign key).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp of the first rating (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp of the last re-rating (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the GroupRating model.
func (GroupRating) TableName() string {
	return "group_ratings"
}
