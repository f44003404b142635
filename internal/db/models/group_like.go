package models

import "time"

// GroupLike marks that a user currently likes a group. Presence of the row is
// the like; toggling removes or recreates it.
type GroupLike struct {
	// GroupID is the id of the liked group.
	GroupID uint64 `gorm:"primaryKey;column:group_id"`
	// UserID is the id of the user who likes the group.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// Group is the associated group (loaded via foreign key).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the like was set (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the GroupLike model.
func (GroupLike) TableName() string {
	return "group_likes"
}
