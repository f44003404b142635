package models

import "time"

// GroupMember represents the many-to-many membership relation between users
// and groups. The composite primary key makes duplicate membership impossible
// at the storage layer, and a user's "joined groups" view is derived from
// this table rather than maintained as a second index, so the group side and
// the user side can never disagree.
type GroupMember struct {
	// GroupID is the id of the group in this membership.
	GroupID uint64 `gorm:"primaryKey;column:group_id"`
	// UserID is the id of the member.
	UserID uint64 `gorm:"primaryKey;column:user_id;index"`
	// Group is the associated group (loaded via foreign key).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the user joined (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the GroupMember model.
func (GroupMember) TableName() string {
	return "group_members"
}
