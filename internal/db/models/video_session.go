package models

import "time"

// SessionTTL is how long a video session stays live after creation.
// Expiry is lazy: the record may outlive the cutoff physically, but every
// read and write path treats it as absent once the age reaches the TTL.
const SessionTTL = 24 * time.Hour

// VideoSession is the bookkeeping record for a group's conferencing room.
// GroupID doubles as the primary key, so a group can never hold more than one
// session row; room identity is a function of "is there a live session", not
// of who asks.
type VideoSession struct {
	// GroupID is the id of the owning group and the primary key.
	GroupID uint64 `gorm:"primaryKey;column:group_id"`
	// RoomName is the globally unique conferencing room identifier handed to
	// the external provider.
	RoomName string `gorm:"size:255;not null"`
	// CreatedByID is the id of the member who started the session.
	CreatedByID uint64 `gorm:"not null"`
	// Group is the associated group (loaded via foreign key).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the session was started.
	CreatedAt time.Time
}

// TableName specifies the database table name for the VideoSession model.
func (VideoSession) TableName() string {
	return "video_sessions"
}

// LiveAt reports whether the session is still live at the given instant.
func (s *VideoSession) LiveAt(now time.Time) bool {
	return now.Sub(s.CreatedAt) < SessionTTL
}
