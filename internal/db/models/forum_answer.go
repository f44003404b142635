package models

import "time"

// ForumAnswer is a single answer on a forum post. Answers are append-only;
// the monotonically increasing id preserves insertion order.
type ForumAnswer struct {
	// ID is the unique identifier for the answer.
	ID uint64 `gorm:"primaryKey"`
	// PostID is the id of the answered post.
	PostID uint64 `gorm:"not null;index"`
	// AuthorID is the id of the answering user.
	AuthorID uint64 `gorm:"not null"`
	// Author is the associated author account.
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
	// Content is the answer text, bounded by AnswerContentMax.
	Content string `gorm:"size:2000;not null"`
	// CreatedAt is the timestamp when the answer was added.
	CreatedAt time.Time
}

// TableName specifies the database table name for the ForumAnswer model.
func (ForumAnswer) TableName() string {
	return "forum_answers"
}
