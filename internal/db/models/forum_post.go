package models

import "time"

const (
	// PostContentMax bounds a question at roughly 150 words, enforced as a
	// fixed character budget.
	PostContentMax = 150 * 5
	// AnswerContentMax bounds an answer at roughly 400 words, enforced as a
	// fixed character budget.
	AnswerContentMax = 400 * 5
)

// ForumPost is a question scoped to a group. The author is always taken from
// the caller's verified identity at creation time, never from the payload.
type ForumPost struct {
	// ID is the unique identifier for the post.
	ID uint64 `gorm:"primaryKey"`
	// GroupID is the id of the group the question belongs to.
	GroupID uint64 `gorm:"not null;index"`
	// Group is the associated group (loaded via foreign key).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// AuthorID is the id of the asking user.
	AuthorID uint64 `gorm:"not null"`
	// Author is the associated author account.
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
	// Content is the question text, bounded by PostContentMax.
	Content string `gorm:"size:750;not null"`
	// Answers are the post's answers, append-only and ordered by creation.
	Answers []ForumAnswer `gorm:"foreignKey:PostID"`
	// CreatedAt is the timestamp when the question was asked.
	CreatedAt time.Time
}

// TableName specifies the database table name for the ForumPost model.
func (ForumPost) TableName() string {
	return "forum_posts"
}
