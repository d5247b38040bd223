package models

import (
	"time"
)

// Comment represents a remark on a review, optionally a reply to another
// comment on that same review.
//
// ParentID == nil marks a top-level comment; otherwise the comment is a reply.
// The tree shape is derived on read (see CommentThread), never persisted.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"not null;index" json:"review_id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentThread is a top-level comment with its direct replies, newest first.
// Replies of replies are not re-nested; only direct children of a top-level
// comment appear here.
type CommentThread struct {
	Comment
	Replies []Comment `json:"replies"`
}
