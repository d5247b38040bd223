package models

import (
	"time"
)

// Review represents one rating-plus-text opinion a user left on a book.
//
// UserID is nullable: the row outlives its author. Content is stored exactly
// as submitted (no trimming) and rating never changes after creation.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"not null;index" json:"book_id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Rating    int       `gorm:"not null" json:"rating"`
	Book      *Book     `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewDetail is a review enriched with denormalized presentation fields.
// BookTitle and Username stay empty when the related record is missing.
type ReviewDetail struct {
	Review
	BookTitle     string `json:"book_title,omitempty"`
	Username      string `json:"username,omitempty"`
	CommentsCount int64  `json:"comments_count"`
}
