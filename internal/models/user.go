// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account on Bookden.
//
// Users hard-delete: removing an account keeps its reviews and comments in
// place with a null author (the database sets user_id to NULL on delete).
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Reviews   []Review  `gorm:"foreignKey:UserID" json:"reviews,omitempty"`
	// ReviewsCount is not persisted; computed at query time
	ReviewsCount int `gorm:"->" json:"reviews_count,omitempty"`
}
