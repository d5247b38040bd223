package models

import (
	"time"
)

// Book represents a catalog entry users can review.
type Book struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Title         string  `gorm:"size:255;not null;index" json:"title"`
	Author        string  `gorm:"size:255;not null;index" json:"author"`
	ISBN          *string `gorm:"size:20;uniqueIndex" json:"isbn,omitempty"`
	Description   string  `gorm:"type:text" json:"description"`
	CoverURL      string  `json:"cover_url"`
	PublishedYear int     `json:"published_year"`
	// CreatedBy records which user added the entry; null once that account is gone.
	CreatedBy *uint `gorm:"index" json:"created_by,omitempty"`
	// AverageRating is not persisted; computed at query time
	AverageRating float64 `gorm:"->" json:"average_rating"`
	// RatingsCount is not persisted; computed at query time
	RatingsCount int       `gorm:"->" json:"ratings_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
