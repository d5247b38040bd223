// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"bookden/internal/cache"
	"bookden/internal/models"
	"bookden/internal/observability"

	"gorm.io/gorm"
)

// ErrHasComments is returned by DeleteWithGuard when at least one comment
// still references the review.
var ErrHasComments = errors.New("review has dependent comments")

// ReviewListFilter narrows and pages a review listing. Nil filter fields
// are not applied.
type ReviewListFilter struct {
	BookID *uint
	UserID *uint
	Rating *int
	Limit  int
	Offset int
}

// ReviewRepository defines the interface for review data operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	List(ctx context.Context, filter ReviewListFilter) ([]models.Review, int64, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	DeleteWithGuard(ctx context.Context, id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	defer observability.TrackQuery("create", "reviews")()
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return err
	}
	// Rating aggregates on the book changed.
	cache.InvalidateBook(ctx, review.BookID)
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	defer observability.TrackQuery("get", "reviews")()
	var review models.Review
	err := cache.Aside(ctx, cache.ReviewKey(id), &review, cache.ReviewTTL, func() error {
		return r.db.WithContext(ctx).
			Preload("User").
			Preload("Book").
			First(&review, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) List(ctx context.Context, filter ReviewListFilter) ([]models.Review, int64, error) {
	defer observability.TrackQuery("list", "reviews")()

	base := r.db.WithContext(ctx).Model(&models.Review{})
	if filter.BookID != nil {
		base = base.Where("book_id = ?", *filter.BookID)
	}
	if filter.UserID != nil {
		base = base.Where("user_id = ?", *filter.UserID)
	}
	if filter.Rating != nil {
		base = base.Where("rating = ?", *filter.Rating)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := base.
		Preload("User").
		Preload("Book").
		Order("created_at desc").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	defer observability.TrackQuery("update", "reviews")()
	res := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateReview(ctx, id)
	return nil
}

// DeleteWithGuard destroys the review only when no comment references it.
// The existence check and the delete run inside one transaction (PostgreSQL
// default read-committed isolation), so a comment insert racing the delete
// either commits first and is seen by the count, or arrives after commit.
// The ON DELETE RESTRICT foreign key on comments.review_id backs this up at
// the schema level; a violation on this path also maps to ErrHasComments.
func (r *reviewRepository) DeleteWithGuard(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "reviews")()

	var bookID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.Select("id", "book_id").First(&review, id).Error; err != nil {
			return err
		}
		bookID = review.BookID

		var dependents int64
		if err := tx.Model(&models.Comment{}).Where("review_id = ?", id).Count(&dependents).Error; err != nil {
			return err
		}
		if dependents > 0 {
			return ErrHasComments
		}

		if err := tx.Delete(&models.Review{}, id).Error; err != nil {
			if isForeignKeyViolation(err) {
				return ErrHasComments
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateReview(ctx, id)
	cache.InvalidateBook(ctx, bookID)
	return nil
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	// PostgreSQL foreign_key_violation without gorm error translation.
	return strings.Contains(err.Error(), "23503")
}
