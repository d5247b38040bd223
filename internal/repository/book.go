package repository

import (
	"context"
	"errors"

	"bookden/internal/cache"
	"bookden/internal/models"
	"bookden/internal/observability"

	"gorm.io/gorm"
)

// ErrHasReviews is returned by DeleteWithGuard when at least one review
// still references the book.
var ErrHasReviews = errors.New("book has dependent reviews")

// bookAggregates pulls rating stats in the same query as the row itself.
const bookAggregates = "books.*, " +
	"(SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE reviews.book_id = books.id) as average_rating, " +
	"(SELECT COUNT(*) FROM reviews WHERE reviews.book_id = books.id) as ratings_count"

// BookListFilter narrows and pages a catalog listing.
type BookListFilter struct {
	Search string
	Limit  int
	Offset int
}

// BookRepository defines the interface for book data operations.
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*models.Book, error)
	List(ctx context.Context, filter BookListFilter) ([]models.Book, int64, error)
	Update(ctx context.Context, book *models.Book) error
	UpdateCoverURL(ctx context.Context, id uint, coverURL string) error
	DeleteWithGuard(ctx context.Context, id uint) error
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new BookRepository.
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	defer observability.TrackQuery("create", "books")()
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	defer observability.TrackQuery("get", "books")()
	var book models.Book
	err := cache.Aside(ctx, cache.BookKey(id), &book, cache.BookTTL, func() error {
		return r.db.WithContext(ctx).
			Select(bookAggregates).
			First(&book, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByISBN returns (nil, nil) when no book carries the ISBN; callers use
// this for duplicate checks, where absence is the ordinary case.
func (r *bookRepository) GetByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	defer observability.TrackQuery("get", "books")()
	var book models.Book
	err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) List(ctx context.Context, filter BookListFilter) ([]models.Book, int64, error) {
	defer observability.TrackQuery("list", "books")()

	base := r.db.WithContext(ctx).Model(&models.Book{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		base = base.Where("title ILIKE ? OR author ILIKE ?", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []models.Book
	err := base.
		Select(bookAggregates).
		Order("created_at desc").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&books).Error
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	defer observability.TrackQuery("update", "books")()
	if err := r.db.WithContext(ctx).Save(book).Error; err != nil {
		return err
	}
	cache.InvalidateBook(ctx, book.ID)
	return nil
}

func (r *bookRepository) UpdateCoverURL(ctx context.Context, id uint, coverURL string) error {
	defer observability.TrackQuery("update", "books")()
	res := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Update("cover_url", coverURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateBook(ctx, id)
	return nil
}

// DeleteWithGuard destroys the book only when no review references it,
// using the same transactional check-then-delete shape as review deletion.
func (r *bookRepository) DeleteWithGuard(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "books")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dependents int64
		if err := tx.Model(&models.Review{}).Where("book_id = ?", id).Count(&dependents).Error; err != nil {
			return err
		}
		if dependents > 0 {
			return ErrHasReviews
		}

		res := tx.Delete(&models.Book{}, id)
		if res.Error != nil {
			if isForeignKeyViolation(res.Error) {
				return ErrHasReviews
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateBook(ctx, id)
	return nil
}
