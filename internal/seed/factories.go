// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"bookden/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
	// every seeded account shares one cheap hash; nobody logs into these
	passwordHash string
}

// SeedPassword is the plaintext password of every generated account.
const SeedPassword = "BookdenDemo1!"

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	if err != nil {
		// bcrypt only fails on an invalid cost; MinCost never is
		panic(err)
	}
	return &Factory{
		db:           db,
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
		passwordHash: string(hash),
	}
}

// BuildUser constructs a user without persisting it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	user := &models.User{
		Username: fmt.Sprintf("%s_%s%d",
			gofakeit.AdjectiveDescriptive(), gofakeit.NounAbstract(), f.rand.Intn(1000)),
		Email:    gofakeit.Email(),
		Password: f.passwordHash,
		Bio:      gofakeit.Quote(),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser persists a generated user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create seed user: %w", err)
	}
	return user, nil
}

// BuildReview constructs a review without persisting it. Ratings skew
// positive the way public catalogs do.
func (f *Factory) BuildReview(user *models.User, book *models.Book, overrides ...func(*models.Review)) *models.Review {
	review := &models.Review{
		BookID:    book.ID,
		UserID:    &user.ID,
		Content:   gofakeit.Paragraph(1, 3, 12, " "),
		Rating:    f.skewedRating(),
		CreatedAt: f.pastTimestamp(90),
	}
	for _, override := range overrides {
		override(review)
	}
	return review
}

// CreateReview persists a generated review.
func (f *Factory) CreateReview(user *models.User, book *models.Book, overrides ...func(*models.Review)) (*models.Review, error) {
	review := f.BuildReview(user, book, overrides...)
	if err := f.db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("create seed review: %w", err)
	}
	return review, nil
}

// CreateComment persists a comment on a review, optionally as a reply.
func (f *Factory) CreateComment(user *models.User, review *models.Review, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		ReviewID:  review.ID,
		UserID:    &user.ID,
		Content:   gofakeit.Sentence(f.rand.Intn(15) + 4),
		CreatedAt: f.pastTimestamp(60),
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create seed comment: %w", err)
	}
	return comment, nil
}

// CreateReviewsBatch persists multiple reviews in chunks.
func (f *Factory) CreateReviewsBatch(reviews []*models.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	if err := f.db.CreateInBatches(reviews, 100).Error; err != nil {
		return fmt.Errorf("batch create seed reviews: %w", err)
	}
	return nil
}

// skewedRating favors 4s and 5s, roughly the distribution a public book
// site settles into.
func (f *Factory) skewedRating() int {
	switch r := f.rand.Intn(100); {
	case r < 35:
		return 5
	case r < 70:
		return 4
	case r < 88:
		return 3
	case r < 96:
		return 2
	default:
		return 1
	}
}

// pastTimestamp returns a random moment within the last maxDays days.
func (f *Factory) pastTimestamp(maxDays int) time.Time {
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return time.Now().
		Add(-time.Duration(daysBack) * 24 * time.Hour).
		Add(-time.Duration(hoursBack) * time.Hour).
		Add(-time.Duration(minsBack) * time.Minute)
}
