package seed

import (
	"fmt"
	"log"

	"bookden/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumReviews  int
	NumComments int
	ShouldClean bool
}

// DefaultOptions is the preset used by the seed command.
var DefaultOptions = Options{
	NumUsers:    50,
	NumReviews:  200,
	NumComments: 400,
	ShouldClean: true,
}

// Seed populates the database with demo data: the built-in catalog, a crowd
// of users, reviews spread over the catalog, and threaded comments.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Seeding: %d users, %d reviews, %d comments...",
		opts.NumUsers, opts.NumReviews, opts.NumComments)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: could not clear all existing data, continuing anyway...")
		}
	}

	if err := Catalog(db); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	var books []models.Book
	if err := db.Find(&books).Error; err != nil {
		return fmt.Errorf("load seeded catalog: %w", err)
	}
	if len(books) == 0 {
		return fmt.Errorf("catalog seeding produced no books")
	}

	factory := NewFactory(db)

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return err
	}

	reviews, err := createReviews(factory, users, books, opts.NumReviews)
	if err != nil {
		return err
	}

	if err := createComments(factory, users, reviews, opts.NumComments); err != nil {
		return err
	}

	log.Printf("✅ Seeding complete: %d users, %d reviews over %d books",
		len(users), len(reviews), len(books))
	return nil
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count+1)

	// One predictable admin account for local development.
	admin, err := f.CreateUser(func(u *models.User) {
		u.Username = "bookden_admin"
		u.Email = "admin@bookden.local"
		u.IsAdmin = true
		u.Bio = "Keeper of the catalog."
	})
	if err != nil {
		return nil, err
	}
	users = append(users, admin)

	for i := 0; i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createReviews(f *Factory, users []*models.User, books []models.Book, count int) ([]*models.Review, error) {
	reviews := make([]*models.Review, 0, count)
	for i := 0; i < count; i++ {
		user := users[f.rand.Intn(len(users))]
		book := &books[f.rand.Intn(len(books))]
		reviews = append(reviews, f.BuildReview(user, book))
	}
	if err := f.CreateReviewsBatch(reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func createComments(f *Factory, users []*models.User, reviews []*models.Review, count int) error {
	if len(reviews) == 0 {
		return nil
	}

	// Track top-level comments so roughly a third of new comments land as
	// replies once parents exist.
	topLevel := make([]*models.Comment, 0, count)

	for i := 0; i < count; i++ {
		user := users[f.rand.Intn(len(users))]
		review := reviews[f.rand.Intn(len(reviews))]

		var parent *models.Comment
		if len(topLevel) > 0 && f.rand.Intn(3) == 0 {
			parent = topLevel[f.rand.Intn(len(topLevel))]
			// A reply must sit on the same review as its parent.
			for _, r := range reviews {
				if r.ID == parent.ReviewID {
					review = r
					break
				}
			}
		}

		comment, err := f.CreateComment(user, review, parent)
		if err != nil {
			return err
		}
		if parent == nil {
			topLevel = append(topLevel, comment)
		}
	}
	return nil
}

// clearData wipes domain tables child-first so foreign keys stay satisfied.
func clearData(db *gorm.DB) error {
	for _, table := range []string{"comments", "reviews", "books", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
