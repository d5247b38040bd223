package seed

import (
	"testing"

	"bookden/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestFactory_CreateUser(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db)

	user, err := f.CreateUser()
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.Username)
	assert.NotEmpty(t, user.Email)
	assert.False(t, user.IsAdmin)

	// The shared hash verifies against the documented demo password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(SeedPassword)))
}

func TestFactory_CreateUserOverrides(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db)

	user, err := f.CreateUser(func(u *models.User) {
		u.Username = "fixed_name"
		u.IsAdmin = true
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed_name", user.Username)
	assert.True(t, user.IsAdmin)
}

func TestFactory_CreateReview(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db)

	user, err := f.CreateUser()
	require.NoError(t, err)
	book := models.Book{Title: "Test Book", Author: "Test Author"}
	require.NoError(t, db.Create(&book).Error)

	review, err := f.CreateReview(user, &book)
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, book.ID, review.BookID)
	require.NotNil(t, review.UserID)
	assert.Equal(t, user.ID, *review.UserID)
	assert.GreaterOrEqual(t, review.Rating, 1)
	assert.LessOrEqual(t, review.Rating, 5)
	assert.NotEmpty(t, review.Content)
}

func TestFactory_CreateCommentReply(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db)

	user, err := f.CreateUser()
	require.NoError(t, err)
	book := models.Book{Title: "Test Book", Author: "Test Author"}
	require.NoError(t, db.Create(&book).Error)
	review, err := f.CreateReview(user, &book)
	require.NoError(t, err)

	top, err := f.CreateComment(user, review, nil)
	require.NoError(t, err)
	assert.Nil(t, top.ParentID)

	reply, err := f.CreateComment(user, review, top)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, top.ID, *reply.ParentID)
	assert.Equal(t, review.ID, reply.ReviewID)
}

func TestFactory_CreateReviewsBatch(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db)

	user, err := f.CreateUser()
	require.NoError(t, err)
	book := models.Book{Title: "Batch Book", Author: "Batch Author"}
	require.NoError(t, db.Create(&book).Error)

	reviews := make([]*models.Review, 0, 25)
	for i := 0; i < 25; i++ {
		reviews = append(reviews, f.BuildReview(user, &book))
	}
	require.NoError(t, f.CreateReviewsBatch(reviews))

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.Equal(t, int64(25), count)
}
