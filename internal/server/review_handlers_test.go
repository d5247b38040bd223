package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookden/internal/models"
	"bookden/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// decodeErrorBody pulls the standard error envelope out of a response.
func decodeErrorBody(t *testing.T, resp *http.Response) (message, code string) {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	message, _ = body["error"].(string)
	code, _ = body["code"].(string)
	return message, code
}

func uintPtr(v uint) *uint { return &v }
func intPtr(v int) *int    { return &v }

func TestGetReviews_Success(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Get("/api/reviews", s.GetReviews)

	reviews := []models.Review{
		{ID: 2, BookID: 1, UserID: uintPtr(3), Content: "Loved it", Rating: 5},
		{ID: 1, BookID: 1, UserID: uintPtr(4), Content: "Fine", Rating: 3},
	}
	m.reviewRepo.On("List", mock.Anything, repository.ReviewListFilter{Limit: 20, Offset: 0}).
		Return(reviews, int64(2), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.ReviewPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Len(t, page.Reviews, 2)
	assert.Equal(t, uint(2), page.Reviews[0].ID)
	assert.Equal(t, int64(2), page.Pagination.TotalItems)
	assert.Equal(t, 1, page.Pagination.CurrentPage)

	m.reviewRepo.AssertExpectations(t)
}

func TestGetReviews_FiltersAndPaging(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Get("/api/reviews", s.GetReviews)

	m.reviewRepo.On("List", mock.Anything, repository.ReviewListFilter{
		BookID: uintPtr(3),
		Rating: intPtr(5),
		Limit:  10,
		Offset: 10,
	}).Return([]models.Review{}, int64(0), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews?book_id=3&rating=5&page=2&limit=10", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	m.reviewRepo.AssertExpectations(t)
}

func TestGetReviews_InvalidRatingFilter(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Get("/api/reviews", s.GetReviews)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews?rating=9", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_, code := decodeErrorBody(t, resp)
	assert.Equal(t, models.CodeValidation, code)

	m.reviewRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestGetBookReviews(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Get("/api/books/:id/reviews", s.GetBookReviews)

	m.reviewRepo.On("List", mock.Anything, repository.ReviewListFilter{
		BookID: uintPtr(8),
		Limit:  20,
	}).Return([]models.Review{{ID: 1, BookID: 8, Rating: 4}}, int64(1), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/books/8/reviews", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	m.reviewRepo.AssertExpectations(t)
}

func TestGetBookReviews_InvalidBookID(t *testing.T) {
	s, _ := newHandlerTestServer()
	app := fiber.New()
	app.Get("/api/books/:id/reviews", s.GetBookReviews)

	req := httptest.NewRequest(http.MethodGet, "/api/books/abc/reviews", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUserReviews(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Get("/api/users/:id/reviews", s.GetUserReviews)

	m.reviewRepo.On("List", mock.Anything, repository.ReviewListFilter{
		UserID: uintPtr(4),
		Limit:  20,
	}).Return([]models.Review{}, int64(0), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users/4/reviews", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	m.reviewRepo.AssertExpectations(t)
}

func TestGetReview_Success(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Get("/api/reviews/:id", s.GetReview)

	review := &models.Review{
		ID: 5, BookID: 2, UserID: uintPtr(3), Content: "Great", Rating: 5,
		Book: &models.Book{ID: 2, Title: "The Dispossessed"},
		User: &models.User{ID: 3, Username: "shelf_reader"},
	}
	m.reviewRepo.On("GetByID", mock.Anything, uint(5)).Return(review, nil)
	m.commentRepo.On("CountByReview", mock.Anything, uint(5)).Return(int64(2), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail models.ReviewDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	assert.Equal(t, uint(5), detail.ID)
	assert.Equal(t, "The Dispossessed", detail.BookTitle)
	assert.Equal(t, "shelf_reader", detail.Username)
	assert.Equal(t, int64(2), detail.CommentsCount)
}

func TestGetReview_NotFound(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Get("/api/reviews/:id", s.GetReview)

	m.reviewRepo.On("GetByID", mock.Anything, uint(999)).Return(nil, gorm.ErrRecordNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/999", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_, code := decodeErrorBody(t, resp)
	assert.Equal(t, models.CodeReviewNotFound, code)
}

func TestCreateReview_Success(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Post("/api/books/:id/reviews", asUser(5), s.CreateReview)

	m.bookRepo.On("GetByID", mock.Anything, uint(2)).Return(&models.Book{ID: 2, Title: "Kindred"}, nil)
	m.reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Review).ID = 10
		}).
		Return(nil)
	m.reviewRepo.On("GetByID", mock.Anything, uint(10)).
		Return(&models.Review{ID: 10, BookID: 2, UserID: uintPtr(5), Content: "A classic", Rating: 5}, nil)

	resp := postJSON(t, app, "/api/books/2/reviews", map[string]interface{}{
		"content": "A classic",
		"rating":  5,
	})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Review
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, uint(10), created.ID)
	require.NotNil(t, created.UserID)
	assert.Equal(t, uint(5), *created.UserID)

	m.reviewRepo.AssertExpectations(t)
	m.bookRepo.AssertExpectations(t)
}

func TestCreateReview_BookNotFound(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Post("/api/books/:id/reviews", asUser(5), s.CreateReview)

	m.bookRepo.On("GetByID", mock.Anything, uint(999)).Return(nil, gorm.ErrRecordNotFound)

	resp := postJSON(t, app, "/api/books/999/reviews", map[string]interface{}{
		"content": "Ghost book",
		"rating":  3,
	})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_, code := decodeErrorBody(t, resp)
	assert.Equal(t, models.CodeBookNotFound, code)

	m.reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_MissingRating(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Post("/api/books/:id/reviews", asUser(5), s.CreateReview)

	resp := postJSON(t, app, "/api/books/2/reviews", map[string]interface{}{
		"content": "No stars given",
	})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	m.bookRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	s, _ := newHandlerTestServer()
	app := fiber.New()
	app.Post("/api/books/:id/reviews", asUser(5), s.CreateReview)

	resp := postJSON(t, app, "/api/books/2/reviews", map[string]interface{}{
		"content": "Too enthusiastic",
		"rating":  6,
	})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateReview_OwnerSuccess(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Put("/api/reviews/:id", asUser(3), s.UpdateReview)

	existing := &models.Review{ID: 5, BookID: 2, UserID: uintPtr(3), Content: "Old", Rating: 4}
	updated := &models.Review{ID: 5, BookID: 2, UserID: uintPtr(3), Content: "New take", Rating: 4}

	m.reviewRepo.On("GetByID", mock.Anything, uint(5)).Return(existing, nil).Once()
	m.reviewRepo.On("UpdateContent", mock.Anything, uint(5), "New take").Return(nil)
	m.reviewRepo.On("GetByID", mock.Anything, uint(5)).Return(updated, nil).Once()

	resp := jsonRequest(t, app, http.MethodPut, "/api/reviews/5", map[string]string{
		"content": "New take",
	})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.Review
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "New take", body.Content)
	// Rating is immutable on update; the stored value carries through.
	assert.Equal(t, 4, body.Rating)

	m.reviewRepo.AssertExpectations(t)
}

func TestUpdateReview_NotOwnerForbidden(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Put("/api/reviews/:id", asUser(99), s.UpdateReview)

	m.reviewRepo.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Review{ID: 5, UserID: uintPtr(3), Content: "Old", Rating: 4}, nil)

	resp := jsonRequest(t, app, http.MethodPut, "/api/reviews/5", map[string]string{
		"content": "Hijacked",
	})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	msg, code := decodeErrorBody(t, resp)
	assert.Equal(t, models.CodeForbidden, code)
	assert.Equal(t, "You can only update your own reviews", msg)

	m.reviewRepo.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything, mock.Anything)
}

// A review whose author account was deleted has no owner; a regular user
// cannot edit it.
func TestUpdateReview_OrphanedForbidden(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Put("/api/reviews/:id", asUser(3), s.UpdateReview)

	m.reviewRepo.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Review{ID: 5, UserID: nil, Content: "Orphan", Rating: 2}, nil)

	resp := jsonRequest(t, app, http.MethodPut, "/api/reviews/5", map[string]string{
		"content": "Adopting this",
	})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeleteReview_Success(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Delete("/api/reviews/:id", asUser(3), s.DeleteReview)

	m.reviewRepo.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Review{ID: 5, UserID: uintPtr(3)}, nil)
	m.reviewRepo.On("DeleteWithGuard", mock.Anything, uint(5)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/reviews/5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	m.reviewRepo.AssertExpectations(t)
}

func TestDeleteReview_BlockedByComments(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Delete("/api/reviews/:id", asUser(3), s.DeleteReview)

	m.reviewRepo.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Review{ID: 5, UserID: uintPtr(3)}, nil)
	m.reviewRepo.On("DeleteWithGuard", mock.Anything, uint(5)).Return(repository.ErrHasComments)

	req := httptest.NewRequest(http.MethodDelete, "/api/reviews/5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_, code := decodeErrorBody(t, resp)
	assert.Equal(t, models.CodeRelatedDataExists, code)
}
