package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookden/internal/config"
	"bookden/internal/featureflags"
	"bookden/internal/models"
	"bookden/internal/repository"
	"bookden/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func alwaysAdmin(context.Context, uint) (bool, error) { return true, nil }

// grantAdmin swaps the book service's admin check so the actor passes it.
func grantAdmin(s *Server, m *handlerMocks) {
	s.bookService = service.NewBookService(m.bookRepo, alwaysAdmin)
}

func TestGetBooks_Success(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Get("/api/books", s.GetBooks)

	books := []models.Book{
		{ID: 1, Title: "Parable of the Sower", Author: "Octavia E. Butler", AverageRating: 4.5, RatingsCount: 2},
		{ID: 2, Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin"},
	}
	m.bookRepo.On("List", mock.Anything, repository.BookListFilter{Limit: 20}).
		Return(books, int64(2), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.BookPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Len(t, page.Books, 2)
	assert.Equal(t, 4.5, page.Books[0].AverageRating)
	assert.Equal(t, int64(2), page.Pagination.TotalItems)
}

func TestGetBooks_Search(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Get("/api/books", s.GetBooks)

	m.bookRepo.On("List", mock.Anything, repository.BookListFilter{Search: "butler", Limit: 20}).
		Return([]models.Book{{ID: 1, Title: "Kindred", Author: "Octavia E. Butler"}}, int64(1), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/books?q=butler", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	m.bookRepo.AssertExpectations(t)
}

func TestGetBook_Success(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Get("/api/books/:id", s.GetBook)

	m.bookRepo.On("GetByID", mock.Anything, uint(3)).
		Return(&models.Book{ID: 3, Title: "Piranesi", Author: "Susanna Clarke"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/books/3", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var book models.Book
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&book))
	assert.Equal(t, "Piranesi", book.Title)
}

func TestGetBook_NotFound(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Get("/api/books/:id", s.GetBook)

	m.bookRepo.On("GetByID", mock.Anything, uint(999)).Return(nil, gorm.ErrRecordNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/books/999", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_, code := decodeErrorBody(t, resp)
	assert.Equal(t, models.CodeBookNotFound, code)
}

func TestCreateBook_AdminSuccess(t *testing.T) {
	s, m := newHandlerTestServer()
	grantAdmin(s, m)
	app := fiber.New()
	app.Post("/api/books", asUser(1), s.CreateBook)

	m.bookRepo.On("GetByISBN", mock.Anything, "9780441478125").Return(nil, nil)
	m.bookRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Book")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Book).ID = 4
		}).
		Return(nil)

	resp := postJSON(t, app, "/api/books", map[string]interface{}{
		"title":          "The Lathe of Heaven",
		"author":         "Ursula K. Le Guin",
		"isbn":           "9780441478125",
		"published_year": 1971,
	})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var book models.Book
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&book))
	assert.Equal(t, uint(4), book.ID)
	require.NotNil(t, book.CreatedBy)
	assert.Equal(t, uint(1), *book.CreatedBy)

	m.bookRepo.AssertExpectations(t)
}

func TestCreateBook_NonAdminForbidden(t *testing.T) {
	s, m := newHandlerTestServer()
	app := fiber.New()
	app.Post("/api/books", asUser(2), s.CreateBook)

	resp := postJSON(t, app, "/api/books", map[string]interface{}{
		"title":  "Unauthorized Addition",
		"author": "Nobody",
	})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	m.bookRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBook_DuplicateISBN(t *testing.T) {
	s, m := newHandlerTestServer()
	grantAdmin(s, m)
	app := fiber.New()
	app.Post("/api/books", asUser(1), s.CreateBook)

	isbn := "9780441478125"
	m.bookRepo.On("GetByISBN", mock.Anything, isbn).
		Return(&models.Book{ID: 4, ISBN: &isbn}, nil)

	resp := postJSON(t, app, "/api/books", map[string]interface{}{
		"title":  "The Lathe of Heaven",
		"author": "Ursula K. Le Guin",
		"isbn":   isbn,
	})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_, code := decodeErrorBody(t, resp)
	assert.Equal(t, models.CodeDuplicateResource, code)
}

func TestCreateBook_MissingTitle(t *testing.T) {
	s, m := newHandlerTestServer()
	grantAdmin(s, m)
	app := fiber.New()
	app.Post("/api/books", asUser(1), s.CreateBook)

	resp := postJSON(t, app, "/api/books", map[string]interface{}{
		"title":  "   ",
		"author": "Someone",
	})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	m.bookRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateBook_PartialFields(t *testing.T) {
	s, m := newHandlerTestServer()
	grantAdmin(s, m)
	app := fiber.New()
	app.Put("/api/books/:id", asUser(1), s.UpdateBook)

	m.bookRepo.On("GetByID", mock.Anything, uint(3)).
		Return(&models.Book{ID: 3, Title: "Old Title", Author: "Kept Author", PublishedYear: 1980}, nil)
	m.bookRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Book")).Return(nil)

	resp := jsonRequest(t, app, http.MethodPut, "/api/books/3", map[string]interface{}{
		"title": "New Title",
	})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var book models.Book
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&book))
	assert.Equal(t, "New Title", book.Title)
	// Omitted fields keep their stored values.
	assert.Equal(t, "Kept Author", book.Author)
	assert.Equal(t, 1980, book.PublishedYear)
}

func TestDeleteBook_Success(t *testing.T) {
	s, m := newHandlerTestServer()
	grantAdmin(s, m)
	app := fiber.New()
	app.Delete("/api/books/:id", asUser(1), s.DeleteBook)

	m.bookRepo.On("DeleteWithGuard", mock.Anything, uint(3)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/books/3", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestDeleteBook_BlockedByReviews(t *testing.T) {
	s, m := newHandlerTestServer()
	grantAdmin(s, m)
	app := fiber.New()
	app.Delete("/api/books/:id", asUser(1), s.DeleteBook)

	m.bookRepo.On("DeleteWithGuard", mock.Anything, uint(3)).Return(repository.ErrHasReviews)

	req := httptest.NewRequest(http.MethodDelete, "/api/books/3", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_, code := decodeErrorBody(t, resp)
	assert.Equal(t, models.CodeRelatedDataExists, code)
}

func TestUploadBookCover_FlagDisabled(t *testing.T) {
	s, _ := newHandlerTestServer()
	s.featureFlags = featureflags.NewManager("cover_uploads=off")
	app := fiber.New()
	app.Post("/api/books/:id/cover", asUser(1), s.UploadBookCover)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("cover", "cover.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a real image"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/books/3/cover", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	msg, _ := decodeErrorBody(t, resp)
	assert.Equal(t, "Cover uploads are disabled", msg)
}

func TestUploadBookCover_NoFile(t *testing.T) {
	s, m := newHandlerTestServer()
	s.featureFlags = featureflags.NewManager("cover_uploads=on")
	s.coverService = service.NewCoverService(m.bookRepo, &config.Config{CoverUploadDir: t.TempDir()})
	app := fiber.New()
	app.Post("/api/books/:id/cover", asUser(1), s.UploadBookCover)

	req := httptest.NewRequest(http.MethodPost, "/api/books/3/cover", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	msg, _ := decodeErrorBody(t, resp)
	assert.Equal(t, "No file uploaded", msg)
}
