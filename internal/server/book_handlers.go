// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"io"

	"bookden/internal/featureflags"
	"bookden/internal/models"
	"bookden/internal/service"
	"bookden/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetBooks handles GET /api/books
// @Summary List books
// @Description Page through the catalog, optionally filtered by a title/author search
// @Tags books
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Param q query string false "Title/author substring"
// @Success 200 {object} models.BookPage
// @Failure 400 {object} models.ErrorResponse
// @Router /books [get]
func (s *Server) GetBooks(c *fiber.Ctx) error {
	query, fieldErrs := validation.ParseListBooks(
		c.Query("page"), c.Query("limit"), c.Query("q"))
	if len(fieldErrs) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(fieldErrs))
	}

	page, err := s.bookService.ListBooks(c.UserContext(), query)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetBook handles GET /api/books/:id
func (s *Server) GetBook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	book, getErr := s.bookService.GetBook(c.UserContext(), id)
	if getErr != nil {
		return respondServiceError(c, getErr)
	}
	return c.JSON(book)
}

// CreateBook handles POST /api/books (admin)
func (s *Server) CreateBook(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title         string `json:"title"`
		Author        string `json:"author"`
		ISBN          string `json:"isbn"`
		Description   string `json:"description"`
		PublishedYear int    `json:"published_year"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	book, err := s.bookService.CreateBook(c.UserContext(), service.CreateBookInput{
		ActorID:       userID,
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		Description:   req.Description,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(book)
}

// UpdateBook handles PUT /api/books/:id (admin)
func (s *Server) UpdateBook(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	bookID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title         string `json:"title"`
		Author        string `json:"author"`
		Description   string `json:"description"`
		PublishedYear int    `json:"published_year"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	book, updErr := s.bookService.UpdateBook(c.UserContext(), service.UpdateBookInput{
		ActorID:       userID,
		BookID:        bookID,
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		PublishedYear: req.PublishedYear,
	})
	if updErr != nil {
		return respondServiceError(c, updErr)
	}
	return c.JSON(book)
}

// DeleteBook handles DELETE /api/books/:id (admin). Books with reviews
// cannot be deleted; the guard answers 409.
func (s *Server) DeleteBook(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	bookID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if delErr := s.bookService.DeleteBook(c.UserContext(), userID, bookID); delErr != nil {
		return respondServiceError(c, delErr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadBookCover handles POST /api/books/:id/cover (multipart)
func (s *Server) UploadBookCover(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	bookID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if s.featureFlags == nil || !s.featureFlags.Enabled(featureflags.FlagCoverUploads, userID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Cover uploads are disabled"))
	}

	file, fileErr := c.FormFile("cover")
	if fileErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	src, openErr := file.Open()
	if openErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, readErr := io.ReadAll(src)
	if readErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}

	book, upErr := s.coverService.Upload(c.UserContext(), service.UploadCoverInput{
		BookID:      bookID,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	})
	if upErr != nil {
		return respondServiceError(c, upErr)
	}
	return c.JSON(book)
}

// ServeCover handles GET /media/covers/:name
func (s *Server) ServeCover(c *fiber.Ctx) error {
	path, err := s.coverService.ResolveForServing(c.Params("name"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.SendFile(path)
}
