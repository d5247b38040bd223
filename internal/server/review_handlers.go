// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"bookden/internal/models"
	"bookden/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetReviews handles GET /api/reviews
// @Summary List reviews
// @Description Page through reviews, optionally filtered by book, user, or rating
// @Tags reviews
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Param book_id query int false "Filter by book"
// @Param user_id query int false "Filter by author"
// @Param rating query int false "Filter by star rating (1-5)"
// @Success 200 {object} models.ReviewPage
// @Failure 400 {object} models.ErrorResponse
// @Router /reviews [get]
func (s *Server) GetReviews(c *fiber.Ctx) error {
	query, fieldErrs := validation.ParseListReviews(
		c.Query("page"), c.Query("limit"),
		c.Query("book_id"), c.Query("user_id"), c.Query("rating"))
	if len(fieldErrs) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(fieldErrs))
	}

	page, err := s.reviewService.ListReviews(c.UserContext(), query)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetBookReviews handles GET /api/books/:id/reviews
func (s *Server) GetBookReviews(c *fiber.Ctx) error {
	bookID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	query, fieldErrs := validation.ParseListReviews(
		c.Query("page"), c.Query("limit"), "", "", c.Query("rating"))
	if len(fieldErrs) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(fieldErrs))
	}
	query.BookID = &bookID

	page, listErr := s.reviewService.ListReviews(c.UserContext(), query)
	if listErr != nil {
		return respondServiceError(c, listErr)
	}
	return c.JSON(page)
}

// GetUserReviews handles GET /api/users/:id/reviews
func (s *Server) GetUserReviews(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	query, fieldErrs := validation.ParseListReviews(
		c.Query("page"), c.Query("limit"), "", "", c.Query("rating"))
	if len(fieldErrs) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(fieldErrs))
	}
	query.UserID = &userID

	page, listErr := s.reviewService.ListReviews(c.UserContext(), query)
	if listErr != nil {
		return respondServiceError(c, listErr)
	}
	return c.JSON(page)
}

// GetReview handles GET /api/reviews/:id
// @Summary Review detail
// @Description Fetch a single review with its book title and author username
// @Tags reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} models.ReviewDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /reviews/{id} [get]
func (s *Server) GetReview(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.reviewService.GetReviewDetail(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// CreateReview handles POST /api/books/:id/reviews
// @Summary Create a review
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param request body object{content=string,rating=int} true "Review body"
// @Success 201 {object} models.Review
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /books/{id}/reviews [post]
func (s *Server) CreateReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Content string `json:"content"`
		Rating  *int   `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	cmd, fieldErrs := validation.ParseCreateReview(c.Params("id"), req.Content, req.Rating)
	if len(fieldErrs) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(fieldErrs))
	}

	review, err := s.reviewService.CreateReview(c.UserContext(), userID, cmd)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.emitReviewCreated(c.UserContext(), userID, review)

	return c.Status(fiber.StatusCreated).JSON(review)
}

// UpdateReview handles PUT /api/reviews/:id
func (s *Server) UpdateReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	cmd, fieldErrs := validation.ParseUpdateReview(c.Params("id"), req.Content)
	if len(fieldErrs) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(fieldErrs))
	}

	review, err := s.reviewService.UpdateReview(c.UserContext(), userID, cmd)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(review)
}

// DeleteReview handles DELETE /api/reviews/:id
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	reviewID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if delErr := s.reviewService.DeleteReview(c.UserContext(), userID, reviewID); delErr != nil {
		return respondServiceError(c, delErr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
