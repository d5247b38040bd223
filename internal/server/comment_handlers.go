// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"bookden/internal/models"
	"bookden/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetReviewComments handles GET /api/reviews/:id/comments. It returns the
// two-level comment tree: top-level comments newest first, each carrying its
// replies.
func (s *Server) GetReviewComments(c *fiber.Ctx) error {
	reviewID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	threads, listErr := s.commentService.ListCommentThreads(c.UserContext(), reviewID)
	if listErr != nil {
		return respondServiceError(c, listErr)
	}
	return c.JSON(threads)
}

// CreateComment handles POST /api/reviews/:id/comments
// @Summary Comment on a review
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Review ID"
// @Param request body object{content=string,parent_id=int} true "Comment body"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /reviews/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Content  string `json:"content"`
		ParentID *int64 `json:"parent_id"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	cmd, fieldErrs := validation.ParseCreateComment(c.Params("id"), req.Content, req.ParentID)
	if len(fieldErrs) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(fieldErrs))
	}

	created, err := s.commentService.CreateComment(c.UserContext(), userID, cmd)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.emitCommentCreated(c.UserContext(), userID, created)

	return c.Status(fiber.StatusCreated).JSON(created)
}
