// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"bookden/internal/models"
	"bookden/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, getErr := s.userService.GetUserByID(c.UserContext(), id)
	if getErr != nil {
		return respondServiceError(c, getErr)
	}
	return c.JSON(user)
}

// GetMyProfile handles GET /api/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles PUT /api/users/:id. A user can only edit their own
// profile; there is no admin override for identity fields.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if targetID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only update your own profile"))
	}

	var req struct {
		Username string `json:"username"`
		Bio      string `json:"bio"`
		Avatar   string `json:"avatar"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, updErr := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:   userID,
		Username: req.Username,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if updErr != nil {
		return respondServiceError(c, updErr)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/users/:id. Self-service or admin; the
// user's reviews and comments survive with a null author.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if delErr := s.userService.DeleteAccount(c.UserContext(), userID, targetID); delErr != nil {
		return respondServiceError(c, delErr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PromoteToAdmin handles POST /api/users/:id/promote-admin (admin only)
// Admin check is enforced by AdminRequired middleware on the route.
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	target, setErr := s.userService.SetAdmin(c.UserContext(), targetID, true)
	if setErr != nil {
		return respondServiceError(c, setErr)
	}
	return c.JSON(fiber.Map{"message": "User promoted to admin", "user": target})
}

// DemoteFromAdmin handles POST /api/users/:id/demote-admin (admin only)
// Admin check is enforced by AdminRequired middleware on the route.
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	target, setErr := s.userService.SetAdmin(c.UserContext(), targetID, false)
	if setErr != nil {
		return respondServiceError(c, setErr)
	}
	return c.JSON(fiber.Map{"message": "User demoted from admin", "user": target})
}
