package server

import (
	"fmt"

	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /users
// @Summary List all users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// GetUser handles GET /users/:id
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.UserContext(), idParam(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateMe handles PUT /users/updateMe
// @Summary Change the current user's username
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{username=string} true "Profile"
// @Success 200 {object} object{success=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /users/updateMe [put]
func (s *Server) UpdateMe(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if _, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:   currentUser(c).ID,
		Username: req.Username,
	}); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "User updated successfully", "")
}

// DeleteUser handles DELETE /users/:id
// @Summary Delete a user with everything they authored (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} object{success=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	res, err := s.userService.DeleteUser(c.UserContext(), idParam(c))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, fmt.Sprintf("User with ID %s has been deleted.", res.User.ID), "")
}
