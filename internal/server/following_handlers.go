package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyFollowing handles GET /following
// @Summary List who the current user follows
// @Tags following
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Following
// @Failure 404 {object} models.ErrorResponse
// @Router /following [get]
func (s *Server) GetMyFollowing(c *fiber.Ctx) error {
	list, err := s.followingService.Following(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetFollowing handles GET /following/:id
// @Summary List who a user follows
// @Tags following
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} models.Following
// @Failure 404 {object} models.ErrorResponse
// @Router /following/{id} [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	list, err := s.followingService.Following(c.UserContext(), idParam(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetFollowers handles GET /following/:id/followers
// @Summary List the followers of a user
// @Tags following
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} models.Following
// @Failure 404 {object} models.ErrorResponse
// @Router /following/{id}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	list, err := s.followingService.Followers(c.UserContext(), idParam(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// Follow handles POST /following
// @Summary Follow a user
// @Tags following
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{followingId=string} true "User to follow"
// @Success 201 {object} object{success=string,id=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /following [post]
func (s *Server) Follow(c *fiber.Ctx) error {
	var req struct {
		FollowingID string `json:"followingId"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user := currentUser(c)
	f, err := s.followingService.Follow(c.UserContext(), service.FollowInput{
		Actor:       user,
		FollowingID: req.FollowingID,
	})
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, user.Username+" just followed "+f.FollowingID, f.ID)
}

// Unfollow handles DELETE /following and /following/:id
// @Summary Remove one of your follows
// @Tags following
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{followId=string} false "Follow edge"
// @Success 200 {object} object{success=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /following [delete]
func (s *Server) Unfollow(c *fiber.Ctx) error {
	var req struct {
		FollowID string `json:"followId"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	id := idParam(c)
	if id == "" {
		id = req.FollowID
	}

	user := currentUser(c)
	f, err := s.followingService.Unfollow(c.UserContext(), service.UnfollowInput{
		Actor:    user,
		FollowID: id,
	})
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, user.Username+" just unfollowed "+f.FollowingID, "")
}
