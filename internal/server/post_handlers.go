package server

import (
	"fmt"

	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /posts
// @Summary List all posts, newest first
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Post
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// CreatePost handles POST /posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{text=string,image=string} true "Post"
// @Success 201 {object} object{success=string,id=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Text  string `json:"text"`
		Image string `json:"image"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user := currentUser(c)
	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Author: user,
		Text:   req.Text,
		Image:  req.Image,
	})
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, user.Username+" just made a post", post.ID)
}

// GetMyPosts handles GET /posts/user
// @Summary List the current user's posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/user [get]
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListUserPosts(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// GetPost handles GET /posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), idParam(c))
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// GetPostComments handles GET /posts/:id/comments and GET /posts/comments/:id
// @Summary List the top-level comments of a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [get]
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListPostComments(c.UserContext(), idParam(c))
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

// DeletePost handles DELETE /posts/:id
// @Summary Delete a post with its comments and likes
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} object{success=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id := idParam(c)
	if _, err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		Actor:  currentUser(c),
		PostID: id,
	}); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, fmt.Sprintf("Post with ID %s has been deleted.", id), "")
}
