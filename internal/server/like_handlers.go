package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateLike returns the handler for POST /likes, /comments/comment/likes
// and /comments/reply/likes. The route decides the target kind unless the
// body names one explicitly.
// @Summary Like a post, comment or reply
// @Tags likes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{postId=string,kind=string} true "Like target"
// @Success 201 {object} object{success=string,id=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /likes [post]
func (s *Server) CreateLike(kind models.TargetKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			PostID string `json:"postId"`
			Kind   string `json:"kind"`
		}
		if err := parseBody(c, &req); err != nil {
			return err
		}

		target := kind
		if req.Kind != "" {
			k, err := models.ParseTargetKind(req.Kind)
			if err != nil {
				return models.NewBadRequestError("Unknown like target")
			}
			target = k
		}

		user := currentUser(c)
		like, err := s.likeService.CreateLike(c.UserContext(), service.CreateLikeInput{
			Author:   user,
			TargetID: req.PostID,
			Kind:     target,
		})
		if err != nil {
			return err
		}
		return success(c, fiber.StatusCreated, user.Username+" just liked a "+string(target), like.ID)
	}
}

// DeleteLike handles DELETE /likes and /likes/:id. The like id comes from
// the path or the likeId body field.
// @Summary Remove one of your likes
// @Tags likes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{likeId=string} false "Like"
// @Success 200 {object} object{success=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /likes [delete]
func (s *Server) DeleteLike(c *fiber.Ctx) error {
	var req struct {
		LikeID string `json:"likeId"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	id := idParam(c)
	if id == "" {
		id = req.LikeID
	}

	if _, err := s.likeService.DeleteLike(c.UserContext(), service.DeleteLikeInput{
		Actor:  currentUser(c),
		LikeID: id,
	}); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Like deleted sucessfully", "")
}

// GetLikes handles GET /likes/:id
// @Summary Count the likes of a post, comment or reply
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Target ID"
// @Success 200 {object} service.LikeCount
// @Router /likes/{id} [get]
func (s *Server) GetLikes(c *fiber.Ctx) error {
	count, err := s.likeService.CountLikes(c.UserContext(), idParam(c))
	if err != nil {
		return err
	}
	return c.JSON(count)
}
