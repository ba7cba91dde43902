package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	PostID string `json:"postId"`
	Text   string `json:"text"`
}

// GetComments handles GET /comments
// @Summary List every comment and reply
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Comment
// @Router /comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListComments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

// GetComment handles GET /comments/:id
// @Summary Get a comment or reply
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	comment, err := s.commentService.GetComment(c.UserContext(), idParam(c))
	if err != nil {
		return err
	}
	return c.JSON(comment)
}

// CreateComment handles POST /comments
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{postId=string,text=string} true "Comment"
// @Success 201 {object} object{success=string,id=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	return s.createComment(c, models.TargetPost, " just commented on a post")
}

// CreateReply handles POST /comments/replies
// @Summary Reply to a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{postId=string,text=string} true "Reply, postId is the parent comment"
// @Success 201 {object} object{success=string,id=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /comments/replies [post]
func (s *Server) CreateReply(c *fiber.Ctx) error {
	return s.createComment(c, models.TargetComment, " just replied a comment")
}

func (s *Server) createComment(c *fiber.Ctx, kind models.TargetKind, verb string) error {
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user := currentUser(c)
	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		Author:   user,
		ParentID: req.PostID,
		Kind:     kind,
		Text:     req.Text,
	})
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, user.Username+verb, comment.ID)
}

// GetReplies handles GET /comments/replies/:id
// @Summary List the replies of a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/replies/{id} [get]
func (s *Server) GetReplies(c *fiber.Ctx) error {
	replies, err := s.commentService.ListReplies(c.UserContext(), idParam(c))
	if err != nil {
		return err
	}
	return c.JSON(replies)
}

// GetTotalReplies handles GET /comments/replies/:id/total
// @Summary Count the replies of a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} service.ReplyCount
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/replies/{id}/total [get]
func (s *Server) GetTotalReplies(c *fiber.Ctx) error {
	total, err := s.commentService.TotalReplies(c.UserContext(), idParam(c))
	if err != nil {
		return err
	}
	return c.JSON(total)
}

// DeleteComment handles DELETE /comments/:id
// @Summary Delete one of your comments with its replies
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} object{success=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	return s.deleteComment(c, "Comment deleted sucessfully")
}

// DeleteReply handles DELETE /comments/replies/:id
// @Summary Delete one of your replies
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reply ID"
// @Success 200 {object} object{success=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/replies/{id} [delete]
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	return s.deleteComment(c, "Reply deleted sucessfully")
}

func (s *Server) deleteComment(c *fiber.Ctx, message string) error {
	if _, err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		Actor:     currentUser(c),
		CommentID: idParam(c),
	}); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, message, "")
}
