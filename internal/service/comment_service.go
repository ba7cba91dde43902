package service

import (
	"context"
	"fmt"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	cache       *cache.Aside
}

// CreateCommentInput creates a comment on a post, or a reply when Kind is
// models.TargetComment and ParentID names a comment.
type CreateCommentInput struct {
	Author   *models.User
	ParentID string
	Kind     models.TargetKind
	Text     string
}

type DeleteCommentInput struct {
	Actor     *models.User
	CommentID string
}

// ReplyCount is the cached body of the total replies view.
type ReplyCount struct {
	Replies int `json:"replies"`
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, c *cache.Aside) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		cache:       c,
	}
}

func (s *CommentService) ListComments(ctx context.Context) ([]models.Comment, error) {
	return cache.ReadThrough(ctx, s.cache, cache.CommentsKey, models.NewEmptyError("Not Found"), s.commentRepo.List)
}

func (s *CommentService) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	if id == "" {
		return nil, models.NewBadRequestError("Bad Request")
	}
	return cache.ReadThrough(ctx, s.cache, cache.CommentKey(id), models.NewNotFoundError("Comment", id),
		func(ctx context.Context) (*models.Comment, error) {
			return s.commentRepo.GetByID(ctx, id)
		})
}

// ListPostComments returns the top-level comments of a post.
func (s *CommentService) ListPostComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if postID == "" {
		return nil, models.NewBadRequestError("Post id is required")
	}
	missing := models.NewEmptyError(fmt.Sprintf("Post with ID %s has no comment.", postID))
	return cache.ReadThrough(ctx, s.cache, cache.PostCommentsKey(postID), missing,
		func(ctx context.Context) ([]models.Comment, error) {
			if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
				return nil, err
			}
			return s.commentRepo.ListByParent(ctx, postID, models.TargetPost)
		})
}

func (s *CommentService) ListReplies(ctx context.Context, commentID string) ([]models.Comment, error) {
	if commentID == "" {
		return nil, models.NewBadRequestError("Bad Request")
	}
	missing := models.NewEmptyError(fmt.Sprintf("Comment with ID %s has no reply.", commentID))
	return cache.ReadThrough(ctx, s.cache, cache.CommentRepliesKey(commentID), missing,
		func(ctx context.Context) ([]models.Comment, error) {
			if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
				return nil, err
			}
			return s.commentRepo.ListByParent(ctx, commentID, models.TargetComment)
		})
}

func (s *CommentService) TotalReplies(ctx context.Context, commentID string) (*ReplyCount, error) {
	if commentID == "" {
		return nil, models.NewBadRequestError("Comment id is required")
	}
	return cache.ReadThrough(ctx, s.cache, cache.TotalCommentRepliesKey(commentID), models.NewNotFoundError("Comment", commentID),
		func(ctx context.Context) (*ReplyCount, error) {
			c, err := s.commentRepo.GetByID(ctx, commentID)
			if err != nil {
				return nil, err
			}
			return &ReplyCount{Replies: len(c.Replies)}, nil
		})
}

// CreateComment stores the comment and links it into its parent. A missing
// parent does not fail the request.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.ParentID == "" || in.Text == "" {
		return nil, models.NewBadRequestError("Bad Request")
	}
	kind := in.Kind
	if kind == "" {
		kind = models.TargetPost
	}
	if kind != models.TargetPost && kind != models.TargetComment {
		return nil, models.NewBadRequestError("Comments can only be made on a post or a comment")
	}

	comment := &models.Comment{
		ParentID:   in.ParentID,
		ParentKind: kind,
		Text:       in.Text,
		AuthorID:   in.Author.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	var err error
	if comment.IsReply() {
		_, err = s.commentRepo.PushID(ctx, in.ParentID, "replies", comment.ID)
	} else {
		_, err = s.postRepo.PushID(ctx, in.ParentID, "comments", comment.ID)
	}
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateKeys(ctx, s.parentKeys(ctx, comment)...)
	return comment, nil
}

// DeleteComment removes a comment or reply written by the actor, with
// everything below it.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	if in.CommentID == "" {
		return nil, models.NewBadRequestError("Bad Request")
	}
	if _, err := s.commentRepo.GetByAuthor(ctx, in.CommentID, in.Actor.ID); err != nil {
		return nil, err
	}

	res, err := s.commentRepo.Delete(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	keys := []string{cache.CommentsKey}
	for _, id := range res.Removed {
		keys = append(keys, commentKeys(id)...)
	}
	keys = append(keys, s.parentKeys(ctx, res.Comment)...)
	s.cache.InvalidateKeys(ctx, keys...)
	return res.Comment, nil
}

// parentKeys are the views that embed comment through its parent.
func (s *CommentService) parentKeys(ctx context.Context, comment *models.Comment) []string {
	keys := []string{cache.CommentsKey}
	if comment.IsReply() {
		keys = append(keys,
			cache.CommentKey(comment.ParentID),
			cache.CommentRepliesKey(comment.ParentID),
			cache.TotalCommentRepliesKey(comment.ParentID),
		)
		if parent, err := s.commentRepo.GetByID(ctx, comment.ParentID); err == nil {
			keys = append(keys, parentListKey(parent))
		}
		return keys
	}
	keys = append(keys,
		cache.PostCommentsKey(comment.ParentID),
		cache.PostKey(comment.ParentID),
		cache.PostsKey,
	)
	if post, err := s.postRepo.GetByID(ctx, comment.ParentID); err == nil {
		keys = append(keys, cache.UserPostsKey(post.AuthorID))
	}
	return keys
}

// parentListKey is the list view that contains comment.
func parentListKey(comment *models.Comment) string {
	if comment.IsReply() {
		return cache.CommentRepliesKey(comment.ParentID)
	}
	return cache.PostCommentsKey(comment.ParentID)
}
