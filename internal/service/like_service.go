package service

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type LikeService struct {
	likeRepo    repository.LikeRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	cache       *cache.Aside
}

type CreateLikeInput struct {
	Author   *models.User
	TargetID string
	Kind     models.TargetKind
}

type DeleteLikeInput struct {
	Actor  *models.User
	LikeID string
}

// LikeCount is the cached body of the likes view.
type LikeCount struct {
	Likes int64 `json:"likes"`
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	c *cache.Aside,
) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		cache:       c,
	}
}

// CreateLike records a like by the author. A second like on the same target
// is a conflict.
func (s *LikeService) CreateLike(ctx context.Context, in CreateLikeInput) (*models.Like, error) {
	if in.TargetID == "" {
		return nil, models.NewBadRequestError("Like is empty")
	}
	if !in.Kind.Valid() {
		return nil, models.NewBadRequestError("Unknown like target")
	}

	likes, err := s.targetLikes(ctx, in.TargetID, in.Kind)
	if err != nil {
		return nil, err
	}
	if likes.Contains(in.Author.ID) {
		return nil, models.NewConflictError("You can't like twice")
	}

	like := &models.Like{
		TargetID: in.TargetID,
		Kind:     in.Kind,
		AuthorID: in.Author.ID,
	}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		return nil, err
	}
	if in.Kind == models.TargetPost {
		_, err = s.postRepo.PushID(ctx, in.TargetID, "likes", in.Author.ID)
	} else {
		_, err = s.commentRepo.PushID(ctx, in.TargetID, "likes", in.Author.ID)
	}
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateKeys(ctx, s.targetKeys(ctx, in.TargetID, in.Kind)...)
	return like, nil
}

// DeleteLike removes a like the actor gave.
func (s *LikeService) DeleteLike(ctx context.Context, in DeleteLikeInput) (*models.Like, error) {
	if in.LikeID == "" {
		return nil, models.NewBadRequestError("Bad Request")
	}
	like, err := s.likeRepo.GetByAuthor(ctx, in.LikeID, in.Actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.likeRepo.Delete(ctx, like.ID); err != nil {
		return nil, err
	}

	if like.Kind == models.TargetPost {
		_, err = s.postRepo.PullID(ctx, like.TargetID, "likes", like.AuthorID)
	} else {
		_, err = s.commentRepo.PullID(ctx, like.TargetID, "likes", like.AuthorID)
	}
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateKeys(ctx, s.targetKeys(ctx, like.TargetID, like.Kind)...)
	return like, nil
}

// CountLikes returns the number of likes on a post, comment or reply.
func (s *LikeService) CountLikes(ctx context.Context, targetID string) (*LikeCount, error) {
	if targetID == "" {
		return nil, models.NewBadRequestError("Bad Request")
	}
	return cache.ReadThrough(ctx, s.cache, cache.LikesKey(targetID), models.NewEmptyError("Post not found"),
		func(ctx context.Context) (*LikeCount, error) {
			n, err := s.likeRepo.CountByTarget(ctx, targetID)
			if err != nil {
				return nil, err
			}
			return &LikeCount{Likes: n}, nil
		})
}

// targetLikes loads the likes array of the target. A missing target yields
// an empty list so the like is still recorded.
func (s *LikeService) targetLikes(ctx context.Context, id string, kind models.TargetKind) (models.IDList, error) {
	var (
		likes models.IDList
		err   error
	)
	if kind == models.TargetPost {
		var p *models.Post
		if p, err = s.postRepo.GetByID(ctx, id); err == nil {
			likes = p.Likes
		}
	} else {
		var c *models.Comment
		if c, err = s.commentRepo.GetByID(ctx, id); err == nil {
			likes = c.Likes
		}
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
		return nil, nil
	}
	return likes, err
}

func (s *LikeService) targetKeys(ctx context.Context, id string, kind models.TargetKind) []string {
	keys := []string{cache.LikesKey(id)}
	if kind == models.TargetPost {
		keys = append(keys, cache.PostKey(id), cache.PostsKey)
		if p, err := s.postRepo.GetByID(ctx, id); err == nil {
			keys = append(keys, cache.UserPostsKey(p.AuthorID))
		}
		return keys
	}
	keys = append(keys, cache.CommentKey(id), cache.CommentsKey)
	if c, err := s.commentRepo.GetByID(ctx, id); err == nil {
		keys = append(keys, parentListKey(c))
	}
	return keys
}
