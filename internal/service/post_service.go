package service

import (
	"context"
	"fmt"
	"log/slog"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	cache    *cache.Aside
}

type CreatePostInput struct {
	Author *models.User
	Text   string
	Image  string
}

type DeletePostInput struct {
	Actor  *models.User
	PostID string
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, c *cache.Aside) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		cache:    c,
	}
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return cache.ReadThrough(ctx, s.cache, cache.PostsKey, models.NewEmptyError("No posts found."), s.postRepo.List)
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if id == "" {
		return nil, models.NewBadRequestError("Post ID is required")
	}
	return cache.ReadThrough(ctx, s.cache, cache.PostKey(id), models.NewNotFoundError("Post", id),
		func(ctx context.Context) (*models.Post, error) {
			return s.postRepo.GetByID(ctx, id)
		})
}

// ListUserPosts returns the posts authored by userID, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	if userID == "" {
		return nil, models.NewBadRequestError("User ID required.")
	}
	missing := models.NewEmptyError(fmt.Sprintf("User with ID %s has no post.", userID))
	return cache.ReadThrough(ctx, s.cache, cache.UserPostsKey(userID), missing,
		func(ctx context.Context) ([]models.Post, error) {
			return s.postRepo.ListByAuthor(ctx, userID)
		})
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Text == "" {
		return nil, models.NewBadRequestError("Post is empty")
	}

	post := &models.Post{
		AuthorID: in.Author.ID,
		Text:     in.Text,
		Image:    in.Image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.PushID(ctx, in.Author.ID, "posts", post.ID); err != nil {
		return nil, err
	}

	s.cache.InvalidateKeys(ctx,
		cache.PostsKey,
		cache.UserPostsKey(in.Author.ID),
		cache.UsersKey,
		cache.UserKey(in.Author.ID),
	)
	return post, nil
}

// DeletePost removes a post with its comments and likes. Only the author or
// an admin may delete it.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) (*repository.PostDeletion, error) {
	if in.PostID == "" {
		return nil, models.NewBadRequestError("Post id is required")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.Actor.ID && !in.Actor.IsAdmin() {
		return nil, models.NewUnauthorizedError("You can only delete your own posts")
	}

	res, err := s.postRepo.Delete(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	keys := []string{
		cache.PostKey(post.ID),
		cache.PostsKey,
		cache.PostCommentsKey(post.ID),
		cache.LikesKey(post.ID),
		cache.UserPostsKey(post.AuthorID),
		cache.UsersKey,
		cache.UserKey(post.AuthorID),
		cache.CommentsKey,
	}
	for _, id := range res.CommentIDs {
		keys = append(keys, commentKeys(id)...)
	}
	s.cache.InvalidateKeys(ctx, keys...)

	middleware.Logger.InfoContext(ctx, "post deleted",
		slog.String("post_id", post.ID),
		slog.Int("comments", len(res.CommentIDs)),
	)
	return res, nil
}

// commentKeys are the views keyed by a single comment id.
func commentKeys(id string) []string {
	return []string{
		cache.CommentKey(id),
		cache.CommentRepliesKey(id),
		cache.TotalCommentRepliesKey(id),
		cache.LikesKey(id),
	}
}
