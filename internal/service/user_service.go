package service

import (
	"context"
	"log/slog"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
	cache    *cache.Aside
}

type UpdateProfileInput struct {
	UserID   string
	Username string
}

func NewUserService(userRepo repository.UserRepository, c *cache.Aside) *UserService {
	return &UserService{userRepo: userRepo, cache: c}
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return cache.ReadThrough(ctx, s.cache, cache.UsersKey, models.NewEmptyError("No users found."), s.userRepo.List)
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, models.NewBadRequestError("User ID required.")
	}
	return cache.ReadThrough(ctx, s.cache, cache.UserKey(id), models.NewNotFoundError("User", id),
		func(ctx context.Context) (*models.User, error) {
			return s.userRepo.GetByID(ctx, id)
		})
}

// UpdateProfile changes the username of the calling user.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if in.Username == "" {
		return nil, models.NewBadRequestError("Username is required!")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, err
	}

	taken, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken != nil && taken.ID != in.UserID {
		return nil, models.NewBadRequestError("Username already exist")
	}

	if err := s.userRepo.UpdateFields(ctx, in.UserID, map[string]any{"username": in.Username}); err != nil {
		return nil, err
	}
	s.cache.InvalidateKeys(ctx, cache.UserKey(in.UserID), cache.UsersKey)
	return s.userRepo.GetByID(ctx, in.UserID)
}

// SetRole grants or revokes admin rights by username.
func (s *UserService) SetRole(ctx context.Context, username string, role models.Role) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, models.NewBadRequestError("Role must be either user or admin")
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]any{"role": role}); err != nil {
		return nil, err
	}
	user.Role = role
	s.cache.InvalidateKeys(ctx, cache.UserKey(user.ID), cache.UsersKey)
	return user, nil
}

func (s *UserService) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListByRole(ctx, models.RoleAdmin)
}

// DeleteUser removes the user with everything they authored.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*repository.UserDeletion, error) {
	if id == "" {
		return nil, models.NewBadRequestError("User ID required.")
	}
	res, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	keys := []string{
		cache.UserKey(id),
		cache.UsersKey,
		cache.PostsKey,
		cache.CommentsKey,
		cache.UserPostsKey(id),
		cache.FollowingKey(id),
		cache.FollowersKey(id),
	}
	for _, pid := range res.PostIDs {
		keys = append(keys, cache.PostKey(pid), cache.PostCommentsKey(pid), cache.LikesKey(pid))
	}
	for _, cid := range res.CommentIDs {
		keys = append(keys, commentKeys(cid)...)
	}
	for _, uid := range res.Followed {
		keys = append(keys, cache.UserKey(uid), cache.FollowersKey(uid))
	}
	for _, uid := range res.Followers {
		keys = append(keys, cache.UserKey(uid), cache.FollowingKey(uid))
	}
	for _, p := range res.TouchedPosts {
		keys = append(keys,
			cache.PostKey(p.ID),
			cache.PostCommentsKey(p.ID),
			cache.LikesKey(p.ID),
			cache.UserPostsKey(p.AuthorID),
		)
	}
	for i := range res.TouchedComments {
		c := &res.TouchedComments[i]
		keys = append(keys, commentKeys(c.ID)...)
		keys = append(keys, parentListKey(c))
	}
	s.cache.InvalidateKeys(ctx, keys...)

	middleware.Logger.InfoContext(ctx, "user deleted",
		slog.String("user_id", id),
		slog.Int("posts", len(res.PostIDs)),
		slog.Int("comments", len(res.CommentIDs)),
	)
	return res, nil
}
