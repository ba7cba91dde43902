package service

import (
	"context"
	"fmt"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type FollowingService struct {
	followingRepo repository.FollowingRepository
	userRepo      repository.UserRepository
	cache         *cache.Aside
}

type FollowInput struct {
	Actor       *models.User
	FollowingID string
}

type UnfollowInput struct {
	Actor    *models.User
	FollowID string
}

func NewFollowingService(followingRepo repository.FollowingRepository, userRepo repository.UserRepository, c *cache.Aside) *FollowingService {
	return &FollowingService{
		followingRepo: followingRepo,
		userRepo:      userRepo,
		cache:         c,
	}
}

// Follow makes the actor follow another user.
func (s *FollowingService) Follow(ctx context.Context, in FollowInput) (*models.Following, error) {
	if in.FollowingID == "" {
		return nil, models.NewBadRequestError("Bad Request")
	}
	if in.FollowingID == in.Actor.ID {
		return nil, models.NewBadRequestError("You cannot follow yourself")
	}

	actor, err := s.userRepo.GetByID(ctx, in.Actor.ID)
	if err != nil {
		return nil, err
	}
	if actor.Following.Contains(in.FollowingID) {
		return nil, models.NewConflictError("You already follow this user")
	}
	// The edge can exist while the array lags behind it.
	existing, err := s.followingRepo.GetByPair(ctx, actor.ID, in.FollowingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("You already follow this user")
	}

	f := &models.Following{FollowerID: actor.ID, FollowingID: in.FollowingID}
	if err := s.followingRepo.Create(ctx, f); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.PushID(ctx, in.FollowingID, "followers", actor.ID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.PushID(ctx, actor.ID, "following", in.FollowingID); err != nil {
		return nil, err
	}

	s.cache.InvalidateKeys(ctx, followKeys(actor.ID, in.FollowingID)...)
	return f, nil
}

// Unfollow removes a follow edge owned by the actor.
func (s *FollowingService) Unfollow(ctx context.Context, in UnfollowInput) (*models.Following, error) {
	if in.FollowID == "" {
		return nil, models.NewBadRequestError("Bad Request")
	}
	f, err := s.followingRepo.GetByID(ctx, in.FollowID)
	if err != nil {
		return nil, err
	}
	if f.FollowerID != in.Actor.ID {
		return nil, models.NewNotFoundError("Follow", in.FollowID)
	}
	if err := s.followingRepo.Delete(ctx, f.ID); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.PullID(ctx, f.FollowingID, "followers", f.FollowerID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.PullID(ctx, f.FollowerID, "following", f.FollowingID); err != nil {
		return nil, err
	}

	s.cache.InvalidateKeys(ctx, followKeys(f.FollowerID, f.FollowingID)...)
	return f, nil
}

// Following lists the edges where userID is the follower.
func (s *FollowingService) Following(ctx context.Context, userID string) ([]models.Following, error) {
	if userID == "" {
		return nil, models.NewBadRequestError("User ID required.")
	}
	missing := models.NewEmptyError(fmt.Sprintf("User with ID %s follows nobody.", userID))
	return cache.ReadThrough(ctx, s.cache, cache.FollowingKey(userID), missing,
		func(ctx context.Context) ([]models.Following, error) {
			return s.followingRepo.ListByFollower(ctx, userID)
		})
}

// Followers lists the edges where userID is followed.
func (s *FollowingService) Followers(ctx context.Context, userID string) ([]models.Following, error) {
	if userID == "" {
		return nil, models.NewBadRequestError("User ID required.")
	}
	missing := models.NewEmptyError(fmt.Sprintf("User with ID %s has no followers.", userID))
	return cache.ReadThrough(ctx, s.cache, cache.FollowersKey(userID), missing,
		func(ctx context.Context) ([]models.Following, error) {
			return s.followingRepo.ListByFollowing(ctx, userID)
		})
}

func followKeys(followerID, followingID string) []string {
	return []string{
		cache.FollowingKey(followerID),
		cache.FollowersKey(followingID),
		cache.UserKey(followerID),
		cache.UserKey(followingID),
		cache.UsersKey,
	}
}
