package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// FollowingRepository defines persistence operations for follow edges.
type FollowingRepository interface {
	Create(ctx context.Context, f *models.Following) error
	GetByID(ctx context.Context, id string) (*models.Following, error)
	GetByPair(ctx context.Context, followerID, followingID string) (*models.Following, error)
	Delete(ctx context.Context, id string) error
	ListByFollower(ctx context.Context, followerID string) ([]models.Following, error)
	ListByFollowing(ctx context.Context, followingID string) ([]models.Following, error)
}

type followingRepository struct {
	db *gorm.DB
}

// NewFollowingRepository returns a new FollowingRepository implementation.
func NewFollowingRepository(db *gorm.DB) FollowingRepository {
	return &followingRepository{db: db}
}

func (r *followingRepository) Create(ctx context.Context, f *models.Following) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("You already follow this user")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followingRepository) GetByID(ctx context.Context, id string) (*models.Following, error) {
	var f models.Following
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, notFoundOr(err, "Follow", id)
	}
	return &f, nil
}

// GetByPair returns nil, nil when followerID does not follow followingID.
func (r *followingRepository) GetByPair(ctx context.Context, followerID, followingID string) (*models.Following, error) {
	var f models.Following
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &f, nil
}

func (r *followingRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Following{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Follow", id)
	}
	return nil
}

func (r *followingRepository) ListByFollower(ctx context.Context, followerID string) ([]models.Following, error) {
	var out []models.Following
	if err := r.db.WithContext(ctx).Where("follower_id = ?", followerID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *followingRepository) ListByFollowing(ctx context.Context, followingID string) ([]models.Following, error) {
	var out []models.Following
	if err := r.db.WithContext(ctx).Where("following_id = ?", followingID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}
