package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	GetByID(ctx context.Context, id string) (*models.Like, error)
	GetByAuthor(ctx context.Context, id, authorID string) (*models.Like, error)
	Delete(ctx context.Context, id string) error
	CountByTarget(ctx context.Context, targetID string) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("You can't like twice")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) GetByID(ctx context.Context, id string) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&like).Error; err != nil {
		return nil, notFoundOr(err, "Like", id)
	}
	return &like, nil
}

func (r *likeRepository) GetByAuthor(ctx context.Context, id, authorID string) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).Where("id = ? AND author_id = ?", id, authorID).First(&like).Error; err != nil {
		return nil, notFoundOr(err, "Like", id)
	}
	return &like, nil
}

func (r *likeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Like{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Like", id)
	}
	return nil
}

func (r *likeRepository) CountByTarget(ctx context.Context, targetID string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("target_id = ?", targetID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
