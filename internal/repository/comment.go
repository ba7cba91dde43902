package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments and replies.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	GetByAuthor(ctx context.Context, id, authorID string) (*models.Comment, error)
	List(ctx context.Context) ([]models.Comment, error)
	ListByParent(ctx context.Context, parentID string, kind models.TargetKind) ([]models.Comment, error)
	Delete(ctx context.Context, id string) (*CommentDeletion, error)
	PushID(ctx context.Context, commentID, column, value string) (bool, error)
	PullID(ctx context.Context, commentID, column, value string) (bool, error)
}

// CommentDeletion is the removed comment and every id deleted with it,
// including the comment itself.
type CommentDeletion struct {
	Comment *models.Comment
	Removed []string
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, notFoundOr(err, "Comment", id)
	}
	return &comment, nil
}

// GetByAuthor loads a comment only if authorID wrote it.
func (r *commentRepository) GetByAuthor(ctx context.Context, id, authorID string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ? AND author_id = ?", id, authorID).First(&comment).Error; err != nil {
		return nil, notFoundOr(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) List(ctx context.Context) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// ListByParent returns the comments on a post (kind post) or the replies to
// a comment (kind comment), oldest first.
func (r *commentRepository) ListByParent(ctx context.Context, parentID string, kind models.TargetKind) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Where("parent_id = ? AND parent_kind = ?", parentID, kind).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// Delete removes the comment, every reply below it and the likes on all of
// them, then pulls the comment id from its parent's array.
func (r *commentRepository) Delete(ctx context.Context, id string) (*CommentDeletion, error) {
	out := &CommentDeletion{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Where("id = ?", id).First(&comment).Error; err != nil {
			return err
		}
		out.Comment = &comment

		removed, err := collectReplies(tx, []string{id})
		if err != nil {
			return err
		}
		out.Removed = removed

		if err := tx.Where("target_id IN ?", removed).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", removed).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if comment.IsReply() {
			return pullFromAll[models.Comment](tx, []string{comment.ParentID}, "replies", id)
		}
		return pullFromAll[models.Post](tx, []string{comment.ParentID}, "comments", id)
	})
	if err != nil {
		return nil, notFoundOr(err, "Comment", id)
	}
	return out, nil
}

func (r *commentRepository) PushID(ctx context.Context, commentID, column, value string) (bool, error) {
	return pushID[models.Comment](ctx, r.db, commentID, column, value)
}

func (r *commentRepository) PullID(ctx context.Context, commentID, column, value string) (bool, error) {
	return pullID[models.Comment](ctx, r.db, commentID, column, value)
}
