package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	Delete(ctx context.Context, id string) (*PostDeletion, error)
	PushID(ctx context.Context, postID, column, value string) (bool, error)
	PullID(ctx context.Context, postID, column, value string) (bool, error)
}

// PostDeletion is the post that was removed and the comments cascaded with it.
type PostDeletion struct {
	Post       *models.Post
	CommentIDs []string
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Delete removes the post, its comments and replies, and every like on any
// of them, then pulls the post id from the author's posts.
func (r *postRepository) Delete(ctx context.Context, id string) (*PostDeletion, error) {
	out := &PostDeletion{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ?", id).First(&post).Error; err != nil {
			return err
		}
		out.Post = &post

		var roots []string
		if err := tx.Model(&models.Comment{}).
			Where("parent_id = ? AND parent_kind = ?", id, models.TargetPost).
			Pluck("id", &roots).Error; err != nil {
			return err
		}
		commentIDs, err := collectReplies(tx, roots)
		if err != nil {
			return err
		}
		out.CommentIDs = commentIDs

		targets := append([]string{id}, commentIDs...)
		if err := tx.Where("target_id IN ?", targets).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("id IN ?", commentIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&post).Error; err != nil {
			return err
		}
		return pullFromAll[models.User](tx, []string{post.AuthorID}, "posts", id)
	})
	if err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return out, nil
}

func (r *postRepository) PushID(ctx context.Context, postID, column, value string) (bool, error) {
	return pushID[models.Post](ctx, r.db, postID, column, value)
}

func (r *postRepository) PullID(ctx context.Context, postID, column, value string) (bool, error) {
	return pullID[models.Post](ctx, r.db, postID, column, value)
}
