package repository

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)
	GetByResetToken(ctx context.Context, hashedToken string, now time.Time) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) (*UserDeletion, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	PushID(ctx context.Context, userID, column, value string) (bool, error)
	PullID(ctx context.Context, userID, column, value string) (bool, error)
}

// UserDeletion lists what a user delete removed or touched, so callers can
// invalidate every affected view.
type UserDeletion struct {
	User       *models.User
	PostIDs    []string
	CommentIDs []string
	// Followed are the users the deleted user followed.
	Followed []string
	// Followers are the users that followed the deleted user.
	Followers []string
	// TouchedPosts and TouchedComments survive the delete but had a comment,
	// reply or like of the user pulled from their arrays.
	TouchedPosts    []models.Post
	TouchedComments []models.Comment
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return &user, nil
}

// findOne returns nil, nil when nothing matches.
func (r *userRepository) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.findOne(ctx, "refresh_token = ?", token)
}

func (r *userRepository) GetByResetToken(ctx context.Context, hashedToken string, now time.Time) (*models.User, error) {
	if hashedToken == "" {
		return nil, nil
	}
	return r.findOne(ctx, "password_reset_token = ? AND password_reset_expires > ?", hashedToken, now)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := validation.ValidateRefreshToken(user.RefreshToken); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Conflict. User already exists.")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := validation.ValidateRefreshToken(user.RefreshToken); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Resource with this username or email already exist")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if token, ok := fields["refresh_token"].(string); ok {
		if err := validation.ValidateRefreshToken(token); err != nil {
			return err
		}
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return models.NewConflictError("Resource with this username or email already exist")
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

// Delete removes the user with everything they authored: posts (with their
// comments and likes), comments (with their replies and likes), likes and
// follow edges. The user's id is pulled from the follow arrays of the other
// side of every edge.
func (r *userRepository) Delete(ctx context.Context, id string) (*UserDeletion, error) {
	out := &UserDeletion{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}
		out.User = &user

		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &out.PostIDs).Error; err != nil {
			return err
		}
		var authored []string
		if err := tx.Model(&models.Comment{}).Where("author_id = ?", id).Pluck("id", &authored).Error; err != nil {
			return err
		}

		// Comments under the user's posts and every reply below the user's comments.
		var roots []string
		if len(out.PostIDs) > 0 {
			if err := tx.Model(&models.Comment{}).
				Where("parent_id IN ? AND parent_kind = ?", out.PostIDs, models.TargetPost).
				Pluck("id", &roots).Error; err != nil {
				return err
			}
		}
		commentIDs, err := collectReplies(tx, append(roots, authored...))
		if err != nil {
			return err
		}
		out.CommentIDs = commentIDs

		touched := newTouchedSet()

		// Parents outside the deleted set still reference the removed comments.
		if err := detachComments(tx, commentIDs, touched); err != nil {
			return err
		}

		// Likes the user gave are stored as user ids in the liked entity.
		if err := pullLikesBy(tx, id, touched); err != nil {
			return err
		}

		targets := append(append([]string{}, out.PostIDs...), commentIDs...)
		if len(targets) > 0 {
			if err := tx.Where("target_id IN ?", targets).Delete(&models.Like{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("id IN ?", commentIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}

		out.Followed = append(out.Followed, user.Following...)
		out.Followers = append(out.Followers, user.Followers...)
		if err := pullFromAll[models.User](tx, out.Followed, "followers", id); err != nil {
			return err
		}
		if err := pullFromAll[models.User](tx, out.Followers, "following", id); err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.Following{}).Error; err != nil {
			return err
		}

		if err := touched.load(tx, out); err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return out, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("username ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) PushID(ctx context.Context, userID, column, value string) (bool, error) {
	return pushID[models.User](ctx, r.db, userID, column, value)
}

func (r *userRepository) PullID(ctx context.Context, userID, column, value string) (bool, error) {
	return pullID[models.User](ctx, r.db, userID, column, value)
}

// collectReplies expands ids with every reply below them, breadth first.
func collectReplies(tx *gorm.DB, ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	var out []string
	frontier := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
			frontier = append(frontier, id)
		}
	}
	for len(frontier) > 0 {
		var next []string
		if err := tx.Model(&models.Comment{}).
			Where("parent_id IN ? AND parent_kind = ?", frontier, models.TargetComment).
			Pluck("id", &next).Error; err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, id := range next {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
				frontier = append(frontier, id)
			}
		}
	}
	return out, nil
}

// touchedSet records the surviving parents whose arrays a user delete
// rewrote.
type touchedSet struct {
	posts    []string
	comments []string
	seen     map[string]bool
}

func newTouchedSet() *touchedSet {
	return &touchedSet{seen: map[string]bool{}}
}

func (t *touchedSet) post(id string) {
	if !t.seen[id] {
		t.seen[id] = true
		t.posts = append(t.posts, id)
	}
}

func (t *touchedSet) comment(id string) {
	if !t.seen[id] {
		t.seen[id] = true
		t.comments = append(t.comments, id)
	}
}

// load resolves the ids that still exist after the delete.
func (t *touchedSet) load(tx *gorm.DB, out *UserDeletion) error {
	if len(t.posts) > 0 {
		if err := tx.Select("id", "author_id").Where("id IN ?", t.posts).Find(&out.TouchedPosts).Error; err != nil {
			return err
		}
	}
	if len(t.comments) > 0 {
		if err := tx.Select("id", "parent_id", "parent_kind").Where("id IN ?", t.comments).Find(&out.TouchedComments).Error; err != nil {
			return err
		}
	}
	return nil
}

// detachComments pulls each comment id from its parent's array.
func detachComments(tx *gorm.DB, ids []string, touched *touchedSet) error {
	if len(ids) == 0 {
		return nil
	}
	var comments []models.Comment
	if err := tx.Select("id", "parent_id", "parent_kind").Where("id IN ?", ids).Find(&comments).Error; err != nil {
		return err
	}
	for _, c := range comments {
		var err error
		if c.IsReply() {
			err = pullFromAll[models.Comment](tx, []string{c.ParentID}, "replies", c.ID)
			touched.comment(c.ParentID)
		} else {
			err = pullFromAll[models.Post](tx, []string{c.ParentID}, "comments", c.ID)
			touched.post(c.ParentID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// pullLikesBy removes userID from the likes array of everything they liked.
func pullLikesBy(tx *gorm.DB, userID string, touched *touchedSet) error {
	var likes []models.Like
	if err := tx.Where("author_id = ?", userID).Find(&likes).Error; err != nil {
		return err
	}
	for _, l := range likes {
		var err error
		if l.Kind == models.TargetPost {
			err = pullFromAll[models.Post](tx, []string{l.TargetID}, "likes", userID)
			touched.post(l.TargetID)
		} else {
			err = pullFromAll[models.Comment](tx, []string{l.TargetID}, "likes", userID)
			touched.comment(l.TargetID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
