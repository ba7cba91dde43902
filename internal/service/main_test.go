package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	mr       *miniredis.Miniredis
	aside    *cache.Aside
	tokens   *auth.TokenService
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	likes    repository.LikeRepository
	follows  repository.FollowingRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), &config.Config{Env: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	aside := cache.NewAside(cache.NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), cache.DefaultTTL)
	t.Cleanup(func() { _ = aside.Close() })

	return &testEnv{
		db:       db,
		mr:       mr,
		aside:    aside,
		tokens:   auth.NewTokenService("access-secret", "refresh-secret", time.Hour, 24*time.Hour),
		users:    repository.NewUserRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		likes:    repository.NewLikeRepository(db),
		follows:  repository.NewFollowingRepository(db),
	}
}

func (e *testEnv) authService(m Mailer) *AuthService {
	return NewAuthService(e.users, e.tokens, m, e.aside, "http://localhost:3500/resetPassword")
}

func (e *testEnv) postService() *PostService {
	return NewPostService(e.posts, e.users, e.aside)
}

func (e *testEnv) commentService() *CommentService {
	return NewCommentService(e.comments, e.posts, e.aside)
}

func (e *testEnv) likeService() *LikeService {
	return NewLikeService(e.likes, e.posts, e.comments, e.aside)
}

func (e *testEnv) followingService() *FollowingService {
	return NewFollowingService(e.follows, e.users, e.aside)
}

func (e *testEnv) userService() *UserService {
	return NewUserService(e.users, e.aside)
}

// createUser inserts a user directly, skipping bcrypt.
func (e *testEnv) createUser(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "x", Role: role}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func assertAppError(t *testing.T, err error, status int) *models.AppError {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T: %v", err, err)
	assert.Equal(t, status, appErr.Status)
	return appErr
}
