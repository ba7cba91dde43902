package repository

import (
	"context"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh migrated in-memory SQLite database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), &config.Config{Env: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for unit tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "hash"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func createPost(t *testing.T, db *gorm.DB, author *models.User) *models.Post {
	t.Helper()
	ctx := context.Background()
	p := &models.Post{AuthorID: author.ID, Text: "hello"}
	require.NoError(t, NewPostRepository(db).Create(ctx, p))
	_, err := NewUserRepository(db).PushID(ctx, author.ID, "posts", p.ID)
	require.NoError(t, err)
	return p
}

func createComment(t *testing.T, db *gorm.DB, author *models.User, parentID string, kind models.TargetKind) *models.Comment {
	t.Helper()
	ctx := context.Background()
	c := &models.Comment{AuthorID: author.ID, ParentID: parentID, ParentKind: kind, Text: "nice"}
	require.NoError(t, NewCommentRepository(db).Create(ctx, c))
	var err error
	if kind == models.TargetPost {
		_, err = NewPostRepository(db).PushID(ctx, parentID, "comments", c.ID)
	} else {
		_, err = NewCommentRepository(db).PushID(ctx, parentID, "replies", c.ID)
	}
	require.NoError(t, err)
	return c
}

func createLike(t *testing.T, db *gorm.DB, author *models.User, targetID string, kind models.TargetKind) *models.Like {
	t.Helper()
	ctx := context.Background()
	l := &models.Like{AuthorID: author.ID, TargetID: targetID, Kind: kind}
	require.NoError(t, NewLikeRepository(db).Create(ctx, l))
	var err error
	if kind == models.TargetPost {
		_, err = NewPostRepository(db).PushID(ctx, targetID, "likes", author.ID)
	} else {
		_, err = NewCommentRepository(db).PushID(ctx, targetID, "likes", author.ID)
	}
	require.NoError(t, err)
	return l
}
