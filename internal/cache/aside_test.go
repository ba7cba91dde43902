package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type post struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func setupRedisAside(t *testing.T) (*Aside, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	a := NewAside(NewRedisStoreFromClient(client), DefaultTTL)
	t.Cleanup(func() { _ = a.Close() })
	return a, mr
}

// failingStore simulates an unreachable backend.
type failingStore struct{}

var errDown = errors.New("connection refused")

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errDown }
func (failingStore) SetEx(context.Context, string, time.Duration, []byte) error {
	return errDown
}
func (failingStore) Exists(context.Context, string) (bool, error) { return false, errDown }
func (failingStore) Del(context.Context, ...string) error         { return errDown }
func (failingStore) Ping(context.Context) error                   { return errDown }
func (failingStore) Close() error                                 { return nil }

func countingLoader(calls *int, v *post) func(context.Context) (*post, error) {
	return func(context.Context) (*post, error) {
		*calls++
		return v, nil
	}
}

func TestReadThrough_SecondReadIsHit(t *testing.T) {
	a, mr := setupRedisAside(t)
	ctx := context.Background()
	calls := 0
	load := countingLoader(&calls, &post{ID: "p1", Text: "hi"})

	first, err := ReadThrough(ctx, a, PostKey("p1"), models.NewNotFoundError("Post", "p1"), load)
	require.NoError(t, err)
	second, err := ReadThrough(ctx, a, PostKey("p1"), models.NewNotFoundError("Post", "p1"), load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("posts?id=p1"))
	assert.Equal(t, DefaultTTL, mr.TTL("posts?id=p1"))
}

func TestReadThrough_InvalidateThenReadIsFresh(t *testing.T) {
	a, _ := setupRedisAside(t)
	ctx := context.Background()
	missing := models.NewNotFoundError("Post", "p1")

	_, err := ReadThrough(ctx, a, PostKey("p1"), missing, func(context.Context) (*post, error) {
		return &post{ID: "p1", Text: "old"}, nil
	})
	require.NoError(t, err)

	require.NoError(t, a.Invalidate(ctx, PostKey("p1")))

	got, err := ReadThrough(ctx, a, PostKey("p1"), missing, func(context.Context) (*post, error) {
		return &post{ID: "p1", Text: "new"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Text)
}

func TestReadThrough_EntryExpiresAfterTTL(t *testing.T) {
	a, mr := setupRedisAside(t)
	ctx := context.Background()
	calls := 0
	load := countingLoader(&calls, &post{ID: "p1"})

	_, err := ReadThrough(ctx, a, PostKey("p1"), nil, load)
	require.NoError(t, err)
	mr.FastForward(DefaultTTL + time.Second)
	_, err = ReadThrough(ctx, a, PostKey("p1"), nil, load)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestReadThrough_EmptyResult(t *testing.T) {
	a, mr := setupRedisAside(t)
	ctx := context.Background()
	missing := models.NewNotFoundError("Post", "nope")

	_, err := ReadThrough(ctx, a, PostKey("nope"), missing, func(context.Context) (*post, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, missing)
	assert.False(t, mr.Exists("posts?id=nope"))

	_, err = ReadThrough(ctx, a, PostCommentsKey("p1"), missing, func(context.Context) ([]post, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, missing)

	list, err := ReadThrough(ctx, a, PostsKey, missing, func(context.Context) ([]post, error) {
		return []post{}, nil
	})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	raw, err := mr.Get(PostsKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestReadThrough_LoaderErrorIsReturned(t *testing.T) {
	a, mr := setupRedisAside(t)
	boom := errors.New("db down")

	_, err := ReadThrough(context.Background(), a, UsersKey, nil, func(context.Context) ([]post, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(UsersKey))
}

func TestReadThrough_BackendDownDegradesToLoader(t *testing.T) {
	a := NewAside(failingStore{}, DefaultTTL)
	ctx := context.Background()
	calls := 0
	load := countingLoader(&calls, &post{ID: "p1"})

	for i := 0; i < 3; i++ {
		got, err := ReadThrough(ctx, a, PostKey("p1"), nil, load)
		require.NoError(t, err)
		assert.Equal(t, "p1", got.ID)
	}
	assert.Equal(t, 3, calls)

	assert.Error(t, a.Invalidate(ctx, PostKey("p1")))
	assert.NotPanics(t, func() { a.InvalidateKeys(ctx, PostKey("p1"), PostsKey) })
}

func TestReadThrough_CorruptEntryIsMiss(t *testing.T) {
	a, mr := setupRedisAside(t)
	require.NoError(t, mr.Set("posts?id=p1", "{not json"))

	calls := 0
	got, err := ReadThrough(context.Background(), a, PostKey("p1"), nil, countingLoader(&calls, &post{ID: "p1", Text: "fresh"}))
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Text)
	assert.Equal(t, 1, calls)
}

func TestNilAsidePassesThrough(t *testing.T) {
	var a *Aside
	calls := 0
	got, err := ReadThrough(context.Background(), a, PostKey("p1"), nil, countingLoader(&calls, &post{ID: "p1"}))
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
	assert.NoError(t, a.Invalidate(context.Background(), PostKey("p1")))
	assert.Error(t, a.Ping(context.Background()))
}

func TestInvalidate_MissingKeyIsNoop(t *testing.T) {
	a, _ := setupRedisAside(t)
	assert.NoError(t, a.Invalidate(context.Background(), "posts?id=ghost"))
}

func TestInvalidateKeys_RemovesAll(t *testing.T) {
	a, mr := setupRedisAside(t)
	require.NoError(t, mr.Set(PostsKey, "[]"))
	require.NoError(t, mr.Set(UserPostsKey("u1"), "[]"))

	a.InvalidateKeys(context.Background(), PostsKey, UserPostsKey("u1"), UserKey("u1"))

	assert.False(t, mr.Exists(PostsKey))
	assert.False(t, mr.Exists("userPosts?profile=u1"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(8, 50*time.Millisecond)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.SetEx(ctx, "k", time.Minute, []byte("v")))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	ok, err := s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Del(ctx, "k"))
	ok, _ = s.Exists(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, s.SetEx(ctx, "short", time.Minute, []byte("v")))
	time.Sleep(80 * time.Millisecond)
	_, err = s.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStoreBacksAside(t *testing.T) {
	a := NewAside(NewMemoryStore(16, time.Minute), time.Minute)
	calls := 0
	load := countingLoader(&calls, &post{ID: "u1"})

	_, err := ReadThrough(context.Background(), a, UserKey("u1"), nil, load)
	require.NoError(t, err)
	_, err = ReadThrough(context.Background(), a, UserKey("u1"), nil, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, a.Ping(context.Background()))
}

func TestKeyNames(t *testing.T) {
	tests := map[string]string{
		PostKey("1"):                "posts?id=1",
		UserKey("1"):                "users?id=1",
		CommentKey("1"):             "comments?id=1",
		PostCommentsKey("1"):        "postComments?id=1",
		CommentRepliesKey("1"):      "commentReplies?id=1",
		TotalCommentRepliesKey("1"): "totalCommentReplies?id=1",
		LikesKey("1"):               "like?id=1",
		UserPostsKey("1"):           "userPosts?profile=1",
		FollowingKey("1"):           "following?id=1",
		FollowersKey("1"):           "followers?id=1",
	}
	for got, want := range tests {
		assert.Equal(t, want, got)
	}
}
