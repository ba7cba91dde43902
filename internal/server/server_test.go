package server

import (
	"net/http"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type successBody struct {
	Success string `json:"success"`
	ID      string `json:"id"`
}

func TestPostLifecycle(t *testing.T) {
	ts := setupServer(t, testConfig())
	token := ts.register(t, "alice1")

	var created successBody
	resp := ts.do(t, request{method: http.MethodPost, path: "/posts", token: token,
		body: fiber.Map{"text": "hello world"}}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "alice1 just made a post", created.Success)
	require.NotEmpty(t, created.ID)

	var posts []models.Post
	resp = ts.do(t, request{method: http.MethodGet, path: "/posts", token: token}, &posts)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, posts, 1)
	assert.Equal(t, created.ID, posts[0].ID)
	assert.True(t, ts.mr.Exists(cache.PostsKey))

	var post models.Post
	resp = ts.do(t, request{method: http.MethodGet, path: "/posts/" + created.ID, token: token}, &post)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello world", post.Text)

	var mine []models.Post
	resp = ts.do(t, request{method: http.MethodGet, path: "/posts/user", token: token}, &mine)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, mine, 1)

	var notOwner models.ErrorResponse
	resp = ts.do(t, request{method: http.MethodDelete, path: "/posts/" + created.ID, token: ts.register(t, "bob1")}, &notOwner)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "You can only delete your own posts", notOwner.Message)

	var deleted successBody
	resp = ts.do(t, request{method: http.MethodDelete, path: "/posts/" + created.ID, token: token}, &deleted)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Post with ID "+created.ID+" has been deleted.", deleted.Success)
	assert.False(t, ts.mr.Exists(cache.PostKey(created.ID)))

	var errBody models.ErrorResponse
	resp = ts.do(t, request{method: http.MethodGet, path: "/posts/" + created.ID, token: token}, &errBody)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, http.StatusNotFound, errBody.StatusCode)
}

func TestRegister(t *testing.T) {
	ts := setupServer(t, testConfig())
	ts.register(t, "alice1")

	t.Run("duplicate username", func(t *testing.T) {
		var errBody models.ErrorResponse
		resp := ts.do(t, request{method: http.MethodPost, path: "/register", body: fiber.Map{
			"username": "alice1", "email": "other@example.com",
			"password": "longpass1", "passwordConfirm": "longpass1",
		}}, &errBody)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "Conflict. User already exists.", errBody.Message)
	})

	t.Run("password mismatch", func(t *testing.T) {
		var errBody models.ErrorResponse
		resp := ts.do(t, request{method: http.MethodPost, path: "/register", body: fiber.Map{
			"username": "bob1", "email": "bob1@example.com",
			"password": "longpass1", "passwordConfirm": "longpass2",
		}}, &errBody)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, errBody.Message, "Password do not match")
		assert.Equal(t, "VALIDATION_ERROR", errBody.Code)
	})

	t.Run("role in body is ignored", func(t *testing.T) {
		resp := ts.do(t, request{method: http.MethodPost, path: "/register", body: fiber.Map{
			"username": "dave1", "email": "dave1@example.com",
			"password": "longpass1", "passwordConfirm": "longpass1", "role": "admin",
		}}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var u models.User
		require.NoError(t, ts.db.Where("username = ?", "dave1").First(&u).Error)
		assert.Equal(t, models.RoleUser, u.Role)
	})

	t.Run("incomplete form", func(t *testing.T) {
		var errBody models.ErrorResponse
		resp := ts.do(t, request{method: http.MethodPost, path: "/register",
			body: fiber.Map{"username": "carol1"}}, &errBody)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Form is incomplete.", errBody.Message)
	})
}

func TestLoginRefreshLogout(t *testing.T) {
	ts := setupServer(t, testConfig())
	ts.register(t, "alice1")

	var errBody models.ErrorResponse
	resp := ts.do(t, request{method: http.MethodPost, path: "/login",
		body: fiber.Map{"username": "alice1", "password": "wrongpass"}}, &errBody)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	wrongPassword := errBody.Message

	resp = ts.do(t, request{method: http.MethodPost, path: "/login",
		body: fiber.Map{"username": "nobody", "password": "wrongpass"}}, &errBody)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, wrongPassword, errBody.Message)

	var login struct {
		AccessToken string `json:"accessToken"`
	}
	resp = ts.do(t, request{method: http.MethodPost, path: "/login",
		body: fiber.Map{"username": "alice1", "password": "longpass1"}}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, login.AccessToken)
	jwtCookie := cookieByName(resp, refreshCookie)
	require.NotNil(t, jwtCookie)
	assert.True(t, jwtCookie.HttpOnly)
	assert.Equal(t, refreshCookieMaxAge, jwtCookie.MaxAge)

	var refreshed struct {
		AccessToken string `json:"accessToken"`
	}
	resp = ts.do(t, request{method: http.MethodGet, path: "/refresh",
		cookies: []*http.Cookie{{Name: refreshCookie, Value: jwtCookie.Value}}}, &refreshed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, refreshed.AccessToken)

	resp = ts.do(t, request{method: http.MethodGet, path: "/refresh"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ts.do(t, request{method: http.MethodGet, path: "/logout",
		cookies: []*http.Cookie{{Name: refreshCookie, Value: jwtCookie.Value}}}, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ts.do(t, request{method: http.MethodGet, path: "/refresh",
		cookies: []*http.Cookie{{Name: refreshCookie, Value: jwtCookie.Value}}}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, request{method: http.MethodGet, path: "/logout"}, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestVerify(t *testing.T) {
	ts := setupServer(t, testConfig())

	var errBody models.ErrorResponse
	resp := ts.do(t, request{method: http.MethodGet, path: "/posts"}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized", errBody.Message)

	resp = ts.do(t, request{method: http.MethodGet, path: "/posts", token: "not-a-jwt"}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token, Please login.", errBody.Message)
}

func TestLikeTwiceIsConflict(t *testing.T) {
	ts := setupServer(t, testConfig())
	token := ts.register(t, "alice1")

	var created successBody
	ts.do(t, request{method: http.MethodPost, path: "/posts", token: token,
		body: fiber.Map{"text": "hello"}}, &created)

	var liked successBody
	resp := ts.do(t, request{method: http.MethodPost, path: "/likes", token: token,
		body: fiber.Map{"postId": created.ID}}, &liked)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "alice1 just liked a post", liked.Success)

	var errBody models.ErrorResponse
	resp = ts.do(t, request{method: http.MethodPost, path: "/likes", token: token,
		body: fiber.Map{"postId": created.ID}}, &errBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "You can't like twice", errBody.Message)

	var rows int64
	require.NoError(t, ts.db.Model(&models.Like{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	var count struct {
		Likes int64 `json:"likes"`
	}
	resp = ts.do(t, request{method: http.MethodGet, path: "/likes/" + created.ID, token: token}, &count)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), count.Likes)

	resp = ts.do(t, request{method: http.MethodDelete, path: "/likes", token: token,
		body: fiber.Map{"likeId": liked.ID}}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCommentsAndReplyLikes(t *testing.T) {
	ts := setupServer(t, testConfig())
	alice := ts.register(t, "alice1")
	bob := ts.register(t, "bob1")

	var post, comment, reply successBody
	ts.do(t, request{method: http.MethodPost, path: "/posts", token: alice,
		body: fiber.Map{"text": "hello"}}, &post)

	resp := ts.do(t, request{method: http.MethodPost, path: "/comments", token: bob,
		body: fiber.Map{"postId": post.ID, "text": "nice"}}, &comment)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "bob1 just commented on a post", comment.Success)

	resp = ts.do(t, request{method: http.MethodPost, path: "/comments/replies", token: alice,
		body: fiber.Map{"postId": comment.ID, "text": "thanks"}}, &reply)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "alice1 just replied a comment", reply.Success)

	var total struct {
		Replies int `json:"replies"`
	}
	ts.do(t, request{method: http.MethodGet, path: "/comments/replies/" + comment.ID + "/total", token: bob}, &total)
	assert.Equal(t, 1, total.Replies)

	var comments []models.Comment
	resp = ts.do(t, request{method: http.MethodGet, path: "/posts/comments/" + post.ID, token: bob}, &comments)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, comments, 1)

	var liked successBody
	resp = ts.do(t, request{method: http.MethodPost, path: "/comments/reply/likes", token: bob,
		body: fiber.Map{"postId": reply.ID}}, &liked)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "bob1 just liked a reply", liked.Success)

	var errBody models.ErrorResponse
	resp = ts.do(t, request{method: http.MethodDelete, path: "/comments/" + comment.ID, token: alice}, &errBody)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var deleted successBody
	resp = ts.do(t, request{method: http.MethodDelete, path: "/comments/replies/" + reply.ID, token: alice}, &deleted)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Reply deleted sucessfully", deleted.Success)
}

func TestFollowing(t *testing.T) {
	ts := setupServer(t, testConfig())
	alice := ts.register(t, "alice1")
	ts.register(t, "bob1")
	aliceID := ts.userID(t, "alice1")
	bobID := ts.userID(t, "bob1")

	var followed successBody
	resp := ts.do(t, request{method: http.MethodPost, path: "/following", token: alice,
		body: fiber.Map{"followingId": bobID}}, &followed)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "alice1 just followed "+bobID, followed.Success)

	var errBody models.ErrorResponse
	resp = ts.do(t, request{method: http.MethodPost, path: "/following", token: alice,
		body: fiber.Map{"followingId": bobID}}, &errBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = ts.do(t, request{method: http.MethodPost, path: "/following", token: alice,
		body: fiber.Map{"followingId": aliceID}}, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var followers []models.Following
	resp = ts.do(t, request{method: http.MethodGet, path: "/following/" + bobID + "/followers", token: alice}, &followers)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, followers, 1)
	assert.Equal(t, aliceID, followers[0].FollowerID)

	var unfollowed successBody
	resp = ts.do(t, request{method: http.MethodDelete, path: "/following/" + followed.ID, token: alice}, &unfollowed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice1 just unfollowed "+bobID, unfollowed.Success)
}

func TestUsers(t *testing.T) {
	ts := setupServer(t, testConfig())
	alice := ts.register(t, "alice1")
	bob := ts.register(t, "bob1")
	bobID := ts.userID(t, "bob1")

	var errBody models.ErrorResponse
	resp := ts.do(t, request{method: http.MethodPut, path: "/users/updateMe", token: alice,
		body: fiber.Map{"username": "bob1"}}, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username already exist", errBody.Message)

	resp = ts.do(t, request{method: http.MethodDelete, path: "/users/" + bobID, token: alice}, &errBody)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "You do not have permission to perform this action", errBody.Message)

	require.NoError(t, ts.db.Model(&models.User{}).Where("username = ?", "alice1").
		Update("role", models.RoleAdmin).Error)

	var deleted successBody
	resp = ts.do(t, request{method: http.MethodDelete, path: "/users/" + bobID, token: alice}, &deleted)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User with ID "+bobID+" has been deleted.", deleted.Success)

	resp = ts.do(t, request{method: http.MethodGet, path: "/posts", token: bob}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := setupServer(t, testConfig())

	resp := ts.do(t, request{method: http.MethodGet, path: "/health/live"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var ready struct {
		Status       string `json:"status"`
		CacheBackend string `json:"cacheBackend"`
	}
	resp = ts.do(t, request{method: http.MethodGet, path: "/health/ready"}, &ready)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", ready.Status)
	assert.Equal(t, "redis", ready.CacheBackend)

	ts.mr.Close()
	resp = ts.do(t, request{method: http.MethodGet, path: "/health/ready"}, &ready)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
