package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testServer struct {
	*Server
	app *fiber.App
	db  *gorm.DB
	mr  *miniredis.Miniredis
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                "0",
		Env:                 "test",
		AccessTokenSecret:   "access-secret",
		RefreshTokenSecret:  "refresh-secret",
		AccessTokenTTLSecs:  3000,
		RefreshTokenTTLSecs: 86400,
		CacheTTLSecs:        20,
		ResetURLBase:        "http://localhost:3500/users/resetPassword",
	}
}

func setupServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	aside := cache.NewAside(cache.NewRedisStoreFromClient(rdb), cfg.CacheTTL())
	t.Cleanup(func() { _ = aside.Close() })

	s, err := NewServerWithDeps(cfg, db, aside, rdb, nil)
	require.NoError(t, err)
	return &testServer{Server: s, app: s.NewApp(), db: db, mr: mr}
}

type request struct {
	method  string
	path    string
	body    any
	token   string
	cookies []*http.Cookie
}

// do sends r through the app and decodes a JSON body into out when given.
func (ts *testServer) do(t *testing.T, r request, out any) *http.Response {
	t.Helper()
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		decodeBody(t, resp, out)
	}
	return resp
}

// register signs a user up over HTTP and returns the access token.
func (ts *testServer) register(t *testing.T, username string) string {
	t.Helper()
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	resp := ts.do(t, request{method: http.MethodPost, path: "/register", body: fiber.Map{
		"username":        username,
		"email":           username + "@example.com",
		"password":        "longpass1",
		"passwordConfirm": "longpass1",
	}}, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func (ts *testServer) userID(t *testing.T, username string) string {
	t.Helper()
	var u models.User
	require.NoError(t, ts.db.Where("username = ?", username).First(&u).Error)
	return u.ID
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
}
