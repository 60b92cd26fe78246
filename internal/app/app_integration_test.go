package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipfeed/internal/config"
	"clipfeed/internal/database"
	"clipfeed/internal/httputil"
)

// ============================================================================
// Test Configuration
// ============================================================================

// setupApp builds the real handler stack against TEST_DATABASE_URL.
// Redis and the object store stay disabled.
func setupApp(t *testing.T) *App {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	cfg := &config.Config{
		DatabaseURL:    dsn,
		DBMaxOpenConns: 4,
		SessionMaxAge:  3600,
		PresignTTL:     900,
	}

	ctx := context.Background()
	a, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	require.NoError(t, database.Migrate(ctx, a.DB))
	return a
}

func call(t *testing.T, h httputil.HandlerFunc, req httputil.Request, out interface{}) int {
	t.Helper()
	res := h(context.Background(), req)
	if out != nil && res.Body != "" {
		require.NoError(t, json.Unmarshal([]byte(res.Body), out), res.Body)
	}
	return res.StatusCode
}

func post(body string) httputil.Request {
	return httputil.Request{Method: http.MethodPost, Body: body}
}

// ============================================================================
// Auth Flow
// ============================================================================

func TestIntegration_AuthFlow(t *testing.T) {
	a := setupApp(t)
	auth := a.AuthHandler.Handle

	suffix := time.Now().UnixNano()
	username := fmt.Sprintf("it_user_%d", suffix)
	email := fmt.Sprintf("IT_%d@Example.com", suffix)

	var reg struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			ID     int64  `json:"id"`
			Email  string `json:"email"`
			Avatar string `json:"avatar"`
		} `json:"user"`
	}
	status := call(t, auth, post(fmt.Sprintf(`{"action":"register","username":%q,"email":%q,"password":"secret1"}`, username, email)), &reg)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, reg.Success)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, fmt.Sprintf("it_%d@example.com", suffix), reg.User.Email)

	// Same username again is a conflict
	var errBody httputil.ErrorResponse
	status = call(t, auth, post(fmt.Sprintf(`{"action":"register","username":%q,"email":"other_%d@example.com","password":"secret1"}`, username, suffix)), &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User with this email or username already exists", errBody.Error)

	// Over-long usernames are a client error
	status = call(t, auth, post(fmt.Sprintf(`{"action":"register","username":%q,"email":"long_%d@example.com","password":"secret1"}`,
		strings.Repeat("u", 51), suffix)), &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Username or email is too long", errBody.Error)

	// Two logins, two live sessions
	loginBody := fmt.Sprintf(`{"action":"login","email":%q,"password":"secret1"}`, email)
	var first, second struct {
		Token string `json:"token"`
	}
	require.Equal(t, http.StatusOK, call(t, auth, post(loginBody), &first))
	require.Equal(t, http.StatusOK, call(t, auth, post(loginBody), &second))
	assert.NotEqual(t, first.Token, second.Token)

	validate := func(token string) int {
		return call(t, auth, httputil.Request{Method: http.MethodGet, Query: map[string]string{"token": token}}, nil)
	}
	assert.Equal(t, http.StatusOK, validate(first.Token))
	assert.Equal(t, http.StatusOK, validate(second.Token))

	// Logout is idempotent and only ends one session
	logout := post(fmt.Sprintf(`{"action":"logout","token":%q}`, first.Token))
	assert.Equal(t, http.StatusOK, call(t, auth, logout, nil))
	assert.Equal(t, http.StatusOK, call(t, auth, logout, nil))
	assert.Equal(t, http.StatusUnauthorized, validate(first.Token))
	assert.Equal(t, http.StatusOK, validate(second.Token))

	// A session is dead at its expiry instant
	_, err := a.DB.Exec(`UPDATE sessions SET expires_at = NOW() WHERE token = $1`, second.Token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, validate(second.Token))
}

// ============================================================================
// Video Flow
// ============================================================================

func TestIntegration_VideoFlow(t *testing.T) {
	a := setupApp(t)
	auth := a.AuthHandler.Handle
	videos := a.VideoHandler.Handle

	suffix := time.Now().UnixNano()
	var reg struct {
		User struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	require.Equal(t, http.StatusOK, call(t, auth, post(fmt.Sprintf(
		`{"action":"register","username":"it_vid_%d","email":"it_vid_%d@example.com","password":"secret1"}`, suffix, suffix)), &reg))
	userID := reg.User.ID

	var up struct {
		VideoID int64 `json:"videoId"`
	}
	require.Equal(t, http.StatusOK, call(t, videos, post(fmt.Sprintf(
		`{"action":"upload","userId":%d,"videoUrl":"https://cdn.example.com/%d.mp4","description":"#it"}`, userID, suffix)), &up))
	require.NotZero(t, up.VideoID)

	like := post(fmt.Sprintf(`{"action":"like","userId":%d,"videoId":%d}`, userID, up.VideoID))
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, call(t, videos, like, nil))
	}
	require.Equal(t, http.StatusOK, call(t, videos, post(fmt.Sprintf(
		`{"action":"comment","userId":%d,"videoId":%d,"text":"first"}`, userID, up.VideoID)), nil))

	var counts struct {
		Likes    int64 `db:"likes_count"`
		Comments int64 `db:"comments_count"`
	}
	require.NoError(t, a.DB.Get(&counts, `SELECT likes_count, comments_count FROM videos WHERE id = $1`, up.VideoID))
	assert.Equal(t, int64(1), counts.Likes)
	assert.Equal(t, int64(1), counts.Comments)

	// Unknown video is a client error
	status := call(t, videos, post(fmt.Sprintf(`{"action":"like","userId":%d,"videoId":-1}`, userID)), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status = call(t, videos, post(fmt.Sprintf(`{"action":"comment","userId":%d,"videoId":999999999,"text":"x"}`, userID)), nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var feed struct {
		Videos []struct {
			ID    int64  `json:"id"`
			Likes string `json:"likes"`
			Music string `json:"music"`
		} `json:"videos"`
	}
	require.Equal(t, http.StatusOK, call(t, videos, httputil.Request{Method: http.MethodGet}, &feed))
	require.NotEmpty(t, feed.Videos)
	assert.LessOrEqual(t, len(feed.Videos), 20)
	assert.Equal(t, up.VideoID, feed.Videos[0].ID)
	assert.Equal(t, "1", feed.Videos[0].Likes)
	assert.Equal(t, "Original Sound", feed.Videos[0].Music)

	var trending struct {
		Hashtags []struct {
			Tag string `json:"tag"`
		} `json:"hashtags"`
	}
	require.Equal(t, http.StatusOK, call(t, videos, httputil.Request{Method: http.MethodGet, Query: map[string]string{"action": "trending"}}, &trending))
	assert.LessOrEqual(t, len(trending.Hashtags), 10)

	// Presign is off without R2 settings
	assert.Equal(t, http.StatusServiceUnavailable, call(t, videos, post(`{"action":"presign","userId":1,"contentType":"video/mp4"}`), nil))
}
