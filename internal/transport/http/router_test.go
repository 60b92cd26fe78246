package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipfeed/internal/httputil"
)

func recordingHandler(got *httputil.Request) httputil.HandlerFunc {
	return func(ctx context.Context, req httputil.Request) httputil.Response {
		*got = req
		return httputil.JSON(http.StatusOK, map[string]bool{"success": true})
	}
}

func TestRouter_Health(t *testing.T) {
	var got httputil.Request
	r := NewRouter(RouterConfig{Auth: recordingHandler(&got), Video: recordingHandler(&got)})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_AdaptsRequests(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantMethod string
		wantQuery  map[string]string
	}{
		{"auth validate", http.MethodGet, "/auth?token=abc", "", "GET", map[string]string{"token": "abc"}},
		{"auth sub path", http.MethodPost, "/auth/login", `{"action":"login"}`, "POST", map[string]string{}},
		{"video feed", http.MethodGet, "/videos?action=trending&action=feed", "", "GET", map[string]string{"action": "trending"}},
		{"video preflight", http.MethodOptions, "/videos", "", "OPTIONS", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got httputil.Request
			r := NewRouter(RouterConfig{Auth: recordingHandler(&got), Video: recordingHandler(&got)})

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantMethod, got.Method)
			assert.Equal(t, tt.body, got.Body)
			assert.Equal(t, tt.wantQuery, got.Query)
			assert.Equal(t, "application/json", got.Headers["Content-Type"])
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestAdapt_WritesEnvelope(t *testing.T) {
	h := Adapt(func(ctx context.Context, req httputil.Request) httputil.Response {
		return httputil.Error(http.StatusMethodNotAllowed, "Method not allowed")
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPut, "/videos", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Method not allowed"}`, rec.Body.String())
}
