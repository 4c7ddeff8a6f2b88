package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall/pkg/auth"
	"github.com/studyhall/studyhall/pkg/contextkeys"
)

const filterTestSecret = "filter-test-secret-0123456789"

func filterHarness(t *testing.T, ttl time.Duration) (http.Handler, *auth.TokenCodec, *bool, *int64) {
	t.Helper()
	codec := auth.NewTokenCodec(filterTestSecret, ttl)

	var called bool
	var seenUserID int64
	handler := TokenFilter(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if id, ok := contextkeys.UserID(r.Context()); ok {
			seenUserID = id
		}
		w.WriteHeader(http.StatusOK)
	}))

	return handler, codec, &called, &seenUserID
}

func TestTokenFilter_NoHeaderPassesThrough(t *testing.T) {
	handler, _, called, seenUserID := filterHarness(t, time.Hour)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/quizzes", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *called)
	assert.Zero(t, *seenUserID, "no principal should be attached")
}

func TestTokenFilter_NonBearerSchemePassesThrough(t *testing.T) {
	handler, _, called, _ := filterHarness(t, time.Hour)

	req := httptest.NewRequest("GET", "/api/quizzes", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *called)
}

func TestTokenFilter_InvalidTokenRejectedBeforeDispatch(t *testing.T) {
	handler, _, called, _ := filterHarness(t, time.Hour)

	req := httptest.NewRequest("GET", "/api/quizzes", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *called, "handler must not run on an invalid token")
	assert.Contains(t, w.Body.String(), "invalid or expired token")
}

func TestTokenFilter_ExpiredTokenRejected(t *testing.T) {
	handler, codec, called, _ := filterHarness(t, -time.Minute)

	token, err := codec.Issue(42)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/quizzes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *called)
}

func TestTokenFilter_ValidTokenBindsUserID(t *testing.T) {
	handler, codec, called, seenUserID := filterHarness(t, time.Hour)

	token, err := codec.Issue(42)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/quizzes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *called)
	assert.Equal(t, int64(42), *seenUserID)
}

func TestTokenFilter_TrimsWhitespaceAfterPrefix(t *testing.T) {
	handler, codec, called, seenUserID := filterHarness(t, time.Hour)

	token, err := codec.Issue(7)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/quizzes", nil)
	req.Header.Set("Authorization", "Bearer   "+token+" ")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *called)
	assert.Equal(t, int64(7), *seenUserID)
}
