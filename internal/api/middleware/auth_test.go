package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"recipe_memo/internal/common/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAPIPath(t *testing.T) {
	assert.True(t, IsAPIPath("/api"))
	assert.True(t, IsAPIPath("/api/recipes"))
	assert.True(t, IsAPIPath("/apiary"))
	assert.False(t, IsAPIPath("/recipes"))
}

func TestAuthenticator(t *testing.T) {
	sessions := security.NewSessionManager([]byte("0123456789abcdef0123456789abcdef"), security.SessionOptions{})

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := Authenticator(sessions)(next)

	t.Run("api path without session", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recipes", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"authentication required"}`, w.Body.String())
	})

	t.Run("page path without session", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recipes", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("with session", func(t *testing.T) {
		login := httptest.NewRecorder()
		require.NoError(t, sessions.Start(login, httptest.NewRequest(http.MethodPost, "/api/login", nil), "alice"))

		r := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
		for _, c := range login.Result().Cookies() {
			r.AddCookie(c)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "alice", seen)
	})
}
