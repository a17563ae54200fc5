package middleware

import (
	"context"
	"net/http"
	"strings"
	"recipe_memo/internal/common"
	"recipe_memo/internal/common/security"
)

type contextKey string

const UserIDCtxKey contextKey = "userID"

// Authenticator resolves the caller from the session cookie. The identity
// is taken from the cookie as is; the store is not consulted. Without a
// session, API paths get a JSON 401 and page paths are sent to /login.
func Authenticator(sessions *security.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := sessions.UserID(r)
			if err != nil {
				if IsAPIPath(r.URL.Path) {
					common.RespondWithError(w, http.StatusUnauthorized, "authentication required")
					return
				}
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsAPIPath reports whether path belongs to the JSON API. Any path with
// the /api prefix counts, so /apiary is answered as a missing API route.
func IsAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api")
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}
