package security

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// SessionCookieName is the cookie carrying the signed session.
	SessionCookieName = "recipe_memo_session"

	sessionValueUserID = "userid"
)

// ErrSessionNotFound is returned when a request carries no valid session.
var ErrSessionNotFound = errors.New("session not found")

// SessionOptions configures the session cookie.
type SessionOptions struct {
	// Secure sets the Secure cookie flag; on in production.
	Secure bool
	// MaxAge is the cookie Max-Age in seconds. Zero makes it a browser
	// session cookie.
	MaxAge int
}

// SessionManager keeps the caller's identity in a signed, HTTP-only cookie.
// Nothing is stored server side.
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager returns a SessionManager signing cookies with secret.
func NewSessionManager(secret []byte, opts SessionOptions) *SessionManager {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if opts.MaxAge > 0 {
		// Keep the signed timestamp check in step with the cookie lifetime.
		store.MaxAge(opts.MaxAge)
	}
	return &SessionManager{store: store}
}

// Start binds the response's session to userID.
func (m *SessionManager) Start(w http.ResponseWriter, r *http.Request, userID string) error {
	// A cookie that fails to decode still yields a usable fresh session.
	session, _ := m.store.Get(r, SessionCookieName)
	session.Values[sessionValueUserID] = userID
	return session.Save(r, w)
}

// UserID returns the identity carried by the request's session.
func (m *SessionManager) UserID(r *http.Request) (string, error) {
	session, err := m.store.Get(r, SessionCookieName)
	if err != nil || session.IsNew {
		return "", ErrSessionNotFound
	}
	userID, ok := session.Values[sessionValueUserID].(string)
	if !ok || userID == "" {
		return "", ErrSessionNotFound
	}
	return userID, nil
}

// End clears the session cookie whether or not one was present.
func (m *SessionManager) End(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, SessionCookieName)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
