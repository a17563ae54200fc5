package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"recipe_memo/internal/app/service"
	"recipe_memo/internal/common"
	"recipe_memo/internal/common/dbx"
	"recipe_memo/internal/common/security"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
	sessions    *security.SessionManager
	store       ConnProvider
}

func NewAuthHandler(authService *service.AuthService, sessions *security.SessionManager, store ConnProvider) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, store: store}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", withStore(h.store, h.signup))
	r.Post("/login", withStore(h.store, h.login))
	r.Post("/logout", h.logout)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request, db dbx.Conn) {
	var req service.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !isEmptyBody(err) {
		common.RespondWithError(w, http.StatusBadRequest, invalidPayloadMessage)
		return
	}

	resp, err := h.authService.Signup(r.Context(), db, req)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "user signed up", "userid", resp.UserID, "role", resp.Role)
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, db dbx.Conn) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !isEmptyBody(err) {
		common.RespondWithError(w, http.StatusBadRequest, invalidPayloadMessage)
		return
	}
	resp, err := h.authService.Login(r.Context(), db, req)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	if err := h.sessions.Start(w, r, resp.UserID); err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(w, r); err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.StatusResponse{Status: "ok"})
}

// LogoutPage clears the session and sends the browser to the login page.
func (h *AuthHandler) LogoutPage(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(w, r); err != nil {
		slog.ErrorContext(r.Context(), "failed to clear session", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}
