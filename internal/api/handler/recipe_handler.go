package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"recipe_memo/internal/api/middleware"
	"recipe_memo/internal/app/service"
	"recipe_memo/internal/common"
	"recipe_memo/internal/common/dbx"
	"recipe_memo/internal/common/security"

	"github.com/go-chi/chi/v5"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	sessions      *security.SessionManager
	store         ConnProvider
}

func NewRecipeHandler(rs *service.RecipeService, sessions *security.SessionManager, store ConnProvider) *RecipeHandler {
	return &RecipeHandler{recipeService: rs, sessions: sessions, store: store}
}

func (h *RecipeHandler) RegisterRoutes(r chi.Router) {
	// All recipe routes require a session. Paths that match no route still
	// fall through to the 404 handler.
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator(h.sessions))
		authed.Get("/", withStore(h.store, h.listRecipes))
		authed.Post("/", withStore(h.store, h.createRecipe))
		authed.Get("/{recipeID:[0-9]+}", withStore(h.store, h.getRecipe))
		authed.Put("/{recipeID:[0-9]+}", withStore(h.store, h.updateRecipe))
		authed.Delete("/{recipeID:[0-9]+}", withStore(h.store, h.deleteRecipe))
	})
}

func (h *RecipeHandler) listRecipes(w http.ResponseWriter, r *http.Request, db dbx.Conn) {
	recipes, err := h.recipeService.List(r.Context(), db)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) createRecipe(w http.ResponseWriter, r *http.Request, db dbx.Conn) {
	req, err := decodeRecipeRequest(r)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	recipe, err := h.recipeService.Create(r.Context(), db, req)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	slog.InfoContext(r.Context(), "recipe created", "id", recipe.ID, "userid", userID)
	common.RespondWithJSON(w, http.StatusCreated, recipe)
}

func (h *RecipeHandler) getRecipe(w http.ResponseWriter, r *http.Request, db dbx.Conn) {
	id, ok := recipeIDParam(w, r)
	if !ok {
		return
	}
	recipe, err := h.recipeService.Get(r.Context(), db, id)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) updateRecipe(w http.ResponseWriter, r *http.Request, db dbx.Conn) {
	id, ok := recipeIDParam(w, r)
	if !ok {
		return
	}
	req, err := decodeRecipeRequest(r)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	recipe, err := h.recipeService.Update(r.Context(), db, id, req)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) deleteRecipe(w http.ResponseWriter, r *http.Request, db dbx.Conn) {
	id, ok := recipeIDParam(w, r)
	if !ok {
		return
	}
	resp, err := h.recipeService.Delete(r.Context(), db, id)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	slog.InfoContext(r.Context(), "recipe deleted", "id", id, "userid", userID)
	common.RespondWithJSON(w, http.StatusOK, resp)
}

// recipeIDParam parses the id route segment. Ids too large for int64 are
// reported as unknown recipes.
func recipeIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "recipeID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusNotFound, "recipe not found")
		return 0, false
	}
	return id, true
}

// decodeRecipeRequest reads the recipe payload. A field of the wrong JSON
// type is rejected; a body that is missing or not JSON reads as {}.
func decodeRecipeRequest(r *http.Request) (service.RecipeRequest, error) {
	var req service.RecipeRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil:
		return req, nil
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return req, common.NewError(common.ErrBadRequest, typeErr.Field+" must be a string")
	case errors.As(err, &typeErr):
		return req, common.NewError(common.ErrBadRequest, invalidPayloadMessage)
	default:
		return service.RecipeRequest{}, nil
	}
}
