package api

import (
	"log/slog"
	"net/http"
	"time"
	"recipe_memo/internal/api/handler"
	"recipe_memo/internal/app/service"
	"recipe_memo/internal/common/security"
	"recipe_memo/internal/platform/logging"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Dependencies are what the router needs to build its handlers.
type Dependencies struct {
	AuthService    *service.AuthService
	RecipeService  *service.RecipeService
	Sessions       *security.SessionManager
	Store          handler.ConnProvider
	ClientBuildDir string
	Logger         *slog.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	if deps.Logger != nil {
		r.Use(chiMiddleware.RequestLogger(&chiMiddleware.DefaultLogFormatter{
			Logger:  logging.StdLogger(deps.Logger),
			NoColor: true,
		}))
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	spa := handler.NewSPAHandler(deps.ClientBuildDir)
	// Registered before any sub-router so /api inherits it.
	r.NotFound(spa.NotFound)

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Sessions, deps.Store)

	// Client pages
	r.Get("/", spa.ServeIndex)
	r.Get("/login", spa.ServeIndex)
	r.Get("/signup", spa.ServeIndex)
	r.Get("/logout", authHandler.LogoutPage)
	r.Get("/assets/*", spa.ServeAsset)
	r.Get("/favicon.ico", spa.ServeFavicon)

	r.Route("/api", func(api chi.Router) {
		// Auth routes (public)
		api.Group(authHandler.RegisterRoutes)

		// Recipe routes (authenticated)
		recipeHandler := handler.NewRecipeHandler(deps.RecipeService, deps.Sessions, deps.Store)
		api.Route("/recipes", recipeHandler.RegisterRoutes)
	})

	return r
}
