package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"recipe_memo/internal/api"
	"recipe_memo/internal/app/service"
	"recipe_memo/internal/common/security"
	"recipe_memo/internal/domain/repository"
	"recipe_memo/internal/platform/config"
	"recipe_memo/internal/platform/database"
	"recipe_memo/internal/platform/logging"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Logger
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.IsProduction())
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "env", cfg.Env, "database", cfg.DatabasePath)
	if cfg.SecretKeyGenerated {
		logger.Warn("SECRET_KEY not set; using a random key, sessions will not survive a restart")
	}

	// 3. Open Database (runs schema migrations)
	store, err := database.Open(context.Background(), cfg.DatabasePath)
	if err != nil {
		logger.Error("could not open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	version, err := store.SchemaVersion(context.Background())
	if err != nil {
		logger.Error("could not read schema version", "error", err)
		os.Exit(1)
	}
	logger.Info("database ready", "path", cfg.DatabasePath, "schema_version", version)

	// 4. Initialize Sessions
	sessions := security.NewSessionManager(cfg.SecretKey, security.SessionOptions{
		Secure: cfg.IsProduction(),
		MaxAge: cfg.SessionMaxAge,
	})

	// 5. Initialize Services
	repos := repository.NewSQLiteFactory()
	authService := service.NewAuthService(repos)
	recipeService := service.NewRecipeService(repos)

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(api.Dependencies{
		AuthService:    authService,
		RecipeService:  recipeService,
		Sessions:       sessions,
		Store:          store,
		ClientBuildDir: cfg.ClientBuildDir,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("could not listen", "port", cfg.APIPort, "error", err)
			os.Exit(1)
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		return
	}

	logger.Info("server stopped gracefully")
}
