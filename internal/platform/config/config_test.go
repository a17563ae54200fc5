package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_PORT", "8080")
	t.Setenv("APP_ENV", "development")
	t.Setenv("SECRET_KEY", "")
	t.Setenv("DATABASE", "recipe_memo.db")
	t.Setenv("CLIENT_BUILD_DIR", "client/dist")
	t.Setenv("SESSION_MAX_AGE_SECONDS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.APIPort)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "recipe_memo.db", cfg.DatabasePath)
	assert.Equal(t, "client/dist", cfg.ClientBuildDir)
	assert.Equal(t, 0, cfg.SessionMaxAge)
	assert.True(t, cfg.SecretKeyGenerated)
	assert.Len(t, cfg.SecretKey, 32)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SECRET_KEY", "s3cr3t")
	t.Setenv("DATABASE", "/var/lib/recipes.db")
	t.Setenv("CLIENT_BUILD_DIR", "/srv/dist")
	t.Setenv("SESSION_MAX_AGE_SECONDS", "3600")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "9000", cfg.APIPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []byte("s3cr3t"), cfg.SecretKey)
	assert.False(t, cfg.SecretKeyGenerated)
	assert.Equal(t, "/var/lib/recipes.db", cfg.DatabasePath)
	assert.Equal(t, "/srv/dist", cfg.ClientBuildDir)
	assert.Equal(t, 3600, cfg.SessionMaxAge)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestGetEnvAsInt_Invalid(t *testing.T) {
	t.Setenv("SESSION_MAX_AGE_SECONDS", "soon")
	assert.Equal(t, 42, getEnvAsInt("SESSION_MAX_AGE_SECONDS", 42))
}
