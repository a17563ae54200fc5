package config

import (
	"log"
	"os"
	"strconv"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
)

const EnvProduction = "production"

type Config struct {
	APIPort string
	Env     string

	// SecretKey signs session cookies. When SECRET_KEY is unset a random key
	// is generated and sessions do not survive a restart.
	SecretKey          []byte
	SecretKeyGenerated bool
	SessionMaxAge      int

	DatabasePath   string
	ClientBuildDir string

	LogLevel string
}

// IsProduction reports whether the production cookie and log settings apply.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		APIPort:        getEnv("API_PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		SessionMaxAge:  getEnvAsInt("SESSION_MAX_AGE_SECONDS", 0),
		DatabasePath:   getEnv("DATABASE", "recipe_memo.db"),
		ClientBuildDir: getEnv("CLIENT_BUILD_DIR", "client/dist"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if secret := getEnv("SECRET_KEY", ""); secret != "" {
		cfg.SecretKey = []byte(secret)
	} else {
		cfg.SecretKey = securecookie.GenerateRandomKey(32)
		cfg.SecretKeyGenerated = true
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
