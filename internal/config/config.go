package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Auth
	JWTSecret   string
	AuthJWKSURL string // when set, bearer tokens are verified against this JWKS instead of the local secret
	DatabaseURL string // when set, user accounts persist in Postgres instead of process memory
	// Completion providers
	GroqAPIKey     string
	TogetherAPIKey string
	DefaultModel   string
	// Storage
	UploadDir string
	LogDir    string // when set, logs also go to a rotated file in this directory
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		AuthJWKSURL: getEnv("AUTH_JWKS_URL", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		// Completion providers
		GroqAPIKey:     getEnv("GROQ_API_KEY", ""),
		TogetherAPIKey: getEnv("TOGETHER_API_KEY", ""),
		DefaultModel:   getEnv("DEFAULT_MODEL", "gpt-4"),
		// Storage
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		LogDir:    getEnv("LOG_DIR", ""),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
