package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env            string // "development" or "production"
	ServerPort     string
	DatabaseType   string // sqlite, postgres, mysql
	DatabasePath   string // for sqlite
	DatabaseURL    string // for postgres/mysql
	MigrationsPath string

	// JWTSecret signs session tokens. Required; startup fails without it.
	JWTSecret     string
	TokenDuration time.Duration

	ResetTokenDuration time.Duration

	// Email (Amazon SES). Empty SESFromEmail disables sending.
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string
	EmailDebug   bool

	// OAuth sign-in
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectBase  string

	// Interval between reminder dispatch sweeps
	ReminderInterval time.Duration
}

// Load reads configuration from environment variables, with a .env file as a
// convenience for local development
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	return &Config{
		Env:            getEnv("APP_ENV", "development"),
		ServerPort:     getEnv("PORT", "3000"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./tasknest.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenDuration: 24 * time.Hour,

		ResetTokenDuration: 1 * time.Hour,

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "TaskNest"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:3000"),
		EmailDebug:   getEnv("EMAIL_DEBUG", "") == "true",

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBase:  getEnv("OAUTH_REDIRECT_BASE_URL", ""),

		ReminderInterval: getDurationEnv("REMINDER_INTERVAL", 1*time.Minute),
	}
}

// IsDevelopment reports whether the server runs in development mode.
// Development mode includes error detail in failure responses.
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv reads a duration environment variable or returns a default
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s: %v, using default", key, err)
		return defaultValue
	}
	return d
}
