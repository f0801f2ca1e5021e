package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	OpenAITimeout time.Duration

	// Completion parameters for /ai/analyze and /ai/chat.
	Temperature float32
	MaxTokens   int

	JWTSecret      string
	AccessTokenTTL time.Duration
	AuthRequired   bool

	// Single configured user for the token endpoint. Users are not persisted.
	AuthUsername     string
	AuthEmail        string
	AuthFullName     string
	AuthPasswordHash string
	AuthDisabled     bool

	AllowedOrigins []string

	// Analytics sink. Empty disables event recording.
	DatabaseURL string

	// Caps concurrently accepted connections. Zero means unlimited.
	MaxConnections int
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	// .env is optional; real env vars win over its values.
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAITimeout: getEnvAsDuration("OPENAI_TIMEOUT", 60*time.Second),

		Temperature: getEnvAsFloat("AI_TEMPERATURE", 0.7),
		MaxTokens:   getEnvAsInt("AI_MAX_TOKENS", 500),

		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-keep-it-safe"),
		AccessTokenTTL: getEnvAsDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		AuthRequired:   getEnvAsBool("AUTH_REQUIRED", false),

		AuthUsername:     getEnv("AUTH_USERNAME", ""),
		AuthEmail:        getEnv("AUTH_EMAIL", ""),
		AuthFullName:     getEnv("AUTH_FULL_NAME", ""),
		AuthPasswordHash: getEnv("AUTH_PASSWORD_HASH", ""),
		AuthDisabled:     getEnvAsBool("AUTH_DISABLED", false),

		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		MaxConnections: getEnvAsInt("MAX_CONNECTIONS", 0),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.OpenAIKey) == "" {
		errs = append(errs, errors.New("config: OPENAI_API_KEY is required"))
	}
	if c.AuthRequired && strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("config: JWT_SECRET is required when AUTH_REQUIRED is set"))
	}
	if c.MaxTokens < 0 {
		errs = append(errs, errors.New("config: AI_MAX_TOKENS must not be negative"))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
