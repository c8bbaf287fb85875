package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	Env        string `envconfig:"ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"debug"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	// Database
	DBHost    string `envconfig:"DB_HOST" required:"true"`
	DBPort    string `envconfig:"DB_PORT" required:"true"`
	DBUser    string `envconfig:"DB_USER" required:"true"`
	DBName    string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode string `envconfig:"DB_SSL_MODE" default:"disable"`
	// Secret field WITHOUT an envconfig tag
	DBPassword string

	// Redis (tokens, CSRF, narration cache)
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`
	// Secret field WITHOUT an envconfig tag
	RedisPassword string

	// JWT settings. Secret fields WITHOUT envconfig tags.
	JWTSecret       string
	PasswordPepper  string
	AccessTokenTTL  time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `envconfig:"JWT_REFRESH_TOKEN_TTL" default:"168h"` // 7 days

	// Password reset
	ResetTokenTTL time.Duration `envconfig:"RESET_TOKEN_TTL" default:"1h"`
	CSRFTokenTTL  time.Duration `envconfig:"CSRF_TOKEN_TTL" default:"12h"`

	// Narration provider (OpenAI-compatible chat completion endpoint)
	AIBaseURL     string        `envconfig:"AI_BASE_URL" default:"https://api.openai.com/v1"`
	AIModel       string        `envconfig:"AI_MODEL" default:"gpt-4o-mini"`
	AIMaxTokens   int           `envconfig:"AI_MAX_TOKENS" default:"1024"`
	AITemperature float64       `envconfig:"AI_TEMPERATURE" default:"0.7"`
	AITimeout     time.Duration `envconfig:"AI_TIMEOUT" default:"90s"`
	// Secret field WITHOUT an envconfig tag
	AIAPIKey string

	// Prompt assembly
	PromptTokenLimit int `envconfig:"PROMPT_TOKEN_LIMIT" default:"6000"`

	// SMTP (password reset mail)
	SMTPHost string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER" default:""`
	SMTPFrom string `envconfig:"SMTP_FROM" default:"noreply@localhost"`
	// Secret field WITHOUT an envconfig tag
	SMTPPassword string

	// Public base URL used in reset links
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`

	// CORS settings
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Rate limiting on auth endpoints
	AuthRateLimit  int           `envconfig:"AUTH_RATE_LIMIT" default:"10"`
	AuthRateWindow time.Duration `envconfig:"AUTH_RATE_WINDOW" default:"1m"`
}

// DatabaseURL builds the pgx connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// LoadConfig loads configuration from environment variables and secrets.
func LoadConfig(envFilePath string) (*Config, error) {
	if _, err := os.Stat(envFilePath); err == nil {
		if err = godotenv.Load(envFilePath); err != nil {
			log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
		} else {
			log.Printf("Loaded configuration from %s", envFilePath)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	// Required secrets
	var loadErr error
	cfg.DBPassword, loadErr = readSecret("db_password")
	if loadErr != nil {
		return nil, loadErr
	}

	cfg.JWTSecret, loadErr = readSecret("jwt_secret")
	if loadErr != nil {
		return nil, loadErr
	}

	cfg.PasswordPepper, loadErr = readSecret("password_pepper")
	if loadErr != nil {
		return nil, loadErr
	}

	cfg.AIAPIKey, loadErr = readSecret("ai_api_key")
	if loadErr != nil {
		return nil, loadErr
	}

	// Optional secrets
	if redisPass, err := readSecret("redis_password"); err == nil {
		cfg.RedisPassword = redisPass
		log.Println("Redis password loaded from secret.")
	} else {
		log.Printf("Optional secret 'redis_password' not found: %v. Assuming no password.", err)
	}

	if smtpPass, err := readSecret("smtp_password"); err == nil {
		cfg.SMTPPassword = smtpPass
	} else {
		log.Printf("Optional secret 'smtp_password' not found: %v. Assuming unauthenticated SMTP.", err)
	}

	log.Println("Configuration loaded successfully (secrets read from files).")
	return &cfg, nil
}
