package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultBcryptCost is the work factor used for stored password hashes.
	DefaultBcryptCost = 12
	// DefaultMinPasswordLength is the shortest password registration accepts.
	DefaultMinPasswordLength = 12

	defaultBrevoAPIURL      = "https://api.brevo.com/v3/contacts/doubleOptinConfirmation"
	defaultBrevoRedirectURL = "https://yourdomain.org/thanks"
)

// ErrMissingAuthSecret is returned by Load when AUTH_SECRET is unset.
var ErrMissingAuthSecret = errors.New("AUTH_SECRET is required to sign sessions")

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Newsletter   NewsletterConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	PostsTTLSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication and registration parameters.
type AuthConfig struct {
	Secret                string
	AccessTokenTTLMinutes int
	BcryptCost            int
	MinPasswordLength     int
	InviteCode            string
	AdminEmails           []string
}

// NewsletterConfig holds the Brevo double opt-in settings.
type NewsletterConfig struct {
	APIKey         string
	APIURL         string
	ListID         int
	TemplateID     int
	RedirectURL    string
	TimeoutSeconds int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	listID, err := strconv.Atoi(getEnv("BREVO_LIST_ID", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid BREVO_LIST_ID: %w", err)
	}
	templateID, err := strconv.Atoi(getEnv("BREVO_DOI_TEMPLATE_ID", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid BREVO_DOI_TEMPLATE_ID: %w", err)
	}

	secret := os.Getenv("AUTH_SECRET")
	if secret == "" {
		return nil, ErrMissingAuthSecret
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "titan-observatory"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			PostsTTLSeconds: getEnvAsInt("REDIS_POSTS_TTL_SECONDS", 60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			Secret:                secret,
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60*24*30),
			BcryptCost:            DefaultBcryptCost,
			MinPasswordLength:     DefaultMinPasswordLength,
			InviteCode:            strings.TrimSpace(os.Getenv("REGISTER_INVITE_CODE")),
			AdminEmails:           splitList(os.Getenv("ADMIN_EMAILS")),
		},
		Newsletter: NewsletterConfig{
			APIKey:         os.Getenv("BREVO_API_KEY"),
			APIURL:         getEnv("BREVO_API_URL", defaultBrevoAPIURL),
			ListID:         listID,
			TemplateID:     templateID,
			RedirectURL:    getEnv("BREVO_DOI_REDIRECT_URL", defaultBrevoRedirectURL),
			TimeoutSeconds: getEnvAsInt("BREVO_TIMEOUT_SECONDS", 10),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// PostsTTL returns how long the cached post list stays valid.
func (r RedisConfig) PostsTTL() time.Duration {
	if r.PostsTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(r.PostsTTLSeconds) * time.Second
}

// Timeout returns the upstream request timeout for Brevo calls.
func (n NewsletterConfig) Timeout() time.Duration {
	if n.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(n.TimeoutSeconds) * time.Second
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
