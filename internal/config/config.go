package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mrlokans/readreviews/internal/apperrors"
)

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		Auth
		Ratings
		RatingsSync
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		URL string // sqlite path, file: DSN or postgres:// URL
	}
	UI struct {
		TemplatesPath string // Empty means use the embedded templates
		StaticPath    string // Empty means use the embedded static files
	}
	Auth struct {
		SessionSecret     string
		SessionLifetime   time.Duration
		BcryptCost        int
		MinPasswordLength int
		SecureCookies     bool // Set to false for local dev without HTTPS
		RememberMeEnabled bool // Honour the "keep me logged in" checkbox with a persistent cookie

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
	Ratings struct {
		Enabled     bool
		APIKey      string
		BaseURL     string
		Timeout     time.Duration // Bound on every external call
		Concurrency int           // Max in-flight calls when enriching a page of books
	}
	RatingsSync struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

// firstNonEmpty returns the value of the first key that is set, so legacy
// variable names keep working.
func firstNonEmpty(v *viper.Viper, keys ...string) string {
	for _, key := range keys {
		if value := v.GetString(key); value != "" {
			return value
		}
	}
	return ""
}

// NewConfig loads configuration from the environment. A .env file in the
// working directory is read first when present; real environment variables win.
func NewConfig() *Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "")

	// Auth defaults
	v.SetDefault("auth_session_secret", "")       // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")  // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)          // bcrypt cost factor
	v.SetDefault("auth_min_password_length", 8)   // Minimum password length
	v.SetDefault("auth_secure_cookies", true)     // HTTPS-only cookies
	v.SetDefault("auth_remember_me_enabled", true)
	v.SetDefault("auth_max_login_attempts", 5)    // Max failed attempts
	v.SetDefault("auth_rate_limit_window", "15m") // Window for counting attempts
	v.SetDefault("auth_lockout_duration", "30m")  // Lockout duration

	// Ratings defaults
	v.SetDefault("ratings_enabled", true)
	v.SetDefault("ratings_base_url", "https://www.goodreads.com")
	v.SetDefault("ratings_timeout", "5s")
	v.SetDefault("ratings_concurrency", 4)
	v.SetDefault("ratings_sync_enabled", false)
	v.SetDefault("ratings_sync_schedule", "0 3 * * *") // Daily at 03:00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			URL: firstNonEmpty(v, "DATABASE_URL", "DB_URI"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Auth: Auth{
			SessionSecret:     v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:   v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:        v.GetInt("AUTH_BCRYPT_COST"),
			MinPasswordLength: v.GetInt("AUTH_MIN_PASSWORD_LENGTH"),
			SecureCookies:     v.GetBool("AUTH_SECURE_COOKIES"),
			RememberMeEnabled: v.GetBool("AUTH_REMEMBER_ME_ENABLED"),
			MaxLoginAttempts:  v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:   v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:   v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Ratings: Ratings{
			Enabled:     v.GetBool("RATINGS_ENABLED"),
			APIKey:      firstNonEmpty(v, "RATINGS_API_KEY", "DEV_KEY"),
			BaseURL:     v.GetString("RATINGS_BASE_URL"),
			Timeout:     v.GetDuration("RATINGS_TIMEOUT"),
			Concurrency: v.GetInt("RATINGS_CONCURRENCY"),
		},
		RatingsSync: RatingsSync{
			Enabled:  v.GetBool("RATINGS_SYNC_ENABLED"),
			Schedule: v.GetString("RATINGS_SYNC_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}

// Validate checks that every required setting is present. The returned error
// wraps apperrors.ErrConfig and names all missing variables at once.
func (c *Config) Validate() error {
	var missing []string

	if strings.TrimSpace(c.Database.URL) == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Ratings.Enabled && strings.TrimSpace(c.Ratings.APIKey) == "" {
		missing = append(missing, "RATINGS_API_KEY (or DEV_KEY; set RATINGS_ENABLED=false to run without ratings)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required environment variables: %s",
			apperrors.ErrConfig, strings.Join(missing, ", "))
	}

	if c.RatingsSync.Enabled && !c.Ratings.Enabled {
		return fmt.Errorf("%w: RATINGS_SYNC_ENABLED requires RATINGS_ENABLED", apperrors.ErrConfig)
	}
	if c.RatingsSync.Enabled && !c.Tasks.Enabled {
		return fmt.Errorf("%w: RATINGS_SYNC_ENABLED requires TASKS_ENABLED", apperrors.ErrConfig)
	}

	return nil
}
