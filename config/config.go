// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the service reads at startup
type Config struct {
	CatalogAPIURL string
	GameAPIURL    string
	UsersAPIURL   string

	ListenAddr   string
	DatabasePath string
	Env          string

	SearchDebounce   time.Duration
	SnapshotInterval time.Duration

	LogLevel  string
	LogFormat string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	SentryDSN    string
	CookieSecure bool
}

// Error reports an invalid or missing environment variable
type Error struct {
	Var string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Var, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// LoadDotEnv reads a .env file into the process environment. A missing file
// is reported to the caller, which usually just logs it.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// Load builds a Config from the process environment
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:   getenv("LISTEN_ADDR", ":8080"),
		DatabasePath: getenv("DATABASE_PATH", "catalogadmin.db"),
		Env:          getenv("APP_ENV", "development"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "json"),
		SentryDSN:    os.Getenv("SENTRY_DSN"),
	}

	var err error
	if cfg.CatalogAPIURL, err = baseURL("CATALOG_API_URL", true); err != nil {
		return nil, err
	}
	if cfg.GameAPIURL, err = baseURL("GAME_API_URL", false); err != nil {
		return nil, err
	}
	if cfg.UsersAPIURL, err = baseURL("USERS_API_URL", false); err != nil {
		return nil, err
	}
	if cfg.UsersAPIURL == "" {
		cfg.UsersAPIURL = cfg.CatalogAPIURL
	}

	if cfg.SearchDebounce, err = duration("SEARCH_DEBOUNCE", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.SnapshotInterval, err = duration("SNAPSHOT_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}

	if cfg.RateLimitEnabled, err = boolean("RATE_LIMIT_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = boolean("COOKIE_SECURE", false); err != nil {
		return nil, err
	}

	rps := getenv("RATE_LIMIT_RPS", "10")
	cfg.RateLimitRPS, err = strconv.ParseFloat(rps, 64)
	if err != nil || cfg.RateLimitRPS <= 0 {
		return nil, &Error{Var: "RATE_LIMIT_RPS", Err: fmt.Errorf("must be a positive number, got %q", rps)}
	}
	burst := getenv("RATE_LIMIT_BURST", "20")
	cfg.RateLimitBurst, err = strconv.Atoi(burst)
	if err != nil || cfg.RateLimitBurst <= 0 {
		return nil, &Error{Var: "RATE_LIMIT_BURST", Err: fmt.Errorf("must be a positive integer, got %q", burst)}
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, &Error{Var: "LOG_FORMAT", Err: fmt.Errorf("must be json or text, got %q", cfg.LogFormat)}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// baseURL validates an absolute http(s) URL and strips its trailing slash
func baseURL(key string, required bool) (string, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		if required {
			return "", &Error{Var: key, Err: fmt.Errorf("environment variable is required")}
		}
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", &Error{Var: key, Err: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &Error{Var: key, Err: fmt.Errorf("must be an absolute http(s) URL, got %q", raw)}
	}
	return strings.TrimRight(raw, "/"), nil
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &Error{Var: key, Err: err}
	}
	if d <= 0 {
		return 0, &Error{Var: key, Err: fmt.Errorf("must be positive, got %s", d)}
	}
	return d, nil
}

func boolean(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &Error{Var: key, Err: err}
	}
	return b, nil
}
