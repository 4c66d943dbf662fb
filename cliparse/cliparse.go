package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

// Config is built once at startup and passed by value to whatever needs it.
type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	SecretKey      string
	AccessTokenTTL time.Duration
	MagicLinkTTL   time.Duration

	// Magic-link requests allowed per client IP per minute
	MagicLinkRate int
	// Trust X-Forwarded-For / X-Real-IP for client IPs (behind a proxy only)
	TrustProxy bool

	Debug    bool
	BaseURL  string
	LogLevel string
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var accessMinutes, magicMinutes int

	fs := flag.NewFlagSet("forecast-club", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Public base URL used in magic links")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SecretKey, "secret", "", "Token signing secret (prefer env)")

	fs.IntVar(&accessMinutes, "access-ttl", 0, "Access token lifetime in minutes")
	fs.IntVar(&magicMinutes, "magic-ttl", 0, "Magic link lifetime in minutes")
	fs.IntVar(&cfg.MagicLinkRate, "magic-rate", 0, "Magic link requests per minute per IP")

	fs.BoolVar(&cfg.TrustProxy, "trust-proxy", envBool("TRUST_PROXY"), "Use forwarded headers for client IPs")
	fs.BoolVar(&cfg.Debug, "debug", envBool("DEBUG"), "Debug mode (logs magic links, permissive CORS)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var err error
	if cfg.Port == 0 {
		if cfg.Port, err = envInt("PORT", 8000); err != nil {
			return Config{}, err
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != DatabaseSQLite {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:forecast_club.db"
	}

	// Secrets - MUST be provided
	if cfg.SecretKey == "" {
		cfg.SecretKey = os.Getenv("SECRET_KEY")
	}
	if cfg.SecretKey == "" {
		return Config{}, errors.New("SECRET_KEY required")
	}

	if accessMinutes == 0 {
		if accessMinutes, err = envInt("ACCESS_TOKEN_EXPIRE_MINUTES", 10080); err != nil { // 7 days
			return Config{}, err
		}
	}
	if magicMinutes == 0 {
		if magicMinutes, err = envInt("MAGIC_LINK_EXPIRE_MINUTES", 15); err != nil {
			return Config{}, err
		}
	}
	if accessMinutes < 0 || magicMinutes < 0 {
		return Config{}, errors.New("token lifetimes must be positive")
	}
	cfg.AccessTokenTTL = time.Duration(accessMinutes) * time.Minute
	cfg.MagicLinkTTL = time.Duration(magicMinutes) * time.Minute

	if cfg.MagicLinkRate == 0 {
		if cfg.MagicLinkRate, err = envInt("MAGIC_LINK_RATE_PER_MINUTE", 5); err != nil {
			return Config{}, err
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:8000"
		}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
		if cfg.LogLevel == "" {
			cfg.LogLevel = "info"
		}
	}

	return cfg, nil
}

func envInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
