package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// AccountsApp（外部アカウントサービス）
	AccountsURL          string
	AccountsClientID     string
	AccountsClientSecret string
	SSORedirectURL       string

	// Session
	SessionMaxAge          int
	SessionCleanupInterval time.Duration

	// Logo fetch
	LogoFetchTimeout time.Duration
	LogoMaxSize      int64

	// Rate Limit（req/min/user）
	RateLimitGeneral  int
	RateLimitMutation int

	// Server
	ServerPort string
	BaseURL    string

	// App
	AppName    string
	AppVersion string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.AccountsURL = os.Getenv("ACCOUNTS_URL")
	if cfg.AccountsURL == "" {
		missing = append(missing, "ACCOUNTS_URL")
	}

	cfg.AccountsClientID = os.Getenv("ACCOUNTS_CLIENT_ID")
	if cfg.AccountsClientID == "" {
		missing = append(missing, "ACCOUNTS_CLIENT_ID")
	}

	cfg.AccountsClientSecret = os.Getenv("ACCOUNTS_CLIENT_SECRET")
	if cfg.AccountsClientSecret == "" {
		missing = append(missing, "ACCOUNTS_CLIENT_SECRET")
	}

	cfg.SSORedirectURL = os.Getenv("SSO_REDIRECT_URL")
	if cfg.SSORedirectURL == "" {
		missing = append(missing, "SSO_REDIRECT_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	if !strings.HasPrefix(cfg.AccountsURL, "http://") && !strings.HasPrefix(cfg.AccountsURL, "https://") {
		return nil, fmt.Errorf("ACCOUNTS_URL must be an http(s) URL: %s", cfg.AccountsURL)
	}

	// Optional fields with defaults
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.SessionCleanupInterval = getEnvDuration("SESSION_CLEANUP_INTERVAL", 1*time.Hour)
	cfg.LogoFetchTimeout = getEnvDuration("LOGO_FETCH_TIMEOUT", 5*time.Second)
	cfg.LogoMaxSize = getEnvInt64("LOGO_MAX_SIZE", 2097152)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitMutation = getEnvInt("RATE_LIMIT_MUTATION", 30)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8001")
	cfg.AppName = getEnvString("APP_NAME", "acadman")
	cfg.AppVersion = getEnvString("APP_VERSION", "dev")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
