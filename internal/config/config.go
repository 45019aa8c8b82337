package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"superchat/internal/security"
)

type Config struct {
	AppName string
	Env     string
	Host    string
	Port    int

	// DBDriver selects the storage backend: "postgres" (default) or "sqlite".
	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins []string
	Debug       bool
}

func Load() (*Config, error) {
	dbHost := getEnv("POSTGRES_HOST", "localhost")
	dbPort := getEnv("POSTGRES_PORT", "5432")
	dbUser := getEnv("POSTGRES_USER", "postgres")
	dbPass := getEnv("POSTGRES_PASSWORD", "postgres")
	dbName := getEnv("POSTGRES_DB", "superchat")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbUser, dbPass),
		Host:     fmt.Sprintf("%s:%s", dbHost, dbPort),
		Path:     dbName,
		RawQuery: "sslmode=disable",
	}

	cfg := &Config{
		AppName: getEnv("APP_NAME", "SuperChat API"),
		Env:     getEnv("APP_ENV", "development"),
		Host:    getEnv("HTTP_HOST", "0.0.0.0"),
		Port:    getEnvAsInt("HTTP_PORT", 8000),

		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DatabaseURL: u.String(),
		SQLitePath:  getEnv("SQLITE_PATH", "superchat.db"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", int(security.TokenTTL.Hours()))) * time.Hour,

		Debug: getEnvAsBool("DEBUG", true),
	}

	cors := getEnv("CORS_ORIGINS", "")
	if cors != "" {
		parts := strings.Split(cors, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.CORSOrigins = parts
	} else {
		cfg.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	// Absence of the signing secret is a fatal configuration error, never a
	// user-facing one.
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvAsBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
