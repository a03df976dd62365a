package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabaseURL     string
	DatabasePath    string
	SessionDuration time.Duration
	StaticFilesPath string
	TemplatesPath   string
	MigrationsPath  string

	// PageSize is the number of rows shown on one list page
	PageSize int

	// CacheBackend and SessionBackend select "memory" or "redis"
	CacheBackend   string
	SessionBackend string
	RedisURL       string

	CSRFSecret  string
	TokenSecret string

	LogLevel  string
	LogFormat string
}

// defaults mirrors the environment variable names the server reads
var defaults = map[string]any{
	"PORT":             "8080",
	"DB_TYPE":          "sqlite",
	"DATABASE_URL":     "",
	"DB_PATH":          "./kindergarten.db",
	"SESSION_DURATION": "24h",
	"STATIC_PATH":      "./static",
	"TEMPLATES_PATH":   "./internal/templates",
	"MIGRATIONS_PATH":  "./migrations",
	"PAGE_SIZE":        10,
	"CACHE_BACKEND":    "memory",
	"SESSION_BACKEND":  "memory",
	"REDIS_URL":        "redis://localhost:6379/0",
	"CSRF_SECRET":      "change-me-csrf",
	"TOKEN_SECRET":     "change-me-token",
	"LOG_LEVEL":        "info",
	"LOG_FORMAT":       "json",
}

// Load reads configuration from environment variables with sensible defaults.
// If KINDERGARTEN_CONFIG names a file, its values sit between the defaults and the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	if file := v.GetString("KINDERGARTEN_CONFIG"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{
		ServerPort:      v.GetString("PORT"),
		DatabaseType:    strings.ToLower(v.GetString("DB_TYPE")),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		DatabasePath:    v.GetString("DB_PATH"),
		SessionDuration: v.GetDuration("SESSION_DURATION"),
		StaticFilesPath: v.GetString("STATIC_PATH"),
		TemplatesPath:   v.GetString("TEMPLATES_PATH"),
		MigrationsPath:  v.GetString("MIGRATIONS_PATH"),
		PageSize:        v.GetInt("PAGE_SIZE"),
		CacheBackend:    strings.ToLower(v.GetString("CACHE_BACKEND")),
		SessionBackend:  strings.ToLower(v.GetString("SESSION_BACKEND")),
		RedisURL:        v.GetString("REDIS_URL"),
		CSRFSecret:      v.GetString("CSRF_SECRET"),
		TokenSecret:     v.GetString("TOKEN_SECRET"),
		LogLevel:        strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:       strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.SessionDuration <= 0 {
		return fmt.Errorf("SESSION_DURATION must be positive, got %s", c.SessionDuration)
	}
	for name, backend := range map[string]string{"CACHE_BACKEND": c.CacheBackend, "SESSION_BACKEND": c.SessionBackend} {
		switch backend {
		case "memory", "redis":
		default:
			return fmt.Errorf("unsupported %s: %s", name, backend)
		}
	}
	switch c.DatabaseType {
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for %s", c.DatabaseType)
		}
	}
	return nil
}
