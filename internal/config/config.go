/**
 * @description
 * Configuration loader for the pricing backend.
 * Reads environment variables (optionally from .env), applies defaults and validates.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files
 *
 * @notes
 * - Fails fast if DATABASE_URL is missing (LoadWorker needs only REDIS_URL).
 * - Per-view default filter tokens live here so deployments can change them without a rebuild.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Dashboard DashboardConfig
	Refresh   RefreshConfig
	Archive   ArchiveConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
	Env  string // "development", "staging", "production" or "test"
}

// DBConfig holds PostgreSQL settings
type DBConfig struct {
	URL string
}

// RedisConfig holds Redis settings. An empty URL disables Redis-backed features.
type RedisConfig struct {
	URL string
}

// AuthConfig holds login/session settings
type AuthConfig struct {
	JWTSecret       string
	JWKSURL         string // optional external issuer; takes precedence over JWTSecret for validation
	TokenTTL        time.Duration
	AllowedProjects []string
}

// DashboardConfig holds the per-view default filters
type DashboardConfig struct {
	DefaultTablePermit  string // "" selects every site
	DefaultGraphPermit  string
	DefaultCostTerminal string
	MapCentersFile      string // optional JSON file of city -> {lat, lon}
}

// RefreshConfig controls snapshot reloads
type RefreshConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// ArchiveConfig holds the local SQLite snapshot archive location
type ArchiveConfig struct {
	Path string
}

// Load reads .env file and populates the Config struct
func Load() (*Config, error) {
	cfg := fromEnv()
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWorker is Load for the refresh worker, which talks only to Redis.
// It requires REDIS_URL and ignores database and signing settings.
func LoadWorker() (*Config, error) {
	cfg := fromEnv()
	if cfg.Redis.URL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	if cfg.Refresh.Interval <= 0 {
		return nil, fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	return cfg, nil
}

func fromEnv() *Config {
	// Missing .env is fine; containers inject env vars directly
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		DB: DBConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			JWKSURL:         getEnv("AUTH_JWKS_URL", ""),
			TokenTTL:        getEnvAsDuration("AUTH_TOKEN_TTL", 12*time.Hour),
			AllowedProjects: getEnvAsList("AUTH_ALLOWED_PROJECTS", []string{"herviz", "jojuma"}),
		},
		Dashboard: dashboardFromEnv(),
		Refresh: RefreshConfig{
			Interval: getEnvAsDuration("REFRESH_INTERVAL", time.Hour),
			Timeout:  getEnvAsDuration("REFRESH_TIMEOUT", 2*time.Minute),
		},
		Archive: ArchiveConfig{
			Path: getEnv("ARCHIVE_PATH", "snapshot.db"),
		},
	}
}

// LoadDashboard returns only the view defaults. It needs no database settings,
// so offline tools can use it.
func LoadDashboard() DashboardConfig {
	_ = godotenv.Load()
	return dashboardFromEnv()
}

func dashboardFromEnv() DashboardConfig {
	return DashboardConfig{
		DefaultTablePermit:  getEnv("DEFAULT_TABLE_PERMIT", ""),
		DefaultGraphPermit:  getEnv("DEFAULT_GRAPH_PERMIT", "PL/640/EXP/ES/2015"),
		DefaultCostTerminal: getEnv("DEFAULT_COST_TERMINAL", "AZCAPOTZALCO"),
		MapCentersFile:      getEnv("MAP_CENTERS_FILE", ""),
	}
}

// validate checks for required variables
func validate(cfg *Config) error {
	if cfg.DB.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Auth.JWTSecret == "" && cfg.Auth.JWKSURL == "" && cfg.Server.Env != "test" {
		return fmt.Errorf("JWT_SECRET or AUTH_JWKS_URL is required")
	}
	if len(cfg.Auth.AllowedProjects) == 0 {
		return fmt.Errorf("AUTH_ALLOWED_PROJECTS must list at least one project")
	}
	if cfg.Refresh.Interval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	return nil
}

// Helper to get env var with default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper to get env var as duration ("90s", "1h")
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	// Bare integers are seconds
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// Helper to get a comma-separated env var as a list
func getEnvAsList(key string, fallback []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
