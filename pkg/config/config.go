package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Only this package reads environment variables.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Engine configuration files (optional; built-in defaults used when empty)
	Engine EngineConfig

	// Screener (outbound fundamentals fetch)
	Screener ScreenerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// Snapshot persistence is optional: CLI-only runs work without a database.
	Enabled bool
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// EngineConfig points at the optional YAML overrides for the ranking engine.
type EngineConfig struct {
	PhilosophyFile string // philosophy profile catalogue
	SectorFile     string // sector benchmark table
	RiskFile       string // risk penalty weights
	DisqualifyFile string // disqualification thresholds

	Workers         int           // scoring worker pool size; 0 = GOMAXPROCS
	ReloadSchedule  string        // cron spec for config reload, empty disables
	SnapshotMaxAge  time.Duration // retention for persisted ranking snapshots
	CleanupSchedule string        // cron spec for snapshot cleanup, empty disables
}

// ScreenerConfig holds the outbound fundamentals source configuration.
type ScreenerConfig struct {
	BaseURL        string
	RequestsPerSec float64
	Burst          int
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
			Enabled:         getEnvAsBool("DB_ENABLED", true),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// Engine
		Engine: EngineConfig{
			PhilosophyFile:  getEnv("ENGINE_PHILOSOPHY_FILE", ""),
			SectorFile:      getEnv("ENGINE_SECTOR_FILE", ""),
			RiskFile:        getEnv("ENGINE_RISK_FILE", ""),
			DisqualifyFile:  getEnv("ENGINE_DISQUALIFY_FILE", ""),
			Workers:         getEnvAsInt("ENGINE_WORKERS", 0),
			ReloadSchedule:  getEnv("ENGINE_RELOAD_SCHEDULE", ""),
			SnapshotMaxAge:  getEnvAsDuration("SNAPSHOT_MAX_AGE", "720h"),
			CleanupSchedule: getEnv("SNAPSHOT_CLEANUP_SCHEDULE", ""),
		},

		// Screener
		Screener: ScreenerConfig{
			BaseURL:        getEnv("SCREENER_BASE_URL", "https://www.screener.in"),
			RequestsPerSec: getEnvAsFloat("SCREENER_RPS", 1.0),
			Burst:          getEnvAsInt("SCREENER_BURST", 2),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when DB_ENABLED=true")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Engine.Workers < 0 {
		return fmt.Errorf("ENGINE_WORKERS must be >= 0")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		fallback, _ := time.ParseDuration(defaultValue)
		return fallback
	}
	return value
}
