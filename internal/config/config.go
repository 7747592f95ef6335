package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	// Server
	Port string

	// Database
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBAcquireTimeout  time.Duration
	DBLogSQL          bool

	// HTTP
	CORSOrigin      string
	CreateRateLimit float64
	CreateRateBurst int
}

// Load reads a .env file if present, then the process environment.
func Load() (*Config, error) {
	// A missing .env is fine; production sets the variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "sqlite://ideas.db"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
	}

	var err error
	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.DBConnMaxLifetime, err = getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DBAcquireTimeout, err = getEnvDuration("DB_ACQUIRE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.DBLogSQL, err = getEnvBool("DB_LOG_SQL", false); err != nil {
		return nil, err
	}
	if cfg.CreateRateLimit, err = getEnvFloat("CREATE_RATE_LIMIT", 0); err != nil {
		return nil, err
	}
	if cfg.CreateRateBurst, err = getEnvInt("CREATE_RATE_BURST", 5); err != nil {
		return nil, err
	}

	if cfg.DBMaxOpenConns < 1 {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1, got %d", cfg.DBMaxOpenConns)
	}
	if cfg.DBAcquireTimeout <= 0 {
		return nil, fmt.Errorf("DB_ACQUIRE_TIMEOUT must be positive, got %s", cfg.DBAcquireTimeout)
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
