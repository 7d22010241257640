package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Jobs     JobsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// JobsConfig holds the scheduled-job knobs.
type JobsConfig struct {
	// AutoPunchOutGrace is how far past midnight a stale session may stay
	// open before the punch-out job closes it.
	AutoPunchOutGrace time.Duration

	// AutoLeaveLookbackDays is how many whole days before today the
	// auto-leave sweep scans.
	AutoLeaveLookbackDays int

	// AutoLeaveDisabled turns the auto-leave job off entirely.
	AutoLeaveDisabled bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "workpoint-hr"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Scheduled-job configuration
	grace, err := time.ParseDuration(getEnv("AUTO_PUNCHOUT_GRACE", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_PUNCHOUT_GRACE: %w", err)
	}
	lookback, err := strconv.Atoi(getEnv("AUTO_LEAVE_LOOKBACK_DAYS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_LEAVE_LOOKBACK_DAYS: %w", err)
	}
	disabled, err := strconv.ParseBool(getEnv("AUTO_LEAVE_DISABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_LEAVE_DISABLED: %w", err)
	}

	config.Jobs = JobsConfig{
		AutoPunchOutGrace:     grace,
		AutoLeaveLookbackDays: lookback,
		AutoLeaveDisabled:     disabled,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Jobs.AutoPunchOutGrace < 0 {
		return fmt.Errorf("AUTO_PUNCHOUT_GRACE must not be negative")
	}
	if c.Jobs.AutoLeaveLookbackDays <= 0 {
		return fmt.Errorf("AUTO_LEAVE_LOOKBACK_DAYS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
