package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the lease engine service
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Security SecurityConfig
	Events   EventsConfig
	Sweeper  SweeperConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Mode string // debug, release
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// SecurityConfig holds security settings
type SecurityConfig struct {
	AdminAPIKey string // required for the review endpoints
}

// EventsConfig holds NATS configuration
type EventsConfig struct {
	URL     string // empty disables event publishing
	Enabled bool
}

// SweeperConfig holds lease expiration sweeper settings
type SweeperConfig struct {
	IntervalMinutes int
	Enabled         bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8086"),
			Mode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "flexirents"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Security: SecurityConfig{
			AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
		},
		Events: EventsConfig{
			URL:     getEnv("NATS_URL", ""),
			Enabled: getEnvAsBool("EVENTS_ENABLED", true),
		},
		Sweeper: SweeperConfig{
			IntervalMinutes: getEnvAsInt("SWEEPER_INTERVAL_MINUTES", 60),
			Enabled:         getEnvAsBool("SWEEPER_ENABLED", true),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Security.AdminAPIKey == "" {
		return fmt.Errorf("ADMIN_API_KEY is required for the review endpoints")
	}

	if c.Sweeper.IntervalMinutes <= 0 {
		return fmt.Errorf("SWEEPER_INTERVAL_MINUTES must be positive")
	}

	return nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetSweeperInterval returns the sweep interval as a duration
func (c *Config) GetSweeperInterval() time.Duration {
	return time.Duration(c.Sweeper.IntervalMinutes) * time.Minute
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
