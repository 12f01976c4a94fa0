// Package config handles configuration loading and management
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	AppBaseURL     string
	MockBaseURL    string
	MetricsURL     string
	OracleHost     string
	OraclePort     int
	OracleService  string
	OracleUsername string
	OraclePassword string
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	NavTimeout     time.Duration
	ActionTimeout  time.Duration
	RetryAttempts  int
	ArtifactDir    string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		AppBaseURL:     getEnv("MELOSYS_BASE_URL", "http://localhost:8080"),
		MockBaseURL:    getEnv("MELOSYS_MOCK_URL", "http://localhost:8083"),
		MetricsURL:     getEnv("MELOSYS_METRICS_URL", "http://localhost:8080/internal/prometheus"),
		OracleHost:     getEnv("ORACLE_HOST", "localhost"),
		OracleService:  getEnv("ORACLE_SERVICE", "MELOSYS"),
		OracleUsername: getEnv("ORACLE_USERNAME", "melosys"),
		OraclePassword: getEnv("ORACLE_PASSWORD", ""),
		ArtifactDir:    getEnv("ARTIFACT_DIR", "test-results"),
	}

	oraclePort, err := strconv.Atoi(getEnv("ORACLE_PORT", "1521"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORACLE_PORT: %w", err)
	}
	cfg.OraclePort = oraclePort

	headless, err := strconv.ParseBool(getEnv("HEADLESS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid HEADLESS: %w", err)
	}
	cfg.Headless = headless

	width, err := strconv.Atoi(getEnv("VIEWPORT_WIDTH", "1920"))
	if err != nil {
		return nil, fmt.Errorf("invalid VIEWPORT_WIDTH: %w", err)
	}
	cfg.ViewportWidth = width

	height, err := strconv.Atoi(getEnv("VIEWPORT_HEIGHT", "1080"))
	if err != nil {
		return nil, fmt.Errorf("invalid VIEWPORT_HEIGHT: %w", err)
	}
	cfg.ViewportHeight = height

	navTimeout, err := time.ParseDuration(getEnv("NAVIGATION_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NAVIGATION_TIMEOUT: %w", err)
	}
	cfg.NavTimeout = navTimeout

	actionTimeout, err := time.ParseDuration(getEnv("ACTION_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACTION_TIMEOUT: %w", err)
	}
	cfg.ActionTimeout = actionTimeout

	retries, err := strconv.Atoi(getEnv("RETRY_ATTEMPTS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid RETRY_ATTEMPTS: %w", err)
	}
	cfg.RetryAttempts = retries

	return cfg, nil
}

// OracleDSN builds the go-ora connection string for the configured database.
func (c *Config) OracleDSN() string {
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.OracleUsername, c.OraclePassword, c.OracleHost, c.OraclePort, c.OracleService)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) String() string {
	passwordDisplay := "(not set)"
	if c.OraclePassword != "" {
		passwordDisplay = "********"
	}

	return fmt.Sprintf(`Current Configuration:
======================
Application Base URL:     %s
Mock Service URL:         %s
Metrics Endpoint:         %s
Oracle Host:              %s
Oracle Port:              %d
Oracle Service:           %s
Oracle Username:          %s
Oracle Password:          %s
Headless:                 %t
Viewport:                 %dx%d
Navigation Timeout:       %s
Action Timeout:           %s
Retry Attempts:           %d
Artifact Directory:       %s`,
		c.AppBaseURL,
		c.MockBaseURL,
		c.MetricsURL,
		c.OracleHost,
		c.OraclePort,
		c.OracleService,
		c.OracleUsername,
		passwordDisplay,
		c.Headless,
		c.ViewportWidth,
		c.ViewportHeight,
		c.NavTimeout,
		c.ActionTimeout,
		c.RetryAttempts,
		c.ArtifactDir,
	)
}
