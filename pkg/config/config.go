package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends
const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	// AWS
	AWSRegion string

	// Logging
	LogLevel    string
	LogRequests bool

	// Local HTTP server
	Port int

	// Record store
	StoreBackend   string
	NavDataTable   string
	NavDataTTLDays int
	DatabaseURL    string

	// Remote methods
	MethodStateMachineArn string
	RunMethodName         string

	// Webhook authentication
	WebhookAuthHeader string
	WebhookAuthToken  string

	// Environment
	Environment string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		AWSRegion:             getEnv("AWS_REGION", "us-east-1"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogRequests:           getEnvBool("LOG_REQUESTS", false),
		Port:                  getEnvInt("PORT", 8080),
		StoreBackend:          getEnv("STORE_BACKEND", StoreDynamoDB),
		NavDataTable:          getEnv("NAV_DATA_TABLE", "nav-data"),
		NavDataTTLDays:        getEnvInt("NAV_DATA_TTL_DAYS", 30),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		MethodStateMachineArn: getEnv("METHOD_STATE_MACHINE_ARN", ""),
		RunMethodName:         getEnv("RUN_METHOD_NAME", "random.insert"),
		WebhookAuthHeader:     getEnv("WEBHOOK_AUTH_HEADER", "X-Webhook-Token"),
		WebhookAuthToken:      getEnv("WEBHOOK_AUTH_TOKEN", ""),
		Environment:           getEnv("ENVIRONMENT", "dev"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreDynamoDB:
		if c.NavDataTable == "" {
			return fmt.Errorf("NAV_DATA_TABLE is required for the %s store", StoreDynamoDB)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store", StorePostgres)
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreDynamoDB, StorePostgres, c.StoreBackend)
	}
	if c.RunMethodName == "" {
		return fmt.Errorf("RUN_METHOD_NAME is required")
	}
	if c.WebhookAuthToken != "" && c.WebhookAuthHeader == "" {
		return fmt.Errorf("WEBHOOK_AUTH_HEADER is required when WEBHOOK_AUTH_TOKEN is set")
	}
	return nil
}

// ValidateLambda checks configuration needed by the deployed webhook
func (c *Config) ValidateLambda() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.MethodStateMachineArn == "" {
		return fmt.Errorf("METHOD_STATE_MACHINE_ARN is required for Lambda")
	}
	return nil
}

// AuthEnabled reports whether inbound webhook requests must carry the auth header
func (c *Config) AuthEnabled() bool {
	return c.WebhookAuthToken != ""
}

// GetNavDataTTL returns how long navigation records are kept
func (c *Config) GetNavDataTTL() time.Duration {
	return time.Duration(c.NavDataTTLDays*24) * time.Hour
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		switch value {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}
