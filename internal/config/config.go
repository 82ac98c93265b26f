package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend names for the local state store.
const (
	StateBackendMemory   = "memory"
	StateBackendFile     = "file"
	StateBackendPostgres = "postgres"
	StateBackendRedis    = "redis"
)

// Config holds all configuration for the client application
type Config struct {
	APIBaseURL   string `yaml:"api_base_url"`
	SocketURL    string `yaml:"socket_url"`
	AuthHeader   string `yaml:"auth_header"` // "bearer" or "x-auth-token"
	StateBackend string `yaml:"state_backend"`
	StateDir     string `yaml:"state_dir"`
	DatabaseURL  string `yaml:"database_url"`
	RedisURL     string `yaml:"redis_url"`
	Currency     string `yaml:"currency"`
	LogLevel     string `yaml:"log_level"`
	Port         string `yaml:"port"`
}

// Load loads configuration from an optional YAML file (MEETMART_CONFIG)
// overlaid with environment variables. A .env file is honoured when present.
func Load() (*Config, error) {
	// Missing .env is fine; env vars may come from the shell.
	_ = godotenv.Load()

	cfg := &Config{
		AuthHeader:   "bearer",
		StateBackend: StateBackendFile,
		Currency:     "NGN",
		LogLevel:     "info",
		Port:         "8080",
	}

	if path := os.Getenv("MEETMART_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.APIBaseURL = getEnvOrDefault("API_BASE_URL", cfg.APIBaseURL)
	cfg.SocketURL = getEnvOrDefault("SOCKET_URL", cfg.SocketURL)
	cfg.AuthHeader = getEnvOrDefault("AUTH_HEADER", cfg.AuthHeader)
	cfg.StateBackend = getEnvOrDefault("STATE_BACKEND", cfg.StateBackend)
	cfg.StateDir = getEnvOrDefault("STATE_DIR", cfg.StateDir)
	cfg.DatabaseURL = getEnvOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = getEnvOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.Currency = getEnvOrDefault("CURRENCY", cfg.Currency)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.Port = getEnvOrDefault("PORT", cfg.Port)

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL environment variable is required")
	}

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".meetmart")
	}

	switch cfg.StateBackend {
	case StateBackendMemory, StateBackendFile:
	case StateBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STATE_BACKEND=postgres")
		}
	case StateBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when STATE_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("unknown STATE_BACKEND %q", cfg.StateBackend)
	}

	switch cfg.AuthHeader {
	case "bearer", "x-auth-token":
	default:
		return nil, fmt.Errorf("unknown AUTH_HEADER %q (want bearer or x-auth-token)", cfg.AuthHeader)
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
