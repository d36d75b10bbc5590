// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// DefaultGraphURL is the Graph API base used when GRAPHPILOT_GRAPH_URL is unset.
const DefaultGraphURL = "https://graph.facebook.com/v16.0"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DatabaseURL string
	GraphURL    string
	HTTPTimeout time.Duration
	RepeatDelay time.Duration
	Username    string
	SecretKey   []byte // nil when GRAPHPILOT_SECRET_KEY is unset.
	AccessToken string // Seeded as the user's credential before each command.
	LogLevel    slog.Level
}

// UsesDurableStorage returns true when a database connection string is
// configured. Without one the composition root selects in-memory storage.
func (c *Config) UsesDurableStorage() bool {
	return c.DatabaseURL != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional. GRAPHPILOT_DATABASE_URL falls back to DATABASE_URL;
// when both are empty storage is in-memory. Defaults: GRAPHPILOT_GRAPH_URL
// (https://graph.facebook.com/v16.0), GRAPHPILOT_HTTP_TIMEOUT (30s),
// GRAPHPILOT_REPEAT_DELAY (1s), GRAPHPILOT_USERNAME (default), GRAPHPILOT_LOG_LEVEL (warn).
// GRAPHPILOT_SECRET_KEY, when set, must be 64 hex characters (a 32-byte AES-256 key).
// GRAPHPILOT_ACCESS_TOKEN, when set, supplies the credential without `token set`;
// it is the only way to act when storage is in-memory.
func Load() (*Config, error) {
	databaseURL := os.Getenv("GRAPHPILOT_DATABASE_URL")
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	graphURL := DefaultGraphURL
	if v, ok := os.LookupEnv("GRAPHPILOT_GRAPH_URL"); ok && v != "" {
		graphURL = strings.TrimRight(v, "/")
	}

	httpTimeout, err := durationEnv("GRAPHPILOT_HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	if httpTimeout <= 0 {
		return nil, fmt.Errorf("GRAPHPILOT_HTTP_TIMEOUT must be positive, got %s", httpTimeout)
	}

	repeatDelay, err := durationEnv("GRAPHPILOT_REPEAT_DELAY", time.Second)
	if err != nil {
		return nil, err
	}
	if repeatDelay < 0 {
		return nil, fmt.Errorf("GRAPHPILOT_REPEAT_DELAY must not be negative, got %s", repeatDelay)
	}

	username := "default"
	if v, ok := os.LookupEnv("GRAPHPILOT_USERNAME"); ok && strings.TrimSpace(v) != "" {
		username = strings.TrimSpace(v)
	}

	var secretKey []byte
	if v, ok := os.LookupEnv("GRAPHPILOT_SECRET_KEY"); ok && v != "" {
		secretKey, err = hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("GRAPHPILOT_SECRET_KEY is not valid hex: %w", err)
		}
		if len(secretKey) != 32 {
			return nil, fmt.Errorf("GRAPHPILOT_SECRET_KEY must decode to 32 bytes, got %d", len(secretKey))
		}
	}

	accessToken := strings.TrimSpace(os.Getenv("GRAPHPILOT_ACCESS_TOKEN"))

	logLevel := slog.LevelWarn
	if v, ok := os.LookupEnv("GRAPHPILOT_LOG_LEVEL"); ok && v != "" {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("GRAPHPILOT_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return &Config{
		DatabaseURL: databaseURL,
		GraphURL:    graphURL,
		HTTPTimeout: httpTimeout,
		RepeatDelay: repeatDelay,
		Username:    username,
		SecretKey:   secretKey,
		AccessToken: accessToken,
		LogLevel:    logLevel,
	}, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	return parsed, nil
}
