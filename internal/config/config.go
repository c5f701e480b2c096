// Package config loads the router's process configuration from environment
// variables, optionally seeded from a local .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting the router reads at startup.
type Config struct {
	N8NAPIKey             string
	N8NAPIURL             string
	ListenAddr            string
	RefreshInterval       time.Duration
	N8NEndpointWebhook    string
	N8NEndpointWebhookTest string
	GitHubWebhookSecret   string
	DatabasePath          string

	LogLevel  string
	LogFormat string

	ForwardTimeout time.Duration
	PIDFile        string
}

// Load reads configuration from the process environment. A .env file in the
// working directory is loaded first, if present, purely as a local
// development convenience — real environment variables always win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv("N8N_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("config: N8N_API_KEY is required")
	}

	refreshSecs, err := parseIntDefault("REFRESH_INTERVAL_SECS", 60)
	if err != nil {
		return nil, err
	}
	forwardTimeoutSecs, err := parseIntDefault("FORWARD_TIMEOUT_SECS", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		N8NAPIKey:              apiKey,
		N8NAPIURL:              getEnvDefault("N8N_API_URL", "http://localhost:5678"),
		ListenAddr:             getEnvDefault("LISTEN_ADDR", "0.0.0.0:3000"),
		RefreshInterval:        time.Duration(refreshSecs) * time.Second,
		N8NEndpointWebhook:     getEnvDefault("N8N_ENDPOINT_WEBHOOK", "webhook"),
		N8NEndpointWebhookTest: getEnvDefault("N8N_ENDPOINT_WEBHOOK_TEST", "webhook-test"),
		GitHubWebhookSecret:    os.Getenv("GITHUB_WEBHOOK_SECRET"),
		DatabasePath:           getEnvDefault("DATABASE_PATH", "unihook.db"),
		LogLevel:               getEnvDefault("LOG_LEVEL", "INFO"),
		LogFormat:              getEnvDefault("LOG_FORMAT", "json"),
		ForwardTimeout:         time.Duration(forwardTimeoutSecs) * time.Second,
		PIDFile:                os.Getenv("PID_FILE"),
	}

	return cfg, nil
}

func getEnvDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseIntDefault(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", name, v, err)
	}
	return n, nil
}
