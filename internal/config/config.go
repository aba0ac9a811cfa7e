package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Server
	Port               int
	RateLimitPerMinute int

	// Database
	DatabasePath string

	// Gemini
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiBackend string // "rest" or "sdk"

	// Acquisition
	JokeSource     string
	JokeEndpoint   string
	RequestTimeout time.Duration
	SettleDelay    time.Duration
	CatalogPath    string // optional YAML override of the embedded catalog

	// Presentation
	RevealDelay time.Duration

	// Health probes
	ProbeInterval time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:  getEnv("DATABASE_PATH", "data/giggles.db"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiBackend: getEnv("GEMINI_BACKEND", "rest"),
		JokeSource:    getEnv("JOKE_SOURCE", "jokeapi"),
		JokeEndpoint:  getEnv("JOKE_ENDPOINT", "http://localhost:3000/api/joke"),
		CatalogPath:   getEnv("CATALOG_PATH", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	// Parse durations
	var err error
	if cfg.RevealDelay, err = parseDuration("REVEAL_DELAY", "1200ms"); err != nil {
		return nil, err
	}
	if cfg.SettleDelay, err = parseDuration("SETTLE_DELAY", "0s"); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.ProbeInterval, err = parseDuration("PROBE_INTERVAL", "5m"); err != nil {
		return nil, err
	}

	// Parse integers
	if cfg.Port, err = parseInt("PORT", "3000"); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = parseInt("RATE_LIMIT_PER_MINUTE", "30"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForServe checks configuration needed to run the HTTP API.
// A missing GEMINI_API_KEY is reported per request, not here.
func (c *Config) ValidateForServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	switch c.GeminiBackend {
	case "rest", "sdk", "":
	default:
		return fmt.Errorf("invalid GEMINI_BACKEND: %s (must be 'rest' or 'sdk')", c.GeminiBackend)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %d", c.RateLimitPerMinute)
	}
	return nil
}

// ValidateForGeneration checks configuration needed to call Gemini directly.
func (c *Config) ValidateForGeneration() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required for generation")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseDuration(key, defaultVal string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultVal))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: negative duration %s", key, d)
	}
	return d, nil
}

func parseInt(key, defaultVal string) (int, error) {
	n, err := strconv.Atoi(getEnv(key, defaultVal))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
