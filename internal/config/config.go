package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL  = "http://localhost:8000"
	defaultQuestion = "What is one key takeaway from today's class?"
	defaultCount    = 10
	defaultDelay    = 500 * time.Millisecond
)

// Config aggregates configuration for both binaries.
type Config struct {
	Seeder SeederConfig
	Server ServerConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	seeder, err := loadSeederConfig()
	if err != nil {
		return nil, err
	}

	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Seeder: seeder, Server: server}, nil
}

// SeederConfig holds the seeding run's inputs. Flags on the seeder binary
// override these values.
type SeederConfig struct {
	BaseURL     string
	FrontendURL string
	SessionID   string
	Question    string
	Count       int
	Delay       time.Duration
	NoDelay     bool
}

// Normalize strips trailing slashes and falls back to BaseURL for the
// frontend link root.
func (c *SeederConfig) Normalize() {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	c.FrontendURL = strings.TrimRight(c.FrontendURL, "/")
	if c.FrontendURL == "" {
		c.FrontendURL = c.BaseURL
	}
}

// Validate rejects values the run loop cannot work with.
func (c SeederConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	if c.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", c.Count)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", c.Delay)
	}
	return nil
}

func loadSeederConfig() (SeederConfig, error) {
	count := defaultCount
	if override, err := parseOptionalIntEnv("SEED_COUNT"); err != nil {
		return SeederConfig{}, err
	} else if override != nil {
		count = *override
	}

	delay := defaultDelay
	if override, err := parseOptionalDurationEnv("SEED_DELAY"); err != nil {
		return SeederConfig{}, err
	} else if override != nil {
		delay = *override
	}

	noDelay, err := parseBoolEnv("SEED_NO_DELAY", false)
	if err != nil {
		return SeederConfig{}, err
	}

	cfg := SeederConfig{
		BaseURL:     getEnvOrDefault("CLASSPULSE_BASE_URL", defaultBaseURL),
		FrontendURL: strings.TrimSpace(os.Getenv("CLASSPULSE_FRONTEND_URL")),
		SessionID:   strings.TrimSpace(os.Getenv("CLASSPULSE_SESSION_ID")),
		Question:    getEnvOrDefault("SEED_QUESTION", defaultQuestion),
		Count:       count,
		Delay:       delay,
		NoDelay:     noDelay,
	}
	return cfg, nil
}

// ServerConfig describes the stub API's listen address.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8000" or "127.0.0.1:8000" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalDurationEnv(key string) (*time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := time.ParseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
