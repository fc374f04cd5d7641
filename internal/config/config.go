// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port    int
	BaseURL string

	// Database
	DatabaseURL string

	// Clerk authentication
	ClerkIssuerURL string // e.g., "https://xxx.clerk.accounts.dev"

	// AI gateway (OpenAI-compatible chat completions endpoint)
	GatewayBaseURL string
	GatewayAPIKey  string
	TextModel      string // model used for structured extraction and post generation
	ImageModel     string // model used for image generation

	// Structured scraping provider (primary content fetch)
	ScrapeBaseURL string
	ScrapeAPIKey  string
	ScrapeWaitMs  int // settle time for dynamic content, passed to the provider

	// Content fetch limits
	MaxContentChars int // extracted page text beyond this is truncated, never an error

	// Per-call timeouts. The upstream behavior this replaces had none; these
	// are deliberate additions so a stuck provider cannot pin a request.
	ScrapeTimeout time.Duration
	FetchTimeout  time.Duration
	TextTimeout   time.Duration
	ImageTimeout  time.Duration

	// CORS
	CORSOrigins []string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		DatabaseURL: getEnv("DATABASE_URL", "file:brandforge.db?_journal=WAL&_timeout=5000"),

		ClerkIssuerURL: getEnv("CLERK_ISSUER_URL", ""),

		GatewayBaseURL: getEnv("AI_GATEWAY_BASE_URL", "https://openrouter.ai/api/v1"),
		GatewayAPIKey:  getEnv("AI_GATEWAY_API_KEY", ""),
		TextModel:      getEnv("AI_TEXT_MODEL", "google/gemini-2.0-flash-001"),
		ImageModel:     getEnv("AI_IMAGE_MODEL", "google/gemini-2.5-flash-image"),

		ScrapeBaseURL: getEnv("SCRAPE_BASE_URL", "https://api.firecrawl.dev"),
		ScrapeAPIKey:  getEnv("SCRAPE_API_KEY", ""),
		ScrapeWaitMs:  getEnvInt("SCRAPE_WAIT_MS", 2000),

		MaxContentChars: getEnvInt("MAX_CONTENT_CHARS", 15000),

		ScrapeTimeout: getEnvDuration("SCRAPE_TIMEOUT", 30*time.Second),
		FetchTimeout:  getEnvDuration("FETCH_TIMEOUT", 15*time.Second),
		TextTimeout:   getEnvDuration("AI_TEXT_TIMEOUT", 60*time.Second),
		ImageTimeout:  getEnvDuration("AI_IMAGE_TIMEOUT", 120*time.Second),

		CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
	}

	if cfg.ClerkIssuerURL == "" {
		return nil, fmt.Errorf("CLERK_ISSUER_URL is required")
	}
	if cfg.GatewayAPIKey == "" {
		return nil, fmt.Errorf("AI_GATEWAY_API_KEY is required")
	}
	if cfg.MaxContentChars <= 0 {
		return nil, fmt.Errorf("MAX_CONTENT_CHARS must be positive")
	}

	return cfg, nil
}

// ScrapeEnabled returns true if the primary scraping provider is configured.
// Without a key the fetcher goes straight to the raw-fetch fallback.
func (c *Config) ScrapeEnabled() bool {
	return c.ScrapeAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
