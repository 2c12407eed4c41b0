package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the environment-provided settings for the service. It is
// loaded once at startup and treated as read-only afterwards.
type Config struct {
	Port string

	AnthropicAPIKey string
	Model           string
	Temperature     float64

	SerpAPIKey string

	Verbose       bool
	MaxIterations int

	StaticDir string
}

// Load reads configuration from the environment, with a .env file as an
// optional source for local development. Validation of required keys is
// left to the caller so it can decide between failing fast and reporting
// degraded health.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] No .env file found, using environment variables")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:           getEnv("AGENT_MODEL", "claude-sonnet-4-20250514"),
		Temperature:     getEnvFloat("LLM_TEMPERATURE", 0.0),
		SerpAPIKey:      os.Getenv("SERPAPI_API_KEY"),
		Verbose:         getEnvBool("AGENT_VERBOSE", false),
		MaxIterations:   getEnvInt("AGENT_MAX_ITERATIONS", 10),
		StaticDir:       getEnv("STATIC_DIR", "web/static"),
	}
}

// HasSearchCapability reports whether the paid search backend is configured.
// The search tool falls back to DuckDuckGo when it is not.
func (c *Config) HasSearchCapability() bool {
	return c.SerpAPIKey != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("[ERROR] Invalid boolean for %s: %q, using default %v", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[ERROR] Invalid integer for %s: %q, using default %d", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("[ERROR] Invalid float for %s: %q, using default %g", key, value, fallback)
		return fallback
	}
	return parsed
}
