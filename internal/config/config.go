package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Redis (optional, response cache)
	RedisURL            string
	ContentCacheTTLMins int
	RateLimitPerMinute  int

	// Gemini AI
	GeminiAPIKey         string
	GeminiModel          string
	GeminiConcurrentReqs int

	// Generation parameters for the primary content call
	GenerationTemperature     float64
	GenerationTopP            float64
	GenerationMaxOutputTokens int

	// Key point thresholds. The prompt asks for more than the schema enforces.
	PromptMinKeyPoints int
	SchemaMinKeyPoints int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                      getEnvOrDefault("PORT", "8080"),
		Env:                       getEnvOrDefault("ENV", "development"),
		RedisURL:                  getEnvOrDefault("REDIS_URL", ""),
		ContentCacheTTLMins:       getEnvAsIntOrDefault("CONTENT_CACHE_TTL_MINUTES", 60),
		RateLimitPerMinute:        getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 10),
		GeminiAPIKey:              mustGetEnv("GEMINI_API_KEY"),
		GeminiModel:               getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiConcurrentReqs:      getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		GenerationTemperature:     getEnvAsFloatOrDefault("GENERATION_TEMPERATURE", 0.7),
		GenerationTopP:            getEnvAsFloatOrDefault("GENERATION_TOP_P", 0.95),
		GenerationMaxOutputTokens: getEnvAsIntOrDefault("GENERATION_MAX_OUTPUT_TOKENS", 4096),
		PromptMinKeyPoints:        getEnvAsIntOrDefault("CONTENT_PROMPT_MIN_KEY_POINTS", 3),
		SchemaMinKeyPoints:        getEnvAsIntOrDefault("CONTENT_MIN_KEY_POINTS", 2),
		FrontendURL:               getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}
