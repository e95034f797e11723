// Package config provides configuration for the Tess backend.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the backend configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// LLM provider settings
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	// Instruction documents
	DocsDir     string
	DefaultMode string

	// How mode instructions reach the model: "user" embeds them in a
	// leading user message, "system" sends them as a system message.
	InstructionDelivery string

	// History bounds
	MaxMessages int
	MaxAgeDays  int

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:            getEnvInt("PORT", 3000),
		DatabaseURL:         getEnv("DATABASE_URL", "file:tess.db?cache=shared&mode=rwc"),
		LLMBaseURL:          getEnv("LLM_BASE_URL", "http://localhost:4000"),
		LLMAPIKey:           getEnv("LLM_API_KEY", ""),
		LLMModel:            getEnv("LLM_MODEL", "claude-3-7-sonnet-20250219"),
		LLMTimeout:          time.Duration(getEnvInt("LLM_TIMEOUT_MS", 120000)) * time.Millisecond,
		DocsDir:             getEnv("DOCS_DIR", "docs"),
		DefaultMode:         getEnv("DEFAULT_MODE", "basic"),
		InstructionDelivery: getEnv("INSTRUCTION_DELIVERY", "user"),
		MaxMessages:         getEnvInt("MAX_MESSAGES", 50),
		MaxAgeDays:          getEnvInt("MAX_AGE_DAYS", 30),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
