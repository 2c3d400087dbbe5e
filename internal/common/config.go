package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	LLM        LLMConfig
	Transcribe TranscribeConfig
	History    HistoryConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr string
}

// LLMConfig holds model-related configuration
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	VisionModel string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// TranscribeConfig holds speech-endpoint configuration
type TranscribeConfig struct {
	// Auto-detect endpoint (OpenAI-style audio transcriptions).
	DetectModel   string
	DetectTimeout time.Duration

	// Secondary backend used for Wolof.
	AndakiaAPIKey string
	AndakiaURL    string
	AndakiaTimeout time.Duration
}

// HistoryConfig holds the extraction-history store configuration
type HistoryConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
			VisionModel: getEnv("OPENAI_VISION_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 500),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Transcribe: TranscribeConfig{
			DetectModel:    getEnv("WHISPER_MODEL", "whisper-1"),
			DetectTimeout:  getEnvAsDuration("WHISPER_TIMEOUT", 60*time.Second),
			AndakiaAPIKey:  getEnv("ANDAKIA_API_KEY", ""),
			AndakiaURL:     getEnv("ANDAKIA_API_URL", ""),
			AndakiaTimeout: getEnvAsDuration("ANDAKIA_TIMEOUT", 60*time.Second),
		},
		History: HistoryConfig{
			Path: getEnv("HISTORY_PATH", "./data"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Transcribe.AndakiaURL == "" {
		return NewAppError("CONFIG_ERROR", "ANDAKIA_API_URL is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
