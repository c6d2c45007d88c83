package config

import (
	"os"
	"strconv"

	"sheetsense/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	AI       AIConfig
	Server   ServerConfig
	Paths    PathConfig
	Database DatabaseConfig
	Pipeline PipelineConfig
}

// AIConfig holds settings for the model-backed row classifier
type AIConfig struct {
	OpenAIKey   string
	OpenAIModel string
	MaxTokens   int
	Temperature float64
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// PathConfig holds file system paths
type PathConfig struct {
	WorkbookDir string
	UploadDir   string
}

// DatabaseConfig holds optional persistence settings. An empty URL means
// tables live only in the in-memory registry.
type DatabaseConfig struct {
	URL string
}

// PipelineConfig holds normalization pipeline settings
type PipelineConfig struct {
	SampleSize int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		AI: AIConfig{
			OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
			OpenAIModel: getEnv("LLM_MODEL", "gpt-4o-mini"),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 2000),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.1),
		},
		Server: ServerConfig{
			Port:    getEnv("SERVER_PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Paths: PathConfig{
			WorkbookDir: getEnv("WORKBOOK_DIR", ""),
			UploadDir:   getEnv("UPLOAD_DIR", "workspace/uploads"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Pipeline: PipelineConfig{
			SampleSize: getEnvInt("SAMPLE_SIZE", 10),
		},
	}

	if err := validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validate(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("SERVER_PORT must not be empty")
	}
	if config.Pipeline.SampleSize < 1 {
		return errors.ConfigInvalid("SAMPLE_SIZE must be at least 1")
	}
	if config.AI.OpenAIKey != "" && config.AI.OpenAIModel == "" {
		return errors.ConfigInvalid("LLM_MODEL must be set when OPENAI_API_KEY is provided")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
