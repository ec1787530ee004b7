package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	ServerPort string

	// Database
	DatabaseURL string

	// Uploads
	UploadDir string

	// Speech/vision text extraction service
	TranscribeEndpoint string

	// Generator backend: "ollama" or "gemini"
	LLMProvider string
	OllamaURL   string
	OllamaModel string
	GeminiModel string

	// Report prompt template file; empty means use the built-in template.
	ReportPromptFile string

	// Retry budget for report generation.
	ReportFirstTimeout time.Duration
	ReportRetryTimeout time.Duration

	// Messages shorter than this resolve to Unclear without classification.
	MinInputRunes int

	// When true the LLM-backed classifier serves the intent debug endpoint.
	IntentLLMAssist bool

	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "./moneytalk.db"),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		TranscribeEndpoint: getEnv("TRANSCRIBE_ENDPOINT", "http://localhost:8001"),
		LLMProvider:        getEnv("LLM_PROVIDER", "ollama"),
		OllamaURL:          getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:        getEnv("OLLAMA_MODEL", "llama3.2"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		ReportPromptFile:   getEnv("REPORT_PROMPT_FILE", ""),
		ReportFirstTimeout: getEnvDuration("REPORT_FIRST_TIMEOUT", 20*time.Second),
		ReportRetryTimeout: getEnvDuration("REPORT_RETRY_TIMEOUT", 60*time.Second),
		MinInputRunes:      getEnvInt("MIN_INPUT_RUNES", 4),
		IntentLLMAssist:    getEnvBool("INTENT_LLM_ASSIST", false),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	switch c.LLMProvider {
	case "ollama", "gemini":
	default:
		return fmt.Errorf("invalid LLM_PROVIDER %q: must be ollama or gemini", c.LLMProvider)
	}
	if c.LLMProvider == "gemini" && os.Getenv("GOOGLE_API_KEY") == "" && os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("LLM_PROVIDER=gemini requires GOOGLE_API_KEY or GEMINI_API_KEY")
	}
	if c.ReportFirstTimeout <= 0 || c.ReportRetryTimeout <= 0 {
		return fmt.Errorf("report timeouts must be positive")
	}
	if c.MinInputRunes < 1 {
		return fmt.Errorf("MIN_INPUT_RUNES must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
