package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Keys         APIKeys
	Ai           AIConfig
	Verification VerificationConfig
	Import       ImportConfig
}

type AppConfig struct {
	Port                  string
	Environment           string
	LogFilePath           string
	LLMLogFilePath        string
	CorsAllowedOrigins    string
	NatsURL               string
	RedisURL              string
	RequestTimeoutSeconds int
	OtelEnabled           bool
	JwtSecret             string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI       string
	GoogleGemini string
}

type AIConfig struct {
	LLMProvider   string // "openai", "gemini" or "ollama"
	LLMModel      string
	VisionModel   string
	OpenAIBaseURL string
	OllamaBaseURL string
	MaxToolRounds int
}

type VerificationConfig struct {
	GeofenceThresholdMeters float64
	MinConfidence           float64
	LockSeconds             int
}

type ImportConfig struct {
	TopicName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                  getEnv("APP_PORT", "3000"),
			Environment:           getEnv("GO_ENV", "development"),
			LogFilePath:           getEnv("LOG_FILE_PATH", "logs/app.log"),
			LLMLogFilePath:        getEnv("LLM_LOG_FILE_PATH", "logs/llm.log"),
			CorsAllowedOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:               getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379"),
			RequestTimeoutSeconds: getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 90),
			OtelEnabled:           getEnvAsBool("OTEL_ENABLED", false),
			JwtSecret:             getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
			LLMModel:      getEnv("LLM_MODEL", ""),
			VisionModel:   getEnv("LLM_VISION_MODEL", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			MaxToolRounds: getEnvAsInt("LLM_MAX_TOOL_ROUNDS", 6),
		},
		Verification: VerificationConfig{
			GeofenceThresholdMeters: getEnvAsFloat("GEOFENCE_THRESHOLD_METERS", 500),
			MinConfidence:           getEnvAsFloat("VERIFICATION_MIN_CONFIDENCE", 0.6),
			LockSeconds:             getEnvAsInt("VERIFICATION_LOCK_SECONDS", 120),
		},
		Import: ImportConfig{
			TopicName: getEnv("IMPORT_TOPIC_NAME", "IMPORT_DISCOVERED_CHALLENGES"),
		},
	}
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	if c.Ai.LLMProvider == "gemini" {
		return c.Keys.GoogleGemini
	}
	return c.Keys.OpenAI
}

// ProviderBaseURL returns the endpoint override for the configured provider.
func (c *Config) ProviderBaseURL() string {
	switch c.Ai.LLMProvider {
	case "ollama":
		return c.Ai.OllamaBaseURL
	case "gemini":
		return ""
	default:
		return c.Ai.OpenAIBaseURL
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
