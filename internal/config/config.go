package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Ai       AIConfig
	Tools    ToolsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	BodyLimit          int
	StreamMaxDuration  time.Duration
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret string
}

type AIConfig struct {
	LLMProvider   string // "ollama", "openai" or "mock"
	OllamaBaseURL string
	OpenAIBaseURL string
	OpenAIAPIKey  string

	ChatModel      string
	ReasoningModel string
	TitleModel     string
	ArtifactModel  string
	ImageModel     string
}

type ToolsConfig struct {
	WeatherBaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3001"),
			NatsURL:            getEnv("NATS_URL", ""),
			BodyLimit:          getEnvAsInt("APP_BODY_LIMIT_MB", 10) * 1024 * 1024,
			StreamMaxDuration:  getEnvAsDuration("STREAM_MAX_DURATION", 60*time.Second),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "ollama"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
			OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
			ChatModel:      getEnv("LLM_CHAT_MODEL", "llama3.1"),
			ReasoningModel: getEnv("LLM_REASONING_MODEL", "deepseek-r1"),
			TitleModel:     getEnv("LLM_TITLE_MODEL", "llama3.1"),
			ArtifactModel:  getEnv("LLM_ARTIFACT_MODEL", "llama3.1"),
			ImageModel:     getEnv("LLM_IMAGE_MODEL", "dall-e-3"),
		},
		Tools: ToolsConfig{
			WeatherBaseURL: getEnv("WEATHER_API_URL", "https://api.open-meteo.com"),
		},
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
