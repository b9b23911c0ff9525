package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	DailyAiCap         int
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JWTSecret           string
	GoogleClientID      string
	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURL  string
}

type AIConfig struct {
	LLMProvider   string // "openai" or "ollama"
	LLMModel      string
	OpenAIKey     string
	OllamaBaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8000"),
			ClientURL:          getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			DailyAiCap:         getEnvAsInt("DAILY_AI_CAP", 200),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JWTSecret:           getEnv("JWT_SECRET", "dev_jwt_secret_change_me"),
			GoogleClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
			DiscordClientID:     getEnv("DISCORD_CLIENT_ID", ""),
			DiscordClientSecret: getEnv("DISCORD_CLIENT_SECRET", ""),
			DiscordRedirectURL:  getEnv("DISCORD_REDIRECT_URI", "http://localhost:8000/api/auth/discord/callback"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
			LLMModel:      getEnv("LLM_MODEL", "gpt-4o-mini"),
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
	}
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
