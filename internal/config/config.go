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
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Credits  CreditConfig
}

type AppConfig struct {
	Port        string
	BaseURL     string
	ClientURL   string
	Environment string
	LogFilePath string
	UploadDir   string
	NatsURL     string
	RedisURL    string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
	RemoveBg     string
}

type AIConfig struct {
	ImageProvider     string // "gemini" or "huggingface"
	ImageModel        string
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	RembgBaseURL      string
	RemoveBgBaseURL   string
	HTTPTimeout       time.Duration
	GeneratedTopic    string // watermill topic for async prompt embedding
	MaxImages         int    // upper bound for numImages per request
}

type CreditConfig struct {
	SignupCredits int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "3000"),
			BaseURL:     getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:   getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "app.log.csv"),
			UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
			NatsURL:     getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "ImageStudio"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			RemoveBg:     getEnv("REMOVEBG_API_KEY", ""),
		},
		Ai: AIConfig{
			ImageProvider:     getEnv("IMAGE_PROVIDER", "gemini"),
			ImageModel:        getEnv("IMAGE_MODEL", ""),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			RembgBaseURL:      getEnv("REMBG_BASE_URL", "http://localhost:7000"),
			RemoveBgBaseURL:   getEnv("REMOVEBG_BASE_URL", ""),
			HTTPTimeout:       time.Duration(getEnvAsInt("AI_HTTP_TIMEOUT", 60)) * time.Second,
			GeneratedTopic:    getEnv("IMAGE_GENERATED_TOPIC_NAME", "image.generated"),
			MaxImages:         getEnvAsInt("GEN_MAX_IMAGES", 4),
		},
		Credits: CreditConfig{
			SignupCredits: getEnvAsInt("SIGNUP_CREDITS", 10),
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
