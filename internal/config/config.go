package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	ServerPort       string
	JWTSecret        string
	JWTExpiryMinutes string
	// TaskAPIBaseURL points at the agent user's tasks collection,
	// e.g. http://localhost:8080/{user_id}/tasks
	TaskAPIBaseURL string
	TaskAPIToken   string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	cfg := &Config{
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "todo_user"),
		DBPassword:       getEnv("DB_PASSWORD", "todo_pass"),
		DBName:           getEnv("DB_NAME", "todo_db"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiryMinutes: getEnv("JWT_EXPIRY_MINUTES", "30"),
		TaskAPIBaseURL:   getEnv("TASK_API_BASE_URL", ""),
		TaskAPIToken:     getEnv("TASK_API_TOKEN", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
	}

	// The auth package reads these from the environment at token time, so
	// the resolved defaults have to be visible there as well.
	os.Setenv("JWT_SECRET", cfg.JWTSecret)
	os.Setenv("JWT_EXPIRY_MINUTES", cfg.JWTExpiryMinutes)

	return cfg
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
