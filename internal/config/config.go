package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	RedisAddr   string

	KafkaBrokers []string

	MongoURI      string
	MongoDatabase string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string

	SocialWebhookURL string
	BaseURL          string
	MigrationsDir    string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment; a .env file is picked
// up when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		PostgresDSN:      getEnv("POSTGRES_DSN", "host=localhost port=5432 user=evermarket password=evermarket dbname=evermarket sslmode=disable"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:     splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "stickynotes"),
		SMTPHost:         getEnv("SMTP_HOST", "localhost"),
		SMTPPort:         getEnv("SMTP_PORT", "25"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SocialWebhookURL: getEnv("SOCIAL_WEBHOOK_URL", "http://localhost:9000/social"),
		BaseURL:          getEnv("BASE_URL", "http://127.0.0.1:8080"),
		MigrationsDir:    getEnv("MIGRATIONS_DIR", "migrations"),
		RequestTimeout:   30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
