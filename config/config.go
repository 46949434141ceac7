package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	BotAPIURL      string
	VerifyAPIURL   string
	StoreBackend   string
	StorePath      string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	HistoryDir     string
	S3Region       string
	S3Bucket       string
	CodeTTLSecs    int
	CodeRatePerMin int
}

func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		BotAPIURL:      getEnv("BOT_API_URL", ""),
		VerifyAPIURL:   getEnv("VERIFY_API_URL", ""),
		StoreBackend:   getEnv("STORE_BACKEND", "pebble"),
		StorePath:      getEnv("STORE_PATH", "data/chatstore"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		HistoryDir:     getEnv("HISTORY_DIR", "history"),
		S3Region:       getEnv("S3_REGION", ""),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		CodeTTLSecs:    getEnvInt("VERIFICATION_CODE_TTL", 600),
		CodeRatePerMin: getEnvInt("VERIFICATION_CODE_RATE", 5),
	}

	if cfg.BotAPIURL == "" {
		log.Fatal("BOT_API_URL environment variable is required")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
