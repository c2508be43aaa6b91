package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultAccessTTL = 15 * time.Minute

type Config struct {
	DatabaseURL  string
	JWTSecret    string
	AccessTTL    time.Duration
	Env          string
	HTTPAddr     string
	LogLevel     string
	KafkaAddress string
	ESURL        string
	ESUser       string
	ESPassword   string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AccessTTL:    parseDuration(os.Getenv("ACCESS_TTL"), defaultAccessTTL),
		Env:          getDefault("APP_ENV", "development"),
		HTTPAddr:     getDefault("HTTP_ADDR", ":8080"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),
		ESURL:        os.Getenv("ES_URL"),
		ESUser:       os.Getenv("ES_USER"),
		ESPassword:   os.Getenv("ES_PASSWORD"),
	}

	return cfg, nil
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

func getDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Notice: invalid duration %q, using %s", raw, def)
		return def
	}
	return d
}
