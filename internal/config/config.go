package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	DBMaxOpenConns int
	DBAutoMigrate  bool

	ServerPort string

	SessionMaxAge int

	RedisURL    string
	WorkerCount int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
	PresignTTL        int
}

// ErrMissingDatabaseURL is returned when DATABASE_URL is not set.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	return &Config{
		DatabaseURL:    databaseURL,
		DBMaxOpenConns: positiveInt("DB_MAX_OPEN_CONNS", 10),
		DBAutoMigrate:  os.Getenv("DB_AUTO_MIGRATE") == "true",

		ServerPort: serverPort,

		// 30 days
		SessionMaxAge: positiveInt("SESSION_MAX_AGE", 2592000),

		RedisURL:    os.Getenv("REDIS_URL"),
		WorkerCount: positiveInt("WORKER_COUNT", 2),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),
		PresignTTL:        positiveInt("PRESIGN_TTL", 900),
	}, nil
}

// UploadsEnabled reports whether every object store setting is present.
func (c *Config) UploadsEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicURL != ""
}

func positiveInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
