package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultMaxFileSize = int64(50 * 1024 * 1024)

type Config struct {
	HttpPort string

	// S3/MinIO
	BucketEndpoint  string
	BucketAccessID  string
	BucketAccessKey string
	BucketName      string
	BucketRegion    string
	UseSSL          bool   // MinIO: false, S3: true
	StorageType     string //"minio" or "s3"

	// Redis
	RedisURL      string
	RedisPassword string

	// Postgres
	Host     string
	User     string
	Password string
	DBName   string
	Port     string

	// upload policy (authoritative copy)
	AllowedFileTypes []string // "*" allows any type
	MaxFileSize      int64

	UploadTimeout time.Duration
}

// LoadConfig reads the environment once. Explicit values win over defaults;
// nothing is re-read after startup.
func LoadConfig() *Config {
	return &Config{
		HttpPort:         envOr("PORT", "3000"),
		BucketEndpoint:   os.Getenv("BUCKET_ENDPOINT"),
		BucketAccessID:   os.Getenv("BUCKET_ACCESS_ID"),
		BucketAccessKey:  os.Getenv("BUCKET_ACCESS_KEY"),
		BucketName:       os.Getenv("BUCKET_NAME"),
		BucketRegion:     os.Getenv("BUCKET_REGION"),
		UseSSL:           os.Getenv("BUCKET_USE_SSL") == "true",
		StorageType:      envOr("STORAGE_TYPE", "minio"),
		RedisURL:         os.Getenv("REDIS_URL"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		Host:             os.Getenv("PG_HOST"),
		User:             os.Getenv("PG_USER"),
		Password:         os.Getenv("PG_PASSWORD"),
		DBName:           os.Getenv("PG_DB"),
		Port:             os.Getenv("PG_PORT"),
		AllowedFileTypes: splitTypes(envOr("ALLOWED_FILE_TYPES", "*")),
		MaxFileSize:      envInt64Or("MAX_FILE_SIZE_BYTES", DefaultMaxFileSize),
		UploadTimeout:    15 * time.Minute,
	}
}

// Validate reports every missing or malformed setting at once so a bad
// deployment fails at startup, not on the first request.
func (cfg *Config) Validate() error {
	var missing []string
	if cfg.BucketEndpoint == "" {
		missing = append(missing, "BUCKET_ENDPOINT")
	}
	if cfg.BucketAccessID == "" {
		missing = append(missing, "BUCKET_ACCESS_ID")
	}
	if cfg.BucketAccessKey == "" {
		missing = append(missing, "BUCKET_ACCESS_KEY")
	}
	if cfg.BucketName == "" {
		missing = append(missing, "BUCKET_NAME")
	}
	if cfg.RedisURL == "" {
		missing = append(missing, "REDIS_URL")
	}
	if cfg.Host == "" {
		missing = append(missing, "PG_HOST")
	}
	if cfg.User == "" {
		missing = append(missing, "PG_USER")
	}
	if cfg.DBName == "" {
		missing = append(missing, "PG_DB")
	}
	if cfg.Port == "" {
		missing = append(missing, "PG_PORT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if cfg.StorageType != "minio" && cfg.StorageType != "s3" {
		return fmt.Errorf("STORAGE_TYPE must be minio or s3, got %q", cfg.StorageType)
	}
	if cfg.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_BYTES must be positive, got %d", cfg.MaxFileSize)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func splitTypes(raw string) []string {
	parts := strings.Split(raw, ",")
	types := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			types = append(types, t)
		}
	}
	return types
}
