package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // TEMPO_DATABASE_URL (required)
	HTTPAddr    string // TEMPO_HTTP_ADDR (default ":8080")
	NATSURL     string // TEMPO_NATS_URL (optional, empty = no events)
	AuthToken   string // TEMPO_AUTH_TOKEN (optional, empty = auth disabled)

	// Export settings
	SyncInterval   time.Duration // TEMPO_SYNC_INTERVAL (default 5m; 0 = disabled)
	SyncS3Bucket   string        // TEMPO_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // TEMPO_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // TEMPO_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // TEMPO_SYNC_S3_KEY (default "tempo/backup.jsonl")
	SyncFilePath   string        // TEMPO_SYNC_FILE (enables local file backups when set)
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("TEMPO_DATABASE_URL"),
		HTTPAddr:       envOrDefault("TEMPO_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("TEMPO_NATS_URL"),
		AuthToken:      os.Getenv("TEMPO_AUTH_TOKEN"),
		SyncS3Bucket:   os.Getenv("TEMPO_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("TEMPO_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("TEMPO_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("TEMPO_SYNC_S3_KEY", "tempo/backup.jsonl"),
		SyncFilePath:   os.Getenv("TEMPO_SYNC_FILE"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("TEMPO_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("TEMPO_SYNC_INTERVAL", "5m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("TEMPO_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
