package config

import (
	"testing"
	"time"
)

var allEnvVars = []string{
	"TEMPO_DATABASE_URL", "TEMPO_HTTP_ADDR", "TEMPO_NATS_URL", "TEMPO_AUTH_TOKEN",
	"TEMPO_SYNC_INTERVAL", "TEMPO_SYNC_S3_BUCKET", "TEMPO_SYNC_S3_ENDPOINT",
	"TEMPO_SYNC_S3_REGION", "TEMPO_SYNC_S3_KEY", "TEMPO_SYNC_FILE",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "DefaultAddresses",
			env:          map[string]string{"TEMPO_DATABASE_URL": "postgres://localhost/tempo"},
			wantHTTPAddr: ":8080",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"TEMPO_DATABASE_URL": "postgres://db:5432/tempo",
				"TEMPO_HTTP_ADDR":    ":3000",
				"TEMPO_NATS_URL":     "nats://localhost:4222",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoadSyncSettings(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("TEMPO_DATABASE_URL", "postgres://localhost/tempo")
	t.Setenv("TEMPO_SYNC_INTERVAL", "10m")
	t.Setenv("TEMPO_SYNC_S3_BUCKET", "my-bucket")
	t.Setenv("TEMPO_SYNC_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("TEMPO_SYNC_S3_REGION", "eu-west-1")
	t.Setenv("TEMPO_SYNC_S3_KEY", "custom/key.jsonl")
	t.Setenv("TEMPO_SYNC_FILE", "/var/backups/tempo.jsonl")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SyncInterval != 10*time.Minute {
		t.Errorf("SyncInterval = %v, want 10m", cfg.SyncInterval)
	}
	if cfg.SyncS3Bucket != "my-bucket" {
		t.Errorf("SyncS3Bucket = %q", cfg.SyncS3Bucket)
	}
	if cfg.SyncS3Endpoint != "http://minio:9000" {
		t.Errorf("SyncS3Endpoint = %q", cfg.SyncS3Endpoint)
	}
	if cfg.SyncS3Region != "eu-west-1" {
		t.Errorf("SyncS3Region = %q", cfg.SyncS3Region)
	}
	if cfg.SyncS3Key != "custom/key.jsonl" {
		t.Errorf("SyncS3Key = %q", cfg.SyncS3Key)
	}
	if cfg.SyncFilePath != "/var/backups/tempo.jsonl" {
		t.Errorf("SyncFilePath = %q", cfg.SyncFilePath)
	}
}

func TestLoadSyncInvalidInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("TEMPO_DATABASE_URL", "postgres://localhost/tempo")
	t.Setenv("TEMPO_SYNC_INTERVAL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid TEMPO_SYNC_INTERVAL")
	}
}

func TestLoadSyncDisabled(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("TEMPO_DATABASE_URL", "postgres://localhost/tempo")
	t.Setenv("TEMPO_SYNC_INTERVAL", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SyncInterval != 0 {
		t.Errorf("SyncInterval = %v, want 0 (disabled)", cfg.SyncInterval)
	}
}

func TestEnvOrDefault(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_ENVDEFAULT_EMPTY", "", "default-val", "default-val"},
		{"SetUsesEnv", "TEST_ENVDEFAULT_SET", "custom", "default-val", "custom"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			if got := envOrDefault(tc.key, tc.fallback); got != tc.want {
				t.Errorf("envOrDefault(%q, %q) = %q, want %q", tc.key, tc.fallback, got, tc.want)
			}
		})
	}
}
