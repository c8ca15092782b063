package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()

	if cfg.StorageDriver != StorageMemory {
		t.Errorf("StorageDriver = %q, want %q", cfg.StorageDriver, StorageMemory)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("SessionTTL = %v, want 12h", cfg.SessionTTL)
	}
	if cfg.StorageNamespace == "" {
		t.Error("StorageNamespace should have a default")
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("KafkaBrokers = %v, want empty", cfg.KafkaBrokers)
	}
}

func TestLoadParsesValues(t *testing.T) {
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("RATE_LIMIT", "1000")
	t.Setenv("LOGIN_RATE_LIMIT", "not-a-number")

	cfg := Load()

	if cfg.RateLimit != 1000 {
		t.Errorf("RateLimit = %d, want 1000", cfg.RateLimit)
	}
	if cfg.LoginRateLimit != 10 {
		t.Errorf("LoginRateLimit = %d, want fallback 10", cfg.LoginRateLimit)
	}

	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, want 30m", cfg.SessionTTL)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Errorf("StorageDriver = %q, want %q", cfg.StorageDriver, StoragePostgres)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWTSecret:        "secret",
			StorageDriver:    StorageMemory,
			StorageNamespace: "campus-reports",
			ImageStore:       ImageStoreInline,
			DBHost:           "localhost",
			DBName:           "campus_reports",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid memory config", mutate: func(c *Config) {}},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: true},
		{name: "unknown storage driver", mutate: func(c *Config) { c.StorageDriver = "redis" }, wantErr: true},
		{name: "postgres without db name", mutate: func(c *Config) {
			c.StorageDriver = StoragePostgres
			c.DBName = ""
		}, wantErr: true},
		{name: "postgres in production without password", mutate: func(c *Config) {
			c.StorageDriver = StoragePostgres
			c.AppEnv = "production"
		}, wantErr: true},
		{name: "s3 without bucket", mutate: func(c *Config) { c.ImageStore = ImageStoreS3 }, wantErr: true},
		{name: "s3 with bucket and public url", mutate: func(c *Config) {
			c.ImageStore = ImageStoreS3
			c.S3Bucket = "photos"
			c.S3PublicURL = "https://cdn.example.com"
		}},
		{name: "empty namespace", mutate: func(c *Config) { c.StorageNamespace = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
