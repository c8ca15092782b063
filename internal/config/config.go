package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	ImageStoreInline = "inline"
	ImageStoreS3     = "s3"
)

type Config struct {
	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	LogLevel    string

	// Requests per minute per IP
	RateLimit      int
	LoginRateLimit int

	// Sessions
	JWTSecret  string
	SessionTTL time.Duration

	// Report storage
	StorageDriver    string
	StorageNamespace string

	// Database (postgres storage driver)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Credential roster file; built-in tables when empty
	CredentialsPath string

	// Report photos
	ImageStore        string
	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicURL       string

	// Report events
	KafkaBrokers []string
	KafkaTopic   string

	SentryDSN    string
	LogRetention time.Duration
}

func Load() *Config {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		RateLimit:      parseInt(getEnv("RATE_LIMIT", "60"), 60),
		LoginRateLimit: parseInt(getEnv("LOGIN_RATE_LIMIT", "10"), 10),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		SessionTTL: parseDuration(getEnv("SESSION_TTL", "12h"), 12*time.Hour),

		StorageDriver:    strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		StorageNamespace: getEnv("STORAGE_NAMESPACE", "campus-reports"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "campus_reports"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		CredentialsPath: getEnv("CREDENTIALS_PATH", ""),

		ImageStore:        strings.ToLower(getEnv("IMAGE_STORE", ImageStoreInline)),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "auto"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3PublicURL:       getEnv("S3_PUBLIC_URL", ""),

		KafkaBrokers: parseCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "campus-reports.events"),

		SentryDSN:    getEnv("SENTRY_DSN", ""),
		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 30*24*time.Hour),
	}
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DBHost == "" || c.DBName == "" {
			return errors.New("config: DB_HOST and DB_NAME are required for the postgres storage driver")
		}
		if c.AppEnv == "production" && c.DBPassword == "" {
			return errors.New("config: in production DB_PASSWORD is required")
		}
	default:
		return errors.New("config: STORAGE_DRIVER must be memory or postgres")
	}
	switch c.ImageStore {
	case ImageStoreInline:
	case ImageStoreS3:
		if c.S3Bucket == "" || c.S3PublicURL == "" {
			return errors.New("config: S3_BUCKET and S3_PUBLIC_URL are required for the s3 image store")
		}
	default:
		return errors.New("config: IMAGE_STORE must be inline or s3")
	}
	if c.StorageNamespace == "" {
		return errors.New("config: STORAGE_NAMESPACE must not be empty")
	}
	return nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// AdminDSN points at the maintenance database, used to create DBName when missing.
func (c *Config) AdminDSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=postgres" +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
