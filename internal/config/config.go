package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RenderConfig holds settings for the audit PDF pipeline.
//
// DefaultTemplateID is the template used by POST /audit-form when no template
// id is supplied in the path. It must come from configuration, never from a
// literal in handler or service code.
type RenderConfig struct {
	DefaultTemplateID string
	RenderTimeout     time.Duration
	UploadTimeout     time.Duration
	ImageFetchTimeout time.Duration
	PresignExpiry     time.Duration
}

// AuthConfig holds JWT signing settings for the auth endpoints.
type AuthConfig struct {
	Issuer     string
	SigningKey string
	AccessTTL  time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Render   RenderConfig
	Auth     AuthConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Render: RenderConfig{
			DefaultTemplateID: getEnv("AUDIT_DEFAULT_TEMPLATE_ID", ""),
			RenderTimeout:     getEnvDuration("RENDER_TIMEOUT_SEC", 30),
			UploadTimeout:     getEnvDuration("UPLOAD_TIMEOUT_SEC", 30),
			ImageFetchTimeout: getEnvDuration("IMAGE_FETCH_TIMEOUT_SEC", 10),
			PresignExpiry:     getEnvDuration("PDF_PRESIGN_EXPIRY_SEC", 7*24*3600),
		},
		Auth: AuthConfig{
			Issuer:     getEnv("JWT_ISSUER", "auditapi"),
			SigningKey: getEnv("JWT_SIGNING_KEY", ""),
			AccessTTL:  getEnvDuration("JWT_ACCESS_TTL_SEC", 24*3600),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration reads a duration expressed in whole seconds.
func getEnvDuration(key string, defSec int) time.Duration {
	return time.Duration(getEnvInt(key, defSec)) * time.Second
}
