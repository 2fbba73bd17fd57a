package config

import (
	"os"
	"strconv"
	"strings"
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
	PingTimeoutSec     int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects where resume files live.
type StorageConfig struct {
	// Backend is "local" (default) or "minio".
	Backend string
	// ResumeDir is the root directory for the local backend. It is created at startup.
	ResumeDir       string
	CleanupOnDelete bool
}

// MailConfig holds SMTP transport and notification rendering settings.
// An empty Host disables delivery.
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	TLS         string
	From        string
	FromName    string
	FooterImage string
	EmbedFooter bool
	SimpleMode  bool
	TimeoutSec  int
}

// WorkflowConfig controls applicant status handling.
type WorkflowConfig struct {
	// StatusPolicy is "permissive" (any status may follow any other) or "strict".
	StatusPolicy string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string // advertised in the Swagger document when a request has no Host
	Port           string
	Timezone       string
	AllowedOrigins []string
	AdminToken     string
	Database       DatabaseConfig
	MinIO          MinIOConfig
	Storage        StorageConfig
	Mail           MailConfig
	Workflow       WorkflowConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", "localhost:8080"),
		Port:           getEnv("PORT", "8080"),
		Timezone:       getEnv("APP_TZ", "UTC"),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		AdminToken:     getEnv("ADMIN_TOKEN", ""),
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
			PingTimeoutSec:     getEnvInt("DB_PING_TIMEOUT_SEC", 5),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Storage: StorageConfig{
			Backend:         strings.ToLower(getEnv("STORAGE_BACKEND", "local")),
			ResumeDir:       getEnv("RESUME_DIR", "uploads/resumes"),
			CleanupOnDelete: getEnvBool("RESUME_CLEANUP_ON_DELETE", false),
		},
		Mail: MailConfig{
			Host:        getEnv("SMTP_HOST", ""),
			Port:        getEnvInt("SMTP_PORT", 587),
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			TLS:         strings.ToLower(getEnv("SMTP_TLS", "mandatory")),
			From:        getEnv("MAIL_FROM", ""),
			FromName:    getEnv("MAIL_FROM_NAME", "Recruitment Team"),
			FooterImage: getEnv("MAIL_FOOTER_IMAGE", ""),
			EmbedFooter: getEnvBool("MAIL_EMBED_FOOTER", true),
			SimpleMode:  getEnvBool("MAIL_SIMPLE_MODE", false),
			TimeoutSec:  getEnvInt("MAIL_TIMEOUT_SEC", 15),
		},
		Workflow: WorkflowConfig{
			StatusPolicy: strings.ToLower(getEnv("STATUS_POLICY", "permissive")),
		},
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
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

// getEnvList splits a comma-separated value, dropping blank entries.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
