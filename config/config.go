package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Mail     MailConfig
	Consent  ConsentConfig
	Site     SiteConfig
	Admin    AdminConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all (e.g. https://fahrschule-lenz.de)
}

// DatabaseConfig holds PostgreSQL connection settings. The database is
// optional: leaving URL and Host empty disables the email delivery audit trail.
type DatabaseConfig struct {
	URL      string // if set, used as-is (e.g. postgres://localhost:5432/fahrschule?sslmode=disable)
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings for the consent store.
// An empty Addr falls back to the file-backed consent store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SMTPConfig holds the mail relay settings. Port 465 means implicit TLS;
// any other port upgrades via STARTTLS when the server offers it.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// MailConfig holds sender identity and the two fixed recipients.
type MailConfig struct {
	FromAddress   string
	FromName      string
	OperatorEmail string // the driving school inbox notified of each registration
	InternalEmail string // internal monitoring inbox, gets the short alert
}

// ConsentConfig holds consent record storage settings.
type ConsentConfig struct {
	FilePath string // file store location when Redis is not configured
}

// SiteConfig holds the paths of the two read-only JSON documents served
// to the frontend.
type SiteConfig struct {
	ConfigPath        string
	ImageManifestPath string
}

// AdminConfig holds the static key protecting the admin endpoints.
type AdminConfig struct {
	APIKey string
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Enabled reports whether an audit database is configured at all.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "fahrschule"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 465),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
		},
		Mail: MailConfig{
			FromAddress:   getEnv("MAIL_FROM_ADDRESS", "noreply@fahrschule-lenz.de"),
			FromName:      getEnv("MAIL_FROM_NAME", "Fahrschule Lenz"),
			OperatorEmail: getEnv("MAIL_OPERATOR_ADDRESS", "info@fahrschule-lenz.de"),
			InternalEmail: getEnv("MAIL_INTERNAL_ADDRESS", "anmeldungen@fahrschule-lenz.de"),
		},
		Consent: ConsentConfig{
			FilePath: getEnv("CONSENT_STORE_PATH", "consent-records.json"),
		},
		Site: SiteConfig{
			ConfigPath:        getEnv("SITE_CONFIG_PATH", "site-config.json"),
			ImageManifestPath: getEnv("SITE_IMAGE_MANIFEST_PATH", "image-manifest.json"),
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
