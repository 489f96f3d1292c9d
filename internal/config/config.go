package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `envconfig:"DB_HOST"`
	Port               string `envconfig:"DB_PORT" default:"5432"`
	User               string `envconfig:"DB_USER"`
	Password           string `envconfig:"DB_PASSWORD"`
	Name               string `envconfig:"DB_NAME"`
	SSLMode            string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns       int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns       int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetimeSec int    `envconfig:"DB_CONN_MAX_LIFETIME_SEC" default:"300"`
	ConnectTimeoutSec  int    `envconfig:"DB_CONNECT_TIMEOUT_SEC" default:"5"`
	ConnectAttempts    int    `envconfig:"DB_CONNECT_ATTEMPTS" default:"3"`
}

// MinIOConfig holds object storage settings for MinIO.
// Storage is optional: an empty endpoint disables backups.
type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	Bucket    string `envconfig:"MINIO_BUCKET"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	Region    string `envconfig:"MINIO_REGION"`
}

// Enabled reports whether enough settings are present to build a storage client.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// BackupConfig controls portfolio snapshots uploaded to object storage.
type BackupConfig struct {
	Schedule string        `envconfig:"BACKUP_SCHEDULE"`
	Keep     int           `envconfig:"BACKUP_KEEP" default:"7"`
	URLTTL   time.Duration `envconfig:"BACKUP_URL_TTL" default:"15m"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port     string `envconfig:"PORT" default:"8080"`
	TimeZone string `envconfig:"TZ" default:"UTC"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Database DatabaseConfig
	MinIO    MinIOConfig
	Backup   BackupConfig
}

// Location resolves TimeZone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first if present;
// real environment variables take precedence over it.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// ClientConfig configures the scholarctl command line client.
type ClientConfig struct {
	BaseURL  string        `envconfig:"SCHOLARPORT_URL" default:"http://localhost:8080"`
	Timeout  time.Duration `envconfig:"SCHOLARPORT_TIMEOUT" default:"10s"`
	Debounce time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"300ms"`
}

// LoadClient reads the client configuration from the environment.
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	var cfg ClientConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load client config: %w", err)
	}
	return &cfg, nil
}
