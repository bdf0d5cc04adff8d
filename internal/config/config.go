package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	Queue      QueueConfig
	Email      EmailConfig
	Extraction ExtractionConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// QueueConfig holds batch queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`

	// StaleClaimAfter is how long a document may sit in processing before
	// another worker reclaims it.
	StaleClaimAfter time.Duration `mapstructure:"stale_claim_after"`
}

// StaleAfter returns the reclaim window for claimed documents. It is always
// longer than jobTimeout so a live job is never claimed twice; an unset or
// too short window becomes twice the job timeout.
func (q QueueConfig) StaleAfter(jobTimeout time.Duration) time.Duration {
	if q.StaleClaimAfter > jobTimeout {
		return q.StaleClaimAfter
	}
	return 2 * jobTimeout
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractionConfig holds the document extraction pipeline settings.
type ExtractionConfig struct {
	MinTextThreshold int           `mapstructure:"min_text_threshold"`
	OCREnabled       bool          `mapstructure:"ocr_enabled"`
	OCRDPI           int           `mapstructure:"ocr_dpi"`
	OCRLanguage      string        `mapstructure:"ocr_language"`
	OCRPageSegMode   int           `mapstructure:"ocr_psm"`
	PdftoppmBinary   string        `mapstructure:"pdftoppm_binary"`
	MaxPages         int           `mapstructure:"max_pages"`
	DocumentTimeout  time.Duration `mapstructure:"document_timeout"`
	MatchTimeout     time.Duration `mapstructure:"match_timeout"`
	Workers          int           `mapstructure:"workers"`
}

// Validate rejects settings the pipeline cannot run with.
func (e *ExtractionConfig) Validate() error {
	if e.MinTextThreshold < 1 {
		return errors.New("extraction.min_text_threshold must be at least 1")
	}
	if e.Workers < 1 {
		return errors.New("extraction.workers must be positive")
	}
	if e.MaxPages < 0 {
		return errors.New("extraction.max_pages must not be negative")
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`

	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds API token settings.
type JWTConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Secret      string        `mapstructure:"secret"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
	Issuer      string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables prefixed with BOLX_.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BOLX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "bolx")
	v.SetDefault("db.password", "bolx_secret")
	v.SetDefault("db.name", "bolx_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")

	// JWT defaults
	v.SetDefault("jwt.enabled", false)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.token_expiry", "720h")
	v.SetDefault("jwt.issuer", "bolx")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "bolx-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 200)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 5)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.stale_claim_after", "0s")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@bolx.local")
	v.SetDefault("email.from_name", "BOL Extractor")

	// Extraction defaults
	v.SetDefault("extraction.min_text_threshold", 100)
	v.SetDefault("extraction.ocr_enabled", true)
	v.SetDefault("extraction.ocr_dpi", 300)
	v.SetDefault("extraction.ocr_language", "eng")
	v.SetDefault("extraction.ocr_psm", 6)
	v.SetDefault("extraction.pdftoppm_binary", "pdftoppm")
	v.SetDefault("extraction.max_pages", 0)
	v.SetDefault("extraction.document_timeout", "5m")
	v.SetDefault("extraction.match_timeout", "2s")
	v.SetDefault("extraction.workers", 4)

	// Explicitly bind env vars for nested keys (required for Unmarshal to pick them up)
	envBindings := map[string]string{
		"server.port":                   "BOLX_SERVER_PORT",
		"server.read_timeout":           "BOLX_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "BOLX_SERVER_WRITE_TIMEOUT",
		"server.environment":            "BOLX_SERVER_ENVIRONMENT",
		"db.host":                       "BOLX_DB_HOST",
		"db.port":                       "BOLX_DB_PORT",
		"db.user":                       "BOLX_DB_USER",
		"db.password":                   "BOLX_DB_PASSWORD",
		"db.name":                       "BOLX_DB_NAME",
		"db.sslmode":                    "BOLX_DB_SSLMODE",
		"db.max_open":                   "BOLX_DB_MAX_OPEN",
		"db.max_idle":                   "BOLX_DB_MAX_IDLE",
		"db.conn_max_lifetime":          "BOLX_DB_CONN_MAX_LIFETIME",
		"jwt.enabled":                   "BOLX_JWT_ENABLED",
		"jwt.secret":                    "BOLX_JWT_SECRET",
		"jwt.token_expiry":              "BOLX_JWT_TOKEN_EXPIRY",
		"jwt.issuer":                    "BOLX_JWT_ISSUER",
		"s3.region":                     "BOLX_S3_REGION",
		"s3.bucket":                     "BOLX_S3_BUCKET",
		"s3.endpoint":                   "BOLX_S3_ENDPOINT",
		"s3.access_key":                 "BOLX_S3_ACCESS_KEY",
		"s3.secret_key":                 "BOLX_S3_SECRET_KEY",
		"s3.max_file_size_mb":           "BOLX_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":             "BOLX_S3_PRESIGN_EXPIRY",
		"log.level":                     "BOLX_LOG_LEVEL",
		"log.format":                    "BOLX_LOG_FORMAT",
		"cors.allowed_origins":          "BOLX_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs":      "BOLX_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":             "BOLX_QUEUE_MAX_RETRIES",
		"queue.concurrency":             "BOLX_QUEUE_CONCURRENCY",
		"queue.stale_claim_after":       "BOLX_QUEUE_STALE_CLAIM_AFTER",
		"email.provider":                "BOLX_EMAIL_PROVIDER",
		"email.region":                  "BOLX_EMAIL_REGION",
		"email.from_address":            "BOLX_EMAIL_FROM_ADDRESS",
		"email.from_name":               "BOLX_EMAIL_FROM_NAME",
		"extraction.min_text_threshold": "BOLX_EXTRACTION_MIN_TEXT_THRESHOLD",
		"extraction.ocr_enabled":        "BOLX_EXTRACTION_OCR_ENABLED",
		"extraction.ocr_dpi":            "BOLX_EXTRACTION_OCR_DPI",
		"extraction.ocr_language":       "BOLX_EXTRACTION_OCR_LANGUAGE",
		"extraction.ocr_psm":            "BOLX_EXTRACTION_OCR_PSM",
		"extraction.pdftoppm_binary":    "BOLX_EXTRACTION_PDFTOPPM_BINARY",
		"extraction.max_pages":          "BOLX_EXTRACTION_MAX_PAGES",
		"extraction.document_timeout":   "BOLX_EXTRACTION_DOCUMENT_TIMEOUT",
		"extraction.match_timeout":      "BOLX_EXTRACTION_MATCH_TIMEOUT",
		"extraction.workers":            "BOLX_EXTRACTION_WORKERS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BOLX_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BOLX_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
	}
	cfg.JWT = JWTConfig{
		Enabled:     v.GetBool("jwt.enabled"),
		Secret:      v.GetString("jwt.secret"),
		TokenExpiry: v.GetDuration("jwt.token_expiry"),
		Issuer:      v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
		StaleClaimAfter:  v.GetDuration("queue.stale_claim_after"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	cfg.Extraction = ExtractionConfig{
		MinTextThreshold: v.GetInt("extraction.min_text_threshold"),
		OCREnabled:       v.GetBool("extraction.ocr_enabled"),
		OCRDPI:           v.GetInt("extraction.ocr_dpi"),
		OCRLanguage:      v.GetString("extraction.ocr_language"),
		OCRPageSegMode:   v.GetInt("extraction.ocr_psm"),
		PdftoppmBinary:   v.GetString("extraction.pdftoppm_binary"),
		MaxPages:         v.GetInt("extraction.max_pages"),
		DocumentTimeout:  v.GetDuration("extraction.document_timeout"),
		MatchTimeout:     v.GetDuration("extraction.match_timeout"),
		Workers:          v.GetInt("extraction.workers"),
	}
	if err := cfg.Extraction.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
