package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrEmptyEnvironmentVariable = errors.New("empty environment variable")
	ErrInvalidValue             = errors.New("invalid configuration value")
)

const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverMemory   = "memory"

	StorageProviderS3    = "s3"
	StorageProviderGCS   = "gcs"
	StorageProviderLocal = "local"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Uploads   UploadConfig
	Redis     RedisConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
	Captcha   CaptchaConfig
	Services  ServicesConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port             int
	JSONTimeout      time.Duration
	MultipartTimeout time.Duration
	AllowedOrigins   []string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string
	Host     string
	Username string
	Password string
	Name     string
	SSLMode  string
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

// StorageConfig selects and configures the object store for attachments
type StorageConfig struct {
	Provider      string
	Bucket        string
	PublicBaseURL string

	// S3 and S3-compatible endpoints
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool

	// GCS
	GCSCredentialsFile string
	GCSCredentialsJSON string

	// local filesystem
	LocalBasePath string
}

// UploadConfig holds the attachment intake limits
type UploadConfig struct {
	MaxFileSize   int64
	MaxDocuments  int
	UploadTimeout time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// EmailConfig holds transactional email settings
type EmailConfig struct {
	Enabled       bool
	ResendAPIKey  string
	DefaultSender string
	ReviewerInbox string
}

// RateLimitConfig holds the public submission throttling settings
type RateLimitConfig struct {
	SubmissionsPerMinute int
}

// CaptchaConfig holds Cloudflare Turnstile settings. Public submissions are
// only challenged when a secret key is set.
type CaptchaConfig struct {
	TurnstileSecretKey string
}

// ServicesConfig holds external service URIs
type ServicesConfig struct {
	WebAppURI string
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}
	var err error

	// Server configuration
	if cfg.Server.Port, err = getIntWithDefault("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.Server.JSONTimeout, err = getDurationWithDefault("SERVER_JSON_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.Server.MultipartTimeout, err = getDurationWithDefault("SERVER_MULTIPART_TIMEOUT", 120*time.Second); err != nil {
		return nil, err
	}
	cfg.Server.AllowedOrigins = splitList(getEnvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	// Database configuration
	cfg.Database.Driver = getEnvWithDefault("DB_DRIVER", DatabaseDriverPostgres)
	switch cfg.Database.Driver {
	case DatabaseDriverPostgres:
		if cfg.Database.Host, err = requireEnv("DB_HOST"); err != nil {
			return nil, err
		}
		if cfg.Database.Username, err = requireEnv("DB_USERNAME"); err != nil {
			return nil, err
		}
		if cfg.Database.Password, err = requireEnv("DB_PASSWORD"); err != nil {
			return nil, err
		}
		if cfg.Database.Name, err = requireEnv("DB_NAME"); err != nil {
			return nil, err
		}
		cfg.Database.SSLMode = getEnvWithDefault("DB_SSLMODE", "disable")
	case DatabaseDriverMemory:
	default:
		return nil, fmt.Errorf("DB_DRIVER %q: %w", cfg.Database.Driver, ErrInvalidValue)
	}

	// Auth configuration
	if cfg.Auth.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}
	if cfg.Auth.TokenTTL, err = getDurationWithDefault("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	cfg.Auth.AdminEmail = os.Getenv("ADMIN_EMAIL")
	cfg.Auth.AdminPassword = os.Getenv("ADMIN_PASSWORD")

	// Storage configuration
	cfg.Storage.Provider = getEnvWithDefault("STORAGE_PROVIDER", StorageProviderLocal)
	cfg.Storage.PublicBaseURL = strings.TrimRight(os.Getenv("STORAGE_PUBLIC_BASE_URL"), "/")
	switch cfg.Storage.Provider {
	case StorageProviderS3:
		if cfg.Storage.Bucket, err = requireEnv("STORAGE_BUCKET"); err != nil {
			return nil, err
		}
		cfg.Storage.Region = getEnvWithDefault("AWS_REGION", "us-east-1")
		cfg.Storage.Endpoint = os.Getenv("STORAGE_ENDPOINT")
		cfg.Storage.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
		cfg.Storage.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
		cfg.Storage.UsePathStyle = getEnvWithDefault("STORAGE_USE_PATH_STYLE", "false") == "true"
	case StorageProviderGCS:
		if cfg.Storage.Bucket, err = requireEnv("STORAGE_BUCKET"); err != nil {
			return nil, err
		}
		cfg.Storage.GCSCredentialsFile = os.Getenv("GCS_CREDENTIALS_FILE")
		cfg.Storage.GCSCredentialsJSON = os.Getenv("GCS_CREDENTIALS_JSON")
	case StorageProviderLocal:
		cfg.Storage.LocalBasePath = getEnvWithDefault("STORAGE_LOCAL_PATH", "./uploads")
		if cfg.Storage.PublicBaseURL == "" {
			cfg.Storage.PublicBaseURL = fmt.Sprintf("http://localhost:%d/uploads", cfg.Server.Port)
		}
	default:
		return nil, fmt.Errorf("STORAGE_PROVIDER %q: %w", cfg.Storage.Provider, ErrInvalidValue)
	}

	// Upload limits
	maxFileSize, err := getIntWithDefault("UPLOAD_MAX_FILE_SIZE", 5*1024*1024)
	if err != nil {
		return nil, err
	}
	cfg.Uploads.MaxFileSize = int64(maxFileSize)
	if cfg.Uploads.MaxDocuments, err = getIntWithDefault("UPLOAD_MAX_DOCUMENTS", 5); err != nil {
		return nil, err
	}
	if cfg.Uploads.UploadTimeout, err = getDurationWithDefault("UPLOAD_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}

	// Redis configuration
	cfg.Redis.Enabled = getEnvWithDefault("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Host = getEnvWithDefault("REDIS_HOST", "localhost")
	if cfg.Redis.Port, err = getIntWithDefault("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = getIntWithDefault("REDIS_DB", 0); err != nil {
		return nil, err
	}

	// Email configuration
	cfg.Email.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.Email.Enabled = cfg.Email.ResendAPIKey != ""
	cfg.Email.DefaultSender = getEnvWithDefault("DEFAULT_EMAIL_SENDER_ADDRESS", "BAY SA WAAR <noreply@baysawaar.com>")
	cfg.Email.ReviewerInbox = os.Getenv("REVIEWER_INBOX")

	// Rate limit configuration
	if cfg.RateLimit.SubmissionsPerMinute, err = getIntWithDefault("RATE_LIMIT_SUBMISSIONS_PER_MINUTE", 10); err != nil {
		return nil, err
	}

	cfg.Captcha.TurnstileSecretKey = os.Getenv("TURNSTILE_SECRET_KEY")

	cfg.Services.WebAppURI = getEnvWithDefault("WEBAPP_URI", "http://localhost:3000")

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		c.Username, c.Password, c.Host, c.Name, c.SSLMode)
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntWithDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return parsed, nil
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return parsed, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
