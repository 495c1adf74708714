package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Data backends the console can run against.
const (
	BackendREST   = "rest"
	BackendPgSQL  = "pgsql"
	BackendSQLite = "sqlite"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// DataBackend selects the collection and identity adapters.
	DataBackend    string
	DataServiceURL string
	DataServiceKey string
	DatabaseURL    string
	MigrationsPath string
	SQLitePath     string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// RateLimit uses the limiter format, e.g. "5-M" for five per minute.
	RateLimit string
	RedisURL  string

	CORSAllowedOrigins []string

	PosthogAPIKey   string
	PosthogEndpoint string

	BlobS3Bucket         string
	BlobS3Region         string
	BlobS3Endpoint       string
	BlobS3AccessKey      string
	BlobS3SecretKey      string
	BlobS3UsePathStyle   bool
	AttachmentURLExpiry  time.Duration
	WorkspaceIdleTimeout time.Duration

	// BootstrapEmail and BootstrapPassword seed the first account on the
	// self-hosted backends. Ignored for the rest backend.
	BootstrapEmail    string
	BootstrapPassword string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("DATA_BACKEND", BackendREST)
	v.SetDefault("DATA_SERVICE_URL", "")
	v.SetDefault("DATA_SERVICE_KEY", "")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("SQLITE_PATH", "file:sismog.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "8h")
	v.SetDefault("JWT_ISSUER", "sismog-console")
	v.SetDefault("RATE_LIMIT", "10-M")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	v.SetDefault("BLOB_S3_BUCKET", "")
	v.SetDefault("BLOB_S3_REGION", "us-east-1")
	v.SetDefault("BLOB_S3_ENDPOINT", "")
	v.SetDefault("BLOB_S3_ACCESS_KEY", "")
	v.SetDefault("BLOB_S3_SECRET_KEY", "")
	v.SetDefault("BLOB_S3_USE_PATH_STYLE", false)
	v.SetDefault("ATTACHMENT_URL_EXPIRY", "15m")
	v.SetDefault("WORKSPACE_IDLE_TIMEOUT", "12h")
	v.SetDefault("BOOTSTRAP_ADMIN_EMAIL", "")
	v.SetDefault("BOOTSTRAP_ADMIN_PASSWORD", "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		DataBackend:        strings.ToLower(v.GetString("DATA_BACKEND")),
		DataServiceURL:     strings.TrimRight(v.GetString("DATA_SERVICE_URL"), "/"),
		DataServiceKey:     v.GetString("DATA_SERVICE_KEY"),
		DatabaseURL:        v.GetString("PGSQL_URL"),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		SQLitePath:         v.GetString("SQLITE_PATH"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		RedisURL:           v.GetString("REDIS_URL"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		PosthogAPIKey:      v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:    v.GetString("POSTHOG_ENDPOINT"),
		BlobS3Bucket:       v.GetString("BLOB_S3_BUCKET"),
		BlobS3Region:       v.GetString("BLOB_S3_REGION"),
		BlobS3Endpoint:     v.GetString("BLOB_S3_ENDPOINT"),
		BlobS3AccessKey:    v.GetString("BLOB_S3_ACCESS_KEY"),
		BlobS3SecretKey:    v.GetString("BLOB_S3_SECRET_KEY"),
		BlobS3UsePathStyle: v.GetBool("BLOB_S3_USE_PATH_STYLE"),
		BootstrapEmail:     v.GetString("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapPassword:  v.GetString("BOOTSTRAP_ADMIN_PASSWORD"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.DataBackend {
	case BackendREST:
		if cfg.DataServiceURL == "" {
			return nil, fmt.Errorf("DATA_SERVICE_URL is required for the %s backend", BackendREST)
		}
		if cfg.DataServiceKey == "" {
			log.Println("Warning: DATA_SERVICE_KEY not set. Requests to the data service will be anonymous.")
		}
	case BackendPgSQL:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required for the %s backend", BackendPgSQL)
		}
	case BackendSQLite:
		if cfg.IsProduction {
			log.Println("Warning: running the sqlite backend in production.")
		}
	default:
		return nil, fmt.Errorf("unknown DATA_BACKEND %q", cfg.DataBackend)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "sismog-console"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.JWTExpiryDuration = durationOr(v, "JWT_EXPIRY_DURATION", 8*time.Hour)
	cfg.AttachmentURLExpiry = durationOr(v, "ATTACHMENT_URL_EXPIRY", 15*time.Minute)
	cfg.WorkspaceIdleTimeout = durationOr(v, "WORKSPACE_IDLE_TIMEOUT", 12*time.Hour)

	if (cfg.BootstrapEmail == "") != (cfg.BootstrapPassword == "") {
		return nil, fmt.Errorf("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}

	if cfg.BlobS3Bucket == "" {
		log.Println("Warning: BLOB_S3_BUCKET not set. Penalty attachments will not be downloadable.")
	}

	return cfg, nil
}

// durationOr parses key as a duration, falling back to def with a warning.
func durationOr(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
