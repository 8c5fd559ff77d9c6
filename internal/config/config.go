package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	LogLevel        string
	ShutdownTimeout time.Duration
	MaxUploadSize   int64

	// DisplayLocation is the zone used to derive calendar-day keys for the date filter.
	DisplayLocation *time.Location

	// StaffPasswordHash is a bcrypt hash; an empty value leaves the API open.
	StaffPasswordHash string
	SessionSecret     string
	SessionTTL        time.Duration

	Storage StorageConfig

	// Args holds positional arguments left after flag parsing.
	Args []string
}

// StorageConfig describes the S3-compatible bucket that keeps order photos.
type StorageConfig struct {
	Bucket          string
	Endpoint        string
	Region          string
	PublicURL       string
	AccessKeyID     string
	SecretAccessKey string
}

const (
	defaultRunAddress      = ":8080"
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxUploadSize   = 32 << 20
	defaultBucket          = "order-photos"
	defaultRegion          = "us-east-1"
	defaultTimezone        = "Local"
	defaultSessionSecret   = "change-me-in-production"
	defaultSessionTTL      = 12 * time.Hour
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MaxUploadSize:     int64(getInt(lookup, "MAX_UPLOAD_SIZE", defaultMaxUploadSize)),
		StaffPasswordHash: getString(lookup, "STAFF_PASSWORD_HASH", ""),
		SessionSecret:     getString(lookup, "SESSION_SECRET", defaultSessionSecret),
		SessionTTL:        getDuration(lookup, "SESSION_TTL", defaultSessionTTL),
		Storage: StorageConfig{
			Bucket:          getString(lookup, "STORAGE_BUCKET", defaultBucket),
			Endpoint:        getString(lookup, "STORAGE_ENDPOINT", ""),
			Region:          getString(lookup, "STORAGE_REGION", defaultRegion),
			PublicURL:       getString(lookup, "STORAGE_PUBLIC_URL", ""),
			AccessKeyID:     getString(lookup, "STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getString(lookup, "STORAGE_SECRET_ACCESS_KEY", ""),
		},
	}

	fs := flag.NewFlagSet("bloomorders", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		sessionTTLStr      = cfg.SessionTTL.String()
		timezone           = getString(lookup, "DISPLAY_TIMEZONE", defaultTimezone)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Secret for signing staff session tokens")
	fs.StringVar(&sessionTTLStr, "session-ttl", sessionTTLStr, "Staff session lifetime")
	fs.Int64Var(&cfg.MaxUploadSize, "max-upload", cfg.MaxUploadSize, "Multipart memory limit in bytes")
	fs.StringVar(&timezone, "tz", timezone, "Time zone for calendar-day filtering")
	fs.StringVar(&cfg.Storage.Bucket, "bucket", cfg.Storage.Bucket, "Photo storage bucket")
	fs.StringVar(&cfg.Storage.Endpoint, "storage-endpoint", cfg.Storage.Endpoint, "S3-compatible storage endpoint")
	fs.StringVar(&cfg.Storage.Region, "storage-region", cfg.Storage.Region, "Photo storage region")
	fs.StringVar(&cfg.Storage.PublicURL, "storage-public-url", cfg.Storage.PublicURL, "Base URL for public photo links")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	cfg.Args = fs.Args()

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.SessionTTL, err = time.ParseDuration(sessionTTLStr); err != nil {
		return nil, fmt.Errorf("invalid session ttl: %w", err)
	}

	if cfg.DisplayLocation, err = time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid display timezone: %w", err)
	}

	if hashFile, ok := lookup("STAFF_PASSWORD_HASH_FILE"); ok && hashFile != "" {
		content, err := os.ReadFile(hashFile)
		if err != nil {
			return nil, fmt.Errorf("read staff password hash file: %w", err)
		}
		cfg.StaffPasswordHash = strings.TrimSpace(string(content))
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = defaultMaxUploadSize
	}

	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = defaultBucket
	}

	if cfg.Storage.Region == "" {
		cfg.Storage.Region = defaultRegion
	}

	cfg.Storage.PublicURL = strings.TrimRight(cfg.Storage.PublicURL, "/")

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
