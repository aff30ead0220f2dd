// Package config centralizes the application's configuration.
// Values come from environment variables; a .env file is loaded first when present.
//
// One Config value is built at startup and handed to every layer, instead of
// calling os.Getenv from scattered places.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every configuration value of the application.
// Each concern lives in its own sub-struct.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Upload     UploadConfig
	Cloudinary CloudinaryConfig
	Redis      RedisConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string // SQLite file path (e.g. ./data/storefront.db)
}

// JWTConfig holds bearer token settings.
type JWTConfig struct {
	Secret             string // signing key, keep it secret
	AccessTokenExpiry  int    // minutes
	RefreshTokenExpiry int    // days
}

// UploadConfig holds product image upload limits and the local fallback directory.
type UploadConfig struct {
	Dir      string // used only when Cloudinary is not configured
	MaxSize  int64  // bytes per file
	MaxFiles int
}

// CloudinaryConfig selects the hosted image store. An empty URL means the
// local disk store is used and files are served under /uploads/.
type CloudinaryConfig struct {
	URL    string // cloudinary://<key>:<secret>@<cloud>
	Folder string
}

// RedisConfig selects the refresh-session store. An empty URL keeps sessions in SQLite.
type RedisConfig struct {
	URL string
}

// Load builds Config from the environment.
func Load() (*Config, error) {
	// Missing .env is fine: production uses real environment variables.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	accessExpiry, err := strconv.Atoi(getEnv("JWT_ACCESS_EXPIRY_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRY_MINUTES: %w", err)
	}

	refreshExpiry, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRY_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRY_DAYS: %w", err)
	}

	maxSize, err := strconv.ParseInt(getEnv("UPLOAD_MAX_SIZE", "10485760"), 10, 64) // 10MB
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_SIZE: %w", err)
	}

	maxFiles, err := strconv.Atoi(getEnv("UPLOAD_MAX_FILES", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_FILES: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		},
		Database: LoadDatabase(),
		JWT: JWTConfig{
			Secret:             jwtSecret,
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "./uploads"),
			MaxSize:  maxSize,
			MaxFiles: maxFiles,
		},
		Cloudinary: CloudinaryConfig{
			URL:    getEnv("CLOUDINARY_URL", ""),
			Folder: getEnv("CLOUDINARY_FOLDER", "products"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings, for tools that need
// nothing else (e.g. cmd/make-admin).
func LoadDatabase() DatabaseConfig {
	_ = godotenv.Load()
	return DatabaseConfig{
		Path: getEnv("DATABASE_PATH", "./data/storefront.db"),
	}
}

// Addr returns the listen address (e.g. "0.0.0.0:5000").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv reads an environment variable, returning fallback when it is unset.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
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
