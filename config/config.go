package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Firebase   FirebaseConfig
	Firestore  FirestoreConfig
	Redis      RedisConfig
	Cloudinary CloudinaryConfig
	RateLimit  RateLimitConfig
	Audit      AuditConfig
	App        AppConfig
}

type ServerConfig struct {
	Port string
}

type FirebaseConfig struct {
	CredentialsPath string
}

type FirestoreConfig struct {
	ProjectID string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CloudinaryConfig struct {
	CloudName    string
	UploadPreset string
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

type AuditConfig struct {
	// Spec is a cron expression with a seconds field, e.g. "0 */15 * * * *".
	Spec    string
	Enabled bool
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Firestore: FirestoreConfig{
			ProjectID: getEnv("FIRESTORE_PROJECT_ID", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cloudinary: CloudinaryConfig{
			CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
			UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 120),
		},
		Audit: AuditConfig{
			Spec:    getEnv("CART_AUDIT_SPEC", "0 */15 * * * *"),
			Enabled: getEnvAsBool("CART_AUDIT_ENABLED", true),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Firestore.ProjectID == "" {
		return fmt.Errorf("FIRESTORE_PROJECT_ID is required")
	}

	if c.Cloudinary.CloudName == "" {
		return fmt.Errorf("CLOUDINARY_CLOUD_NAME is required")
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}

	return nil
}

// TokenCacheTTL bounds how long a verified token may be served from cache.
// Firebase ID tokens live for an hour; we stay well under that.
const TokenCacheTTL = 5 * time.Minute

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
