package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	Storage  StorageConfig
	Booking  BookingConfig
	Jobs     JobsConfig
	App      AppConfig
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
	WebAPIKey       string
	StorageBucket   string
}

type StorageConfig struct {
	Provider          string // firebase or s3
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	ImageMaxDimension int
	ImageMaxPixels    int
	PlaceholderImage  string
}

type BookingConfig struct {
	PaymentDelay       time.Duration
	DefaultOrderAmount float64
	IdempotencyTTL     time.Duration
	PendingKeyTTL      time.Duration
}

type JobsConfig struct {
	Enabled       bool
	ViewFlushSpec string
	RatingSpec    string
}

type AppConfig struct {
	Environment    string
	LogLevel       string
	Version        string
	City           string
	RoleCacheTTL   time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

const (
	StorageFirebase = "firebase"
	StorageS3       = "s3"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "marketplace"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			WebAPIKey:       getEnv("FIREBASE_WEB_API_KEY", ""),
			StorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
		},
		Storage: StorageConfig{
			Provider:          strings.ToLower(getEnv("STORAGE_PROVIDER", StorageFirebase)),
			S3Region:          getEnv("S3_REGION", "ap-south-1"),
			S3Bucket:          getEnv("S3_BUCKET", ""),
			S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			ImageMaxDimension: getEnvAsInt("IMAGE_MAX_DIMENSION", 800),
			ImageMaxPixels:    getEnvAsInt("IMAGE_MAX_PIXELS", 40_000_000),
			PlaceholderImage:  getEnv("PLACEHOLDER_IMAGE_URL", "https://via.placeholder.com/400"),
		},
		Booking: BookingConfig{
			PaymentDelay:       getEnvAsDuration("PAYMENT_DELAY", 2*time.Second),
			DefaultOrderAmount: getEnvAsFloat("DEFAULT_ORDER_AMOUNT", 299),
			IdempotencyTTL:     getEnvAsDuration("IDEMPOTENCY_TTL", 24*time.Hour),
			PendingKeyTTL:      getEnvAsDuration("IDEMPOTENCY_PENDING_TTL", time.Minute),
		},
		Jobs: JobsConfig{
			Enabled:       getEnvAsBool("JOBS_ENABLED", true),
			ViewFlushSpec: getEnv("JOBS_VIEW_FLUSH_SPEC", "*/30 * * * * *"),
			RatingSpec:    getEnv("JOBS_RATING_SPEC", "0 0 0 * * *"),
		},
		App: AppConfig{
			Environment:    getEnv("APP_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			City:           getEnv("APP_CITY", "Durgapur"),
			RoleCacheTTL:   getEnvAsDuration("ROLE_CACHE_TTL", 30*time.Minute),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 2),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 5),
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

	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("DB_DSN or DB_HOST is required")
	}

	if c.Booking.PaymentDelay <= 0 {
		return fmt.Errorf("PAYMENT_DELAY must be positive")
	}

	if c.Booking.PendingKeyTTL <= c.Booking.PaymentDelay {
		return fmt.Errorf("IDEMPOTENCY_PENDING_TTL must be longer than PAYMENT_DELAY")
	}

	if c.Booking.DefaultOrderAmount <= 0 {
		return fmt.Errorf("DEFAULT_ORDER_AMOUNT must be positive")
	}

	switch c.Storage.Provider {
	case StorageFirebase, StorageS3:
	default:
		return fmt.Errorf("STORAGE_PROVIDER must be %q or %q, got %q", StorageFirebase, StorageS3, c.Storage.Provider)
	}

	if c.Storage.Provider == StorageS3 && c.Storage.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when STORAGE_PROVIDER=s3")
	}

	return nil
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
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
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
