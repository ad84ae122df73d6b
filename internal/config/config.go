package config

import (
	"os"
	"strconv"
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
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects the archive backend. Driver is "minio" or "local".
type StorageConfig struct {
	Driver    string
	MediaRoot string
}

// RedisConfig configures the cache used for dashboard stats, the category
// tree and revoked tokens. An empty Addr disables caching.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	KeyPrefix  string
	DefaultTTL time.Duration
}

type AuthConfig struct {
	JWTSecret     string
	Issuer        string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
	BcryptCost    int
	// Failed logins allowed per username and IP within LoginWindow.
	LoginMaxAttempts int
	LoginWindow      time.Duration
}

type UploadConfig struct {
	MaxBytes int64
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Env      string
	Timezone string
	LogLevel string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Upload   UploadConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("APP_ENV", "development"),
		Timezone: getEnv("APP_TIMEZONE", "Asia/Makassar"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
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
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Storage: StorageConfig{
			Driver:    getEnv("STORAGE_DRIVER", "minio"),
			MediaRoot: getEnv("MEDIA_ROOT", "./media"),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", ""),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			KeyPrefix:  getEnv("REDIS_KEY_PREFIX", "arsip:"),
			DefaultTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			Issuer:        getEnv("JWT_ISSUER", "arsip"),
			TokenTTL:      getEnvDuration("JWT_TTL", 12*time.Hour),
			AdminUsername: getEnv("ADMIN_USERNAME", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
			BcryptCost:    getEnvInt("BCRYPT_COST", 12),

			LoginMaxAttempts: getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
			LoginWindow:      getEnvDuration("LOGIN_WINDOW", 15*time.Minute),
		},
		Upload: UploadConfig{
			MaxBytes: int64(getEnvInt("UPLOAD_MAX_MB", 10)) << 20,
		},
	}
}

// Location resolves Timezone, falling back to UTC when the zone is unknown.
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

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
