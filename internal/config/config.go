// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Database    DatabaseConfig
	Shop        ShopConfig
	Cache       CacheConfig
	AWS         AWSConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Driver         string // "sqlite" or "postgres"
	Path           string // sqlite file
	Host           string
	Port           string
	User           string
	Password       string
	Database       string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    int
	LogLevel       string
	ConnectRetries int
	RetryDelay     int // in seconds
}

type ShopConfig struct {
	Name                string
	TimeZone            string
	DefaultMinStock     int
	WalkInCustomer      string
	ProductDeletePolicy string // "cascade" or "restrict"
	BackupDir           string
}

type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AnalyticsTTL  int // in seconds
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Prefix        string
}

type RateLimitConfig struct {
	Enabled        bool
	RequestsPerSec int
	Burst          int
}

type CORSConfig struct {
	AllowOrigins []string
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DeletePolicyCascade  = "cascade"
	DeletePolicyRestrict = "restrict"
)

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:         strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:           getEnv("DB_PATH", "stationery.db"),
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			Database:       getEnv("DB_NAME", "stationery"),
			SSLMode:        getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:   getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:    getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:       getEnv("DB_LOG_LEVEL", "warn"),
			ConnectRetries: getEnvAsInt("DB_CONNECT_RETRIES", 5),
			RetryDelay:     getEnvAsInt("DB_RETRY_DELAY", 2),
		},
		Shop: ShopConfig{
			Name:                getEnv("SHOP_NAME", "Stationery Shop"),
			TimeZone:            getEnv("SHOP_TIMEZONE", "Local"),
			DefaultMinStock:     getEnvAsInt("SHOP_DEFAULT_MIN_STOCK", 5),
			WalkInCustomer:      getEnv("SHOP_WALK_IN_CUSTOMER", "Walk-in Customer"),
			ProductDeletePolicy: strings.ToLower(getEnv("PRODUCT_DELETE_POLICY", DeletePolicyCascade)),
			BackupDir:           getEnv("BACKUP_DIR", "./backups"),
		},
		Cache: CacheConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			AnalyticsTTL:  getEnvAsInt("ANALYTICS_CACHE_TTL", 30),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "stationery-ledger-backups"),
			S3Prefix:        getEnv("AWS_S3_PREFIX", "exports"),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerSec: getEnvAsInt("RATE_LIMIT_RPS", 10),
			Burst:          getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvAsList("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Database.Driver == DriverPostgres && c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	switch c.Shop.ProductDeletePolicy {
	case DeletePolicyCascade, DeletePolicyRestrict:
	default:
		return fmt.Errorf("unsupported PRODUCT_DELETE_POLICY %q", c.Shop.ProductDeletePolicy)
	}

	if c.Shop.DefaultMinStock < 0 {
		return fmt.Errorf("SHOP_DEFAULT_MIN_STOCK must be >= 0")
	}

	if _, err := c.Shop.Location(); err != nil {
		return fmt.Errorf("invalid SHOP_TIMEZONE: %w", err)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSec <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be > 0")
	}

	return nil
}

// Location resolves the shop's configured time zone.
func (s ShopConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.TimeZone)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
