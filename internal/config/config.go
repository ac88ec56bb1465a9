package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Inventory InventoryConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // postgres | sqlite
	URL      string // DATABASE_URL, or the sqlite file/DSN
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	LogLevel string // silent | error | warn | info
	Timeout  time.Duration
}

type AuthConfig struct {
	JWTSecret            string
	TokenTTL             time.Duration
	AdminUsername        string
	AdminPassword        string
	DefaultStorePassword string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type InventoryConfig struct {
	LowStockThreshold float64
	TrendDays         int
}

type RateLimitConfig struct {
	LoginMax    int
	LoginWindow time.Duration
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	minSecretLength = 32
)

// Load reads configuration from the environment, loading .env first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	return &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Store Orders API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "store_orders"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			LogLevel: strings.ToLower(getEnv("DB_LOG_LEVEL", "warn")),
			Timeout:  time.Duration(getEnvInt("DB_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret:            strings.TrimSpace(os.Getenv("JWT_SECRET")),
			TokenTTL:             time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
			AdminUsername:        strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
			AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
			DefaultStorePassword: getEnv("DEFAULT_STORE_PASSWORD", "123456"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Inventory: InventoryConfig{
			LowStockThreshold: getEnvFloat("LOW_STOCK_THRESHOLD", 10),
			TrendDays:         getEnvInt("TREND_DAYS", 14),
		},
		RateLimit: RateLimitConfig{
			LoginMax:    getEnvInt("LOGIN_RATE_MAX", 10),
			LoginWindow: time.Duration(getEnvInt("LOGIN_RATE_WINDOW_SECONDS", 60)) * time.Second,
		},
	}
}

// Validate rejects configurations that must never reach production, such as a weak signing secret.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be set and at least %d characters", minSecretLength)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.Driver == DriverSQLite && c.Database.URL == "" {
		return errors.New("DATABASE_URL must point to a sqlite file when DB_DRIVER=sqlite")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL_HOURS must be positive")
	}
	if c.Database.Timeout <= 0 {
		return errors.New("DB_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + c.App.Port
}

// GetDSN returns the postgres connection string, preferring DATABASE_URL when set.
func (c *DatabaseConfig) GetDSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
