package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port               string
	Mode               string
	CORSAllowedOrigins []string

	// Upstream vending API
	APIBaseURL        string
	APITimeoutSeconds int

	// Database configuration (operation log)
	DatabaseURL string

	// Redis configuration (notices)
	RedisURL string

	// Notice configuration
	NoticeTTLSeconds int
	NoticeCapacity   int

	// View configuration
	LowStockThreshold      int
	PurchaseDisplaySeconds int
	DashboardTimezone      string

	LogLevel string
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = New()
	return nil
}

// New reads the configuration from the environment without touching AppConfig
func New() *Config {
	return &Config{
		Port:                   getEnv("PORT", "8080"),
		Mode:                   getEnv("GIN_MODE", "debug"),
		CORSAllowedOrigins:     getEnvList("CORS_ALLOWED_ORIGINS"),
		APIBaseURL:             getEnv("API_BASE_URL", "http://127.0.0.1:8000/api/"),
		APITimeoutSeconds:      getEnvInt("API_TIMEOUT_SECONDS", 10),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		RedisURL:               getEnv("REDIS_URL", ""),
		NoticeTTLSeconds:       getEnvInt("NOTICE_TTL_SECONDS", 3),
		NoticeCapacity:         getEnvInt("NOTICE_CAPACITY", 50),
		LowStockThreshold:      getEnvInt("LOW_STOCK_THRESHOLD", 5),
		PurchaseDisplaySeconds: getEnvInt("PURCHASE_DISPLAY_SECONDS", 3),
		DashboardTimezone:      getEnv("DASHBOARD_TIMEZONE", "Local"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}
}

// APITimeout returns the upstream request timeout
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

// NoticeTTL returns how long a notice stays visible
func (c *Config) NoticeTTL() time.Duration {
	return time.Duration(c.NoticeTTLSeconds) * time.Second
}

// PurchaseDisplay returns how long a purchase outcome is shown before returning to idle
func (c *Config) PurchaseDisplay() time.Duration {
	return time.Duration(c.PurchaseDisplaySeconds) * time.Second
}

// Location resolves DashboardTimezone, falling back to the local zone
func (c *Config) Location() *time.Location {
	if c.DashboardTimezone == "" || c.DashboardTimezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.DashboardTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
