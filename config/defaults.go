// Package config provides centralized default values for mwtrack
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

// loadEnvFile loads environment variables from .env file
func loadEnvFile() {
	envLoaded.Do(func() {
		loadEnvFileOnce()
	})
}

func loadEnvFileOnce() {
	file, err := os.Open(".env")
	if err != nil {
		// .env file is optional, don't error if it doesn't exist
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on first = sign
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Only set if not already set in environment
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

func init() {
	// Ensure .env is loaded before any config access
	loadEnvFile()
}

// getEnvInt reads environment variable with fallback to default
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvString reads environment variable with string fallback
func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// Server Configuration
var (
	Port = getEnvString("PORT", "8080")
)

// Identity Resolution
var (
	GeoAPIBaseURL     = getEnvString("GEO_API_BASE_URL", "https://ipapi.co")
	GeoRequestTimeout = time.Duration(getEnvInt("GEO_REQUEST_TIMEOUT_SECONDS", 5)) * time.Second
)

// Storage Configuration
var (
	SQLitePath               = getEnvString("SQLITE_PATH", "data/mwtrack.db")
	DBMaxOpenConns           = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns           = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
)

// Session Cache Configuration
var (
	MaxSessions     = getEnvInt("MAX_SESSIONS", 5000)
	SessionTTL      = time.Duration(getEnvInt("SESSION_TTL_HOURS", 2)) * time.Hour
	CleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute
)

// Media Configuration
var (
	MediaDir = getEnvString("MEDIA_DIR", "media")
)

// Analytics Sink Configuration
var (
	ActivityLogDir = getEnvString("ACTIVITY_LOG_DIR", "logs")
)

// Auth Relay Configuration
var (
	JWTSecret = getEnvString("JWT_SECRET", "mwtrack-dev-secret")
	AESKey    = getEnvString("AES_KEY", "")
)
