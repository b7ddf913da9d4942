// Package config provides centralized default values for FolioStack
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err == nil {
			log.Println("Loading configuration overrides from .env file...")
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database
	SQLitePath               string
	TursoEnabled             bool
	TursoDatabase            string
	TursoToken               string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int

	// Auth
	JWTSecret       string
	AdminPassword   string
	SessionTTL      time.Duration
	AdminLoginPath  string
	AllowedOrigins  []string
	CookieSecure    bool
	SessionFeedPing time.Duration

	// Media
	MediaPath     string
	MediaBaseURL  string
	MaxImageWidth int
	ThumbWidth    int
	WebPQuality   float32

	// Email
	ContactNotifyEnabled bool
	ContactNotifyTo      string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database
	SQLitePath = getEnvString("SQLITE_PATH", "data/foliostack.db")
	TursoEnabled = getEnvBool("TURSO_ENABLED", false)
	TursoDatabase = getEnvString("TURSO_DATABASE_URL", "")
	TursoToken = getEnvString("TURSO_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)

	// Auth
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminPassword = getEnvString("ADMIN_PASSWORD", "")
	SessionTTL = getEnvDuration("SESSION_TTL", 24*time.Hour)
	AdminLoginPath = getEnvString("ADMIN_LOGIN_PATH", "/admin/login")
	CookieSecure = getEnvBool("COOKIE_SECURE", false)
	SessionFeedPing = getEnvDuration("SESSION_FEED_PING", 30*time.Second)
	AllowedOrigins = strings.Split(getEnvString("ALLOWED_ORIGINS",
		"http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173"), ",")

	// Media
	MediaPath = getEnvString("MEDIA_PATH", "media")
	MediaBaseURL = getEnvString("MEDIA_BASE_URL", "/media")
	MaxImageWidth = getEnvInt("MAX_IMAGE_WIDTH", 1920)
	ThumbWidth = getEnvInt("THUMB_WIDTH", 400)
	WebPQuality = float32(getEnvInt("WEBP_QUALITY", 85))

	// Email
	ContactNotifyEnabled = getEnvBool("CONTACT_NOTIFY_ENABLED", false)
	ContactNotifyTo = getEnvString("CONTACT_NOTIFY_TO", "")
}
