// Package config provides centralized default values for ShelfShare
package config

import (
	"log"
	"os"
	"strconv"
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

	// Auth Configuration
	JWTSecret   string
	TokenExpiry time.Duration

	// Storage Configuration
	DataDir    string
	UploadsDir string

	// Cover Image Configuration
	CoverMaxWidth    int
	CoverWebPQuality int
	UploadMaxBytes   int64

	// Realtime Configuration
	ClientSendBufferSize int
	WriteWait            time.Duration
	PongWait             time.Duration
	PingPeriod           time.Duration
	MaxMessageSize       int64

	// View Tracking Configuration
	ViewDedupWindow     time.Duration
	ActiveViewerWindow  time.Duration
	ViewRetention       time.Duration
	ViewCleanupInterval time.Duration
	CleanupVerbose      bool
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Auth Configuration
	JWTSecret = getEnvString("JWT_SECRET", "shelfshare-dev-secret")
	TokenExpiry = time.Duration(getEnvInt("TOKEN_EXPIRY_DAYS", 7)) * 24 * time.Hour

	// Storage Configuration
	DataDir = getEnvString("DATA_DIR", "data")
	UploadsDir = getEnvString("UPLOADS_DIR", "uploads")

	// Cover Image Configuration
	CoverMaxWidth = getEnvInt("COVER_MAX_WIDTH", 800)
	CoverWebPQuality = getEnvInt("COVER_WEBP_QUALITY", 80)
	UploadMaxBytes = int64(getEnvInt("UPLOAD_MAX_MB", 5)) * 1024 * 1024

	// Realtime Configuration
	ClientSendBufferSize = getEnvInt("CLIENT_SEND_BUFFER", 16)
	WriteWait = getEnvDuration("WS_WRITE_WAIT", 10*time.Second)
	PongWait = getEnvDuration("WS_PONG_WAIT", 60*time.Second)
	PingPeriod = (PongWait * 9) / 10
	MaxMessageSize = int64(getEnvInt("WS_MAX_MESSAGE_BYTES", 4096))

	// View Tracking Configuration
	ViewDedupWindow = time.Duration(getEnvInt("VIEW_DEDUP_WINDOW_MINUTES", 15)) * time.Minute
	ActiveViewerWindow = time.Duration(getEnvInt("ACTIVE_VIEWER_WINDOW_MINUTES", 5)) * time.Minute
	ViewRetention = time.Duration(getEnvInt("VIEW_RETENTION_DAYS", 7)) * 24 * time.Hour
	ViewCleanupInterval = time.Duration(getEnvInt("VIEW_CLEANUP_INTERVAL_MINUTES", 60)) * time.Minute
	CleanupVerbose = getEnvString("CLEANUP_VERBOSE", "false") == "true"
}
