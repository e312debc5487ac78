package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port string

	DBDriver   string // postgres, mysql or sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	SQLitePath string

	JWTKey    string
	JWTExpiry time.Duration
	SaltRound int

	AIServiceURL     string // risk estimator and slide generator
	AIServiceTimeout time.Duration

	UploadDir      string
	MaxUploadBytes int64

	LogLevel    string
	LogFormat   string
	CORSOrigins string

	// Client IPs are read from ProxyHeader only for requests from TrustedProxies
	ProxyHeader    string
	TrustedProxies []string
}

// Defaults shared with tests
const (
	DefaultJWTExpiry        = 7 * 24 * time.Hour
	DefaultAIServiceTimeout = 5 * time.Second
)

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port: getEnv("PORT", "3000"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "djisr"),
		DBPort:     getEnv("DB_PORT", "5432"),
		SQLitePath: getEnv("SQLITE_PATH", "djisr.db"),

		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTExpiry: getEnvHours("JWT_EXPIRY_HOURS", DefaultJWTExpiry),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		AIServiceURL:     getEnv("AI_SERVICE_URL", "http://127.0.0.1:8000"),
		AIServiceTimeout: getEnvSeconds("AI_SERVICE_TIMEOUT_SECONDS", DefaultAIServiceTimeout),

		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 5)) << 20,

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		ProxyHeader:    getEnv("PROXY_HEADER", "X-Forwarded-For"),
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvSeconds reads a whole number of seconds
func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	seconds := getEnvInt(key, -1)
	if seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string) []string {
	var list []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func getEnvHours(key string, defaultValue time.Duration) time.Duration {
	hours := getEnvInt(key, -1)
	if hours <= 0 {
		return defaultValue
	}
	return time.Duration(hours) * time.Hour
}
