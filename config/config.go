package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all process-wide settings, populated from environment variables.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	// RedisAddr empty means the in-memory cache is used instead.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	TokenLifetime time.Duration

	CodeLength      int
	MaxCodeAttempts int
	CacheTTL        time.Duration
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBUser:     getEnv("DB_USER", "shorturl"),
		DBPassword: getEnv("DB_PASSWORD", "shorturl"),
		DBName:     getEnv("DB_NAME", "shorturl"),
		DBPort:     getEnv("DB_PORT", "5432"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenLifetime: getEnvDuration("TOKEN_LIFETIME", 24*time.Hour),

		CodeLength:      getEnvInt("CODE_LENGTH", 8),
		MaxCodeAttempts: getEnvInt("MAX_CODE_ATTEMPTS", 10),
		CacheTTL:        getEnvDuration("CACHE_TTL", 7*24*time.Hour),
	}
}

// DSN returns the keyword/value connection string gorm's postgres driver expects.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// URL returns the postgres:// form golang-migrate expects.
func (c Config) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
