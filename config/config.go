package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultAccessTokenExpiryMin  = 60
	DefaultRefreshTokenExpiryMin = 10080 // 7 days

	DefaultIssuer   = "inventory-api"
	DefaultAudience = "inventory-api-clients"

	DefaultLockoutThreshold   = 5
	DefaultLockoutWindowMin   = 15
	DefaultLockoutDurationMin = 15
)

// Config is loaded once at startup and passed by value into constructors.
// Nothing reads the environment after Load returns.
type Config struct {
	Env                string
	Port               string
	DBURL              string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessExpiryMin    int
	RefreshExpiryMin   int
	Issuer             string
	Audience           string
	LockoutThreshold   int
	LockoutWindowMin   int
	LockoutDurationMin int
}

func Load() *Config {
	env := getEnv("ENV", "development")
	loadEnvFile(env)

	cfg := &Config{
		Env:                env,
		Port:               getEnv("PORT", "8080"),
		DBURL:              mustGetEnv("DB_URL"),
		AccessTokenSecret:  mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessExpiryMin:    getEnvAsInt("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin),
		RefreshExpiryMin:   getEnvAsInt("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiryMin),
		Issuer:             getEnv("JWT_ISSUER", DefaultIssuer),
		Audience:           getEnv("JWT_AUDIENCE", DefaultAudience),
		LockoutThreshold:   getEnvAsInt("LOCKOUT_THRESHOLD", DefaultLockoutThreshold),
		LockoutWindowMin:   getEnvAsInt("LOCKOUT_WINDOW_MINUTES", DefaultLockoutWindowMin),
		LockoutDurationMin: getEnvAsInt("LOCKOUT_DURATION_MINUTES", DefaultLockoutDurationMin),
	}

	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		log.Fatal("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	return cfg
}

// loadEnvFile merges config/.env.<env> into the environment when present.
// Explicit environment variables win over file values.
func loadEnvFile(env string) {
	suffix := map[string]string{
		"development": "dev",
		"staging":     "staging",
		"production":  "prod",
	}[env]
	if suffix == "" {
		suffix = env
	}

	path := fmt.Sprintf("config/.env.%s", suffix)
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("Failed to load %s: %v", path, err)
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
