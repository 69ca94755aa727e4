package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	RedisURL    string
	AuthJWKSURL string
	CORSOrigins string
	TablePrefix string
	// WhatsApp webhook handshake token; the channel is disabled when empty.
	WhatsAppVerifyToken string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         env,
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		AuthJWKSURL:         getEnv("AUTH_JWKS_URL", ""),
		CORSOrigins:         getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:         getTablePrefix(env),
		WhatsAppVerifyToken: getEnv("WHATSAPP_VERIFY_TOKEN", ""),
	}
}

// getTablePrefix returns the table prefix for the environment, so dev, test
// and prod data can share one database.
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
