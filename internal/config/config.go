// Package config loads service configuration from environment variables.
// Every knob has a default that works for local development; only the JWT
// secret is mandatory.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	JWTSecret   []byte
	PostgresDSN string
	RedisAddr   string
	RedisPass   string
	MongoURI    string

	SandboxDir    string
	CaseTimeLimit time.Duration
	LobbyTTL      time.Duration
	SweepEvery    string
}

func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		JWTSecret:   []byte(secret),
		PostgresDSN: getEnvOrDefault("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=skypad port=5432 sslmode=disable"),
		RedisAddr:   getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		MongoURI:    getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),

		SandboxDir:    os.Getenv("SANDBOX_DIR"),
		CaseTimeLimit: getEnvSeconds("CASE_TIME_LIMIT_SECONDS", 2),
		LobbyTTL:      getEnvSeconds("LOBBY_TTL_SECONDS", 300),
		SweepEvery:    getEnvOrDefault("SWEEP_INTERVAL", "30s"),
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(defaultSeconds) * time.Second
}
