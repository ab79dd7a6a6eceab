package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env          string
	Port         int
	DBURL        string
	DBMaxConns   int
	JWTSecret    string
	TokenTTL     time.Duration
	MaxBodyBytes int64
}

func Load() Config {
	// .env is optional; deployments may set the environment directly.
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 3001)
	dbURL := buildDBURL()
	maxConns := getEnvInt("DB_MAX_CONNS", 10)
	secret := getEnv("JWT_SECRET", "")
	ttl := getEnvDuration("TOKEN_TTL", time.Hour)
	maxBody := int64(getEnvInt("MAX_BODY_MB", 50)) << 20

	return Config{
		Env:          env,
		Port:         port,
		DBURL:        dbURL,
		DBMaxConns:   maxConns,
		JWTSecret:    secret,
		TokenTTL:     ttl,
		MaxBodyBytes: maxBody,
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "datanaver")
	pass := getEnv("DB_PASSWORD", "datanaver")
	name := getEnv("DB_DATABASE", "datanaver")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return d
	}
	return fallback
}
