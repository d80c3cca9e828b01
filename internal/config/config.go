package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	JWTSecret     string
	JWTTTL        time.Duration
	ListenAddr    string
	UploadsDir    string
	StaticBase    string
	SweepInterval time.Duration
}

// Load reads configuration from the environment. A .env file is honored when
// present; missing required values are fatal.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTTTL:        durationEnv("JWT_TTL_HOURS", 24) * time.Hour,
		ListenAddr:    envOr("LISTEN_ADDR", ":8080"),
		UploadsDir:    envOr("UPLOADS_DIR", "./uploads"),
		StaticBase:    envOr("STATIC_URL_BASE", "/static/uploads"),
		SweepInterval: durationEnv("SWEEP_INTERVAL_MINUTES", 60) * time.Minute,
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback int64) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallback)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return time.Duration(fallback)
	}
	return time.Duration(n)
}
