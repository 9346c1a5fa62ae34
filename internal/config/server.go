package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// ServerConfig configures the websocket host.
type ServerConfig struct {
	Port          string
	DBDriver      string
	DBDSN         string
	DefaultPreset string
	RoundDelay    time.Duration
	LogLevel      log.Level
}

// LoadServerConfig reads the environment, loading the given .env files first if they exist.
func LoadServerConfig(files ...string) (ServerConfig, error) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return ServerConfig{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := ServerConfig{
		Port:          getenv("PORT", "8080"),
		DBDriver:      getenv("DB_DRIVER", "sqlite3"),
		DBDSN:         getenv("DB_DSN", "./truco.db"),
		DefaultPreset: getenv("DEFAULT_PRESET", DefaultPreset),
		RoundDelay:    2 * time.Second,
		LogLevel:      log.InfoLevel,
	}

	if raw := os.Getenv("ROUND_DELAY_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			return ServerConfig{}, fmt.Errorf("invalid ROUND_DELAY_MS %q", raw)
		}
		cfg.RoundDelay = time.Duration(ms) * time.Millisecond
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		lvl, err := log.ParseLevel(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}
	if cfg.DBDriver != "sqlite3" && cfg.DBDriver != "pgx" {
		return ServerConfig{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
