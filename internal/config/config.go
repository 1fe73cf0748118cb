// Package config reads runtime settings from the environment, loading a
// .env file first when one is present.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/skillora/internal/store"
)

// Config holds everything outside the LLM settings, which the llm package
// resolves on its own.
type Config struct {
	Store store.Config

	// AMQPURL and AMQPExchange enable record publishing when both are set.
	AMQPURL      string
	AMQPExchange string

	APIAddr         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	level, err := ParseLogLevel(getenvDefault("SKILLORA_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	shutdown, err := getDuration("SKILLORA_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		Store: store.Config{
			Driver:        getenvDefault("SKILLORA_DB_DRIVER", "sqlite"),
			Path:          os.Getenv("SKILLORA_DB"),
			URL:           os.Getenv("SKILLORA_DB_URL"),
			MongoDatabase: getenvDefault("SKILLORA_MONGO_DATABASE", "skillora"),
		},
		AMQPURL:         os.Getenv("SKILLORA_AMQP_URL"),
		AMQPExchange:    os.Getenv("SKILLORA_AMQP_EXCHANGE"),
		APIAddr:         getenvDefault("SKILLORA_API_ADDR", ":8080"),
		CORSOrigins:     splitList(getenvDefault("SKILLORA_CORS_ORIGINS", "http://localhost:3000")),
		ShutdownTimeout: shutdown,
		LogLevel:        level,
	}, nil
}

// PublishingEnabled reports whether records should be sent to AMQP.
func (c *Config) PublishingEnabled() bool {
	return c.AMQPURL != "" && c.AMQPExchange != ""
}

// ParseLogLevel accepts debug, info, warn or error in any case.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q", s)
	}
	return level, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDuration(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid duration: %w", k, v, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
