package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingGeminiKey is returned by Validate when no provider credential is set.
var ErrMissingGeminiKey = errors.New("GEMINI_API_KEY is missing from environment variables")

type Config struct {
	Port             int
	LogLevel         string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	GeminiTimeout    time.Duration
	DatabaseURL      string
	RedisURL         string
	CacheTTL         time.Duration
	SessionRetention time.Duration
	CleanupInterval  time.Duration
	AllowedOrigins   []string
	NatsURL          string
	NatsToken        string
	SlackBotToken    string
	SlackChannel     string
}

func Load() Config {
	return Config{
		Port:             envInt("PORT", 3001),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		GeminiAPIKey:     envStr("GEMINI_API_KEY", ""),
		GeminiModel:      envStr("GEMINI_MODEL", "gemini-1.5-pro-latest"),
		GeminiBaseURL:    envStr("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeout:    envDuration("GEMINI_TIMEOUT", 30*time.Second),
		DatabaseURL:      envStr("DATABASE_URL", ""),
		RedisURL:         envStr("REDIS_URL", ""),
		CacheTTL:         envDuration("CACHE_TTL", time.Hour),
		SessionRetention: envDuration("SESSION_RETENTION", 7*24*time.Hour),
		CleanupInterval:  envDuration("CLEANUP_INTERVAL", 0),
		AllowedOrigins:   envList("ALLOWED_ORIGINS", []string{"https://alexanderdacosta.dev", "http://localhost:5173"}),
		NatsURL:          envStr("NATS_URL", ""),
		NatsToken:        envStr("NATS_TOKEN", ""),
		SlackBotToken:    envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:     envStr("SLACK_CHANNEL", ""),
	}
}

// Validate reports configuration that must stop the process from starting.
// A missing DATABASE_URL is not one of them.
func (c Config) Validate() error {
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return ErrMissingGeminiKey
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
