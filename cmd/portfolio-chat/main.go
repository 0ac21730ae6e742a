package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/adacosta/portfolio-chat/internal/api"
	"github.com/adacosta/portfolio-chat/internal/cache"
	"github.com/adacosta/portfolio-chat/internal/chat"
	"github.com/adacosta/portfolio-chat/internal/config"
	"github.com/adacosta/portfolio-chat/internal/events"
	"github.com/adacosta/portfolio-chat/internal/gemini"
	"github.com/adacosta/portfolio-chat/internal/notify"
	"github.com/adacosta/portfolio-chat/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("portfolio-chat starting", "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database (optional: history endpoints fail and health reports disconnected)
	var sessions *store.Store
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, running without chat history")
	} else {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to configure database", "error", err)
		} else {
			sessions = db
			defer db.Close()
			if err := db.Ping(ctx); err != nil {
				slog.Error("database connection failed", "error", err)
			} else {
				slog.Info("database connected")
			}
			if err := db.Migrate(ctx); err != nil {
				slog.Error("failed to initialize database schema", "error", err)
			}
		}
	}

	// Response cache
	var replies cache.Cache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			slog.Warn("redis unavailable, using in-memory cache", "error", err)
		} else {
			defer rc.Close()
			replies = rc
			slog.Info("redis cache ready", "ttl", cfg.CacheTTL.String())
		}
	}
	if replies == nil {
		mem := cache.NewMemory(cfg.CacheTTL)
		defer mem.Close()
		replies = mem
	}

	// Gemini
	llm := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	llm.SetBaseURL(cfg.GeminiBaseURL)
	gateway := chat.NewGeminiGateway(llm, cfg.GeminiTimeout)
	slog.Info("gemini client ready", "model", cfg.GeminiModel, "timeout", cfg.GeminiTimeout.String())

	engine := chat.NewEngine(replies, gateway, slog.Default())

	deps := api.Deps{
		Engine:         engine,
		Cache:          replies,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         slog.Default(),
	}
	if sessions != nil {
		deps.Sessions = sessions
	}

	// NATS (optional)
	var bus *events.Client
	if cfg.NatsURL != "" {
		nc, err := events.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Warn("failed to connect to NATS, events disabled", "error", err)
		} else {
			bus = nc
			defer bus.Close()
			deps.Publisher = bus
			slog.Info("NATS connected", "url", cfg.NatsURL)
		}
	}

	// Slack poster (optional: without it unanswered questions are only logged)
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		deps.Notifier = notify.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	}

	// Cleanup needs the store; without it the endpoint reports failure.
	if sessions != nil {
		var pub chat.Publisher
		if bus != nil {
			pub = bus
		}
		cleaner := chat.NewCleaner(sessions, replies, pub, cfg.SessionRetention, slog.Default())
		deps.Cleaner = cleaner

		if cfg.CleanupInterval > 0 {
			go chat.NewJanitor(cleaner, cfg.CleanupInterval, slog.Default()).Run(ctx)
		}

		if bus != nil {
			if err := bus.Subscribe(events.SubjectCleanupRequest, func(_ string, data []byte) {
				var req events.CleanupRequest
				if len(data) > 0 {
					if err := json.Unmarshal(data, &req); err != nil {
						slog.Warn("ignoring malformed cleanup request", "error", err)
						return
					}
				}
				runCtx, cancel := context.WithTimeout(ctx, time.Minute)
				defer cancel()
				if _, err := cleaner.Run(runCtx, "nats"); err != nil {
					slog.Error("remote cleanup failed", "requested_by", req.RequestedBy, "error", err)
				}
			}); err != nil {
				slog.Warn("failed to subscribe to cleanup requests", "error", err)
			}
		}
	}

	srv := api.NewServer(cfg.Port, deps)
	if err := srv.Run(ctx); err != nil {
		slog.Error("HTTP server error", "error", err)
		os.Exit(1)
	}
	slog.Info("portfolio-chat stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
