package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/adacosta/portfolio-chat/internal/cache"
	"github.com/adacosta/portfolio-chat/internal/chat"
)

var errStoreUnavailable = errors.New("session store not configured")

// Responder answers one chat message. *chat.Engine implements it.
type Responder interface {
	Handle(ctx context.Context, message string) chat.Reply
	GatewayEnabled() bool
}

type SessionStore interface {
	Ping(ctx context.Context) error
	LoadHistory(ctx context.Context, sessionID uuid.UUID) ([]chat.Message, error)
	SaveHistory(ctx context.Context, sessionID uuid.UUID, msgs []chat.Message) error
	CountSessions(ctx context.Context) (int64, error)
}

type Cleaner interface {
	Run(ctx context.Context, trigger string) (int64, error)
}

type Publisher interface {
	Publish(subject string, data any) error
}

type Notifier interface {
	PostUnanswered(ctx context.Context, question, cacheKey string) (string, error)
}

// Deps are the collaborators behind the HTTP handlers. Sessions, Cleaner,
// Publisher and Notifier may be nil.
type Deps struct {
	Engine         Responder
	Cache          cache.Cache
	Sessions       SessionStore
	Cleaner        Cleaner
	Publisher      Publisher
	Notifier       Notifier
	AllowedOrigins []string
	Logger         *slog.Logger
}

type Server struct {
	router *chi.Mux
	port   int
	deps   Deps
	logger *slog.Logger
	http   *http.Server
	bg     sync.WaitGroup
}

func NewServer(port int, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router: router,
		port:   port,
		deps:   deps,
		logger: logger,
	}

	router.Get("/api/health", s.health)
	router.Post("/api/chat", s.chat)
	router.Get("/api/chat/stats", s.stats)
	router.Delete("/api/chat/cleanup", s.cleanup)
	router.Get("/api/chat/{sessionId}", s.loadHistory)
	router.Post("/api/chat/{sessionId}", s.saveHistory)

	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully and waits
// for background notifications to finish.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.logger.Info("API server starting", "addr", s.http.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
		err := <-errCh
		s.bg.Wait()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
