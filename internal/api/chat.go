package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/adacosta/portfolio-chat/internal/chat"
	"github.com/adacosta/portfolio-chat/internal/events"
	"github.com/adacosta/portfolio-chat/internal/profile"
)

const notifyTimeout = 15 * time.Second

var errMissingMessage = errors.New("message is required")

type chatRequest struct {
	Message *string `json:"message"`
	// Context is accepted from the widget but not used.
	Context string `json:"context,omitempty"`
}

// chat never returns a raw error to the widget: anything unexpected becomes
// a 500 carrying the apology reply.
func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("chat handler panic", "panic", rec)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"reply": profile.Apology})
		}
	}()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == nil {
		if err == nil {
			err = errMissingMessage
		}
		s.logger.Warn("bad chat request", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"reply": profile.Apology})
		return
	}

	start := time.Now()
	reply := s.deps.Engine.Handle(r.Context(), *req.Message)
	latency := time.Since(start)

	writeJSON(w, http.StatusOK, reply)
	s.afterReply(*req.Message, reply, latency)
}

// afterReply emits best-effort side effects. Failures are only logged.
func (s *Server) afterReply(message string, reply chat.Reply, latency time.Duration) {
	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.Publish(events.SubjectReply, events.ReplyEvent{
			Source:    string(reply.Source),
			CacheKey:  reply.Key,
			LatencyMs: latency.Milliseconds(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			s.logger.Warn("failed to publish reply event", "error", err)
		}
	}

	if s.deps.Notifier != nil && reply.Source == chat.SourceFallback {
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if _, err := s.deps.Notifier.PostUnanswered(ctx, message, reply.Key); err != nil {
				s.logger.Warn("failed to post unanswered question", "error", err)
			}
		}()
	}
}
