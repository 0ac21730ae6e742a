package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adacosta/portfolio-chat/internal/cache"
	"github.com/adacosta/portfolio-chat/internal/chat"
)

const healthPingTimeout = 2 * time.Second

var errMessagesNotArray = errors.New("messages must be an array")

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type historyResponse struct {
	Messages []chat.Message `json:"messages"`
}

type saveRequest struct {
	Messages json.RawMessage `json:"messages"`
}

func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid session id", Details: err.Error()})
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) loadHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	msgs, err := s.fetch(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to fetch chat history", "session_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch chat history", Details: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Messages: msgs})
}

func (s *Server) fetch(ctx context.Context, id uuid.UUID) ([]chat.Message, error) {
	if s.deps.Sessions == nil {
		return nil, errStoreUnavailable
	}
	msgs, err := s.deps.Sessions.LoadHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	return msgs, nil
}

func (s *Server) saveHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	if err := s.save(r, id); err != nil {
		s.logger.Error("failed to save chat session", "session_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to save chat session", Details: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) save(r *http.Request, id uuid.UUID) error {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return err
	}
	raw := bytes.TrimSpace(req.Messages)
	if len(raw) == 0 || raw[0] != '[' {
		return errMessagesNotArray
	}
	var msgs []chat.Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return err
	}

	if s.deps.Sessions == nil {
		return errStoreUnavailable
	}
	return s.deps.Sessions.SaveHistory(r.Context(), id, chat.Sanitize(msgs))
}

type healthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Gemini    string `json:"gemini"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Database:  "disconnected",
		Gemini:    "disabled",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if s.deps.Sessions != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := s.deps.Sessions.Ping(ctx); err != nil {
			s.logger.Warn("database ping failed", "error", err)
		} else {
			resp.Database = "connected"
		}
	}
	if s.deps.Engine != nil && s.deps.Engine.GatewayEnabled() {
		resp.Gemini = "enabled"
	}
	writeJSON(w, http.StatusOK, resp)
}

type statsResponse struct {
	CacheStats    cache.Stats `json:"cacheStats"`
	GeminiEnabled bool        `json:"geminiEnabled"`
	TotalSessions int64       `json:"totalSessions"`
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.collectStats(r.Context())
	if err != nil {
		s.logger.Error("failed to get stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to get stats"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) collectStats(ctx context.Context) (statsResponse, error) {
	cs, err := s.deps.Cache.Stats(ctx)
	if err != nil {
		return statsResponse{}, err
	}
	if s.deps.Sessions == nil {
		return statsResponse{}, errStoreUnavailable
	}
	total, err := s.deps.Sessions.CountSessions(ctx)
	if err != nil {
		return statsResponse{}, err
	}
	return statsResponse{
		CacheStats:    cs,
		GeminiEnabled: s.deps.Engine.GatewayEnabled(),
		TotalSessions: total,
	}, nil
}

func (s *Server) cleanup(w http.ResponseWriter, r *http.Request) {
	if s.deps.Cleaner == nil {
		s.logger.Error("failed to cleanup", "error", errStoreUnavailable)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to cleanup"})
		return
	}
	if _, err := s.deps.Cleaner.Run(r.Context(), "api"); err != nil {
		s.logger.Error("failed to cleanup", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to cleanup"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
