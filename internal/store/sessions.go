package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adacosta/portfolio-chat/internal/chat"
	"github.com/adacosta/portfolio-chat/internal/profile"
)

// LoadHistory returns a session's messages in saved order. Unknown sessions
// yield an empty, non-nil slice.
func (s *Store) LoadHistory(ctx context.Context, sessionID uuid.UUID) ([]chat.Message, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT messages FROM chat_sessions WHERE session_id = $1`,
		sessionID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return []chat.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	msgs := []chat.Message{}
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return msgs, nil
}

// SaveHistory replaces the session's message list, creating the session if
// needed, and resets its timestamp. Concurrent saves are last-write-wins.
func (s *Store) SaveHistory(ctx context.Context, sessionID uuid.UUID, msgs []chat.Message) error {
	if msgs == nil {
		msgs = []chat.Message{}
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO chat_sessions (session_id, messages, resume_context, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (session_id)
		DO UPDATE SET
			messages = $2,
			resume_context = $3,
			created_at = now()`,
		sessionID, string(data), profile.ResumeContext,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// PurgeOlderThan deletes sessions last saved more than age ago.
func (s *Store) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM chat_sessions WHERE created_at < now() - make_interval(secs => $1)`,
		age.Seconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM chat_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}
