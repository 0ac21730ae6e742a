package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

// New configures the pool without dialing; use Ping to check connectivity.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

const schema = `
	CREATE TABLE IF NOT EXISTS chat_sessions (
		session_id UUID PRIMARY KEY,
		messages JSONB NOT NULL DEFAULT '[]',
		resume_context TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW()
	)`

// Migrate creates the sessions table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create chat_sessions: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}
