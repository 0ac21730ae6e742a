package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adacosta/portfolio-chat/internal/cache"
	"github.com/adacosta/portfolio-chat/internal/events"
)

// DefaultRetention is how long a session survives after its last save.
const DefaultRetention = 7 * 24 * time.Hour

type SessionPurger interface {
	PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

type Publisher interface {
	Publish(subject string, data any) error
}

// Cleaner removes expired sessions and then empties the reply cache.
type Cleaner struct {
	sessions  SessionPurger
	cache     cache.Cache
	publisher Publisher
	retention time.Duration
	logger    *slog.Logger
}

// NewCleaner builds a Cleaner. publisher may be nil.
func NewCleaner(sessions SessionPurger, c cache.Cache, publisher Publisher, retention time.Duration, logger *slog.Logger) *Cleaner {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Cleaner{
		sessions:  sessions,
		cache:     c,
		publisher: publisher,
		retention: retention,
		logger:    logger,
	}
}

// Run purges sessions older than the retention window and flushes the cache.
// trigger names what started the run and is only used for logs and events.
func (c *Cleaner) Run(ctx context.Context, trigger string) (int64, error) {
	purged, err := c.sessions.PurgeOlderThan(ctx, c.retention)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	if err := c.cache.FlushAll(ctx); err != nil {
		return purged, fmt.Errorf("flush cache: %w", err)
	}

	c.logger.Info("cleanup complete", "purged", purged, "trigger", trigger)

	if c.publisher != nil {
		if err := c.publisher.Publish(events.SubjectCleanup, events.CleanupEvent{
			Purged:    purged,
			Trigger:   trigger,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			c.logger.Warn("failed to publish cleanup event", "error", err)
		}
	}
	return purged, nil
}

// Janitor runs a Cleaner on a fixed interval.
type Janitor struct {
	cleaner  *Cleaner
	interval time.Duration
	logger   *slog.Logger
}

func NewJanitor(cleaner *Cleaner, interval time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{cleaner: cleaner, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled. Failed sweeps are logged and retried on
// the next tick.
func (j *Janitor) Run(ctx context.Context) {
	if j.interval <= 0 {
		return
	}
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("retention sweeper started", "interval", j.interval.String())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := j.cleaner.Run(ctx, "schedule"); err != nil {
				j.logger.Error("scheduled cleanup failed", "error", err)
			}
		}
	}
}
