// Package cache stores chat replies keyed by the normalized visitor message.
package cache

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// DefaultTTL is how long a reply stays cached after it is set.
const DefaultTTL = time.Hour

const keyPrefix = "chat_"

// whitespaceRun matches ASCII and Unicode spaces, including vertical tab,
// no-break space and the byte order mark.
var whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// Key derives the cache key for a message: lowercased, with every run of
// whitespace replaced by a single underscore.
func Key(message string) string {
	return keyPrefix + whitespaceRun.ReplaceAllString(strings.ToLower(message), "_")
}

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Keys    int    `json:"keys"`
	Backend string `json:"backend"`
}

// Cache is safe for concurrent use.
type Cache interface {
	// Get returns the reply stored under key, or ok=false if absent or expired.
	Get(ctx context.Context, key string) (reply string, ok bool, err error)
	// Set stores reply under key for the cache's fixed TTL.
	Set(ctx context.Context, key, reply string) error
	// FlushAll removes every entry immediately.
	FlushAll(ctx context.Context) error
	Stats(ctx context.Context) (Stats, error)
}
