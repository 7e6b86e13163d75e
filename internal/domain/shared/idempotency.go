package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys of work that has already been applied.
// It is a fast-path cache in front of a durable uniqueness constraint,
// so a lost entry only costs one extra database round trip.
type IdempotencyStore interface {
	// MarkProcessed records key with a TTL.
	// Returns true if the key was newly recorded, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether key has been recorded and not yet expired
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases resources held by the store
	Close() error
}

// DefaultIdempotencyTTL is how long applied payment keys stay cached
const DefaultIdempotencyTTL = 72 * time.Hour
