package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed event IDs to prevent duplicate processing.
// It backs the Pipedrive webhook endpoint, which may deliver the same event
// more than once.
type IdempotencyStore interface {
	// MarkProcessed marks an event as processed with a TTL
	// Returns true if the event was newly marked, false if it was already processed
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if an event has already been processed
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Forget removes a processed mark so a redelivery of the event is
	// accepted again. Used when handling fails after the mark was taken.
	Forget(ctx context.Context, eventID string) error

	// Close closes the store and releases resources
	Close() error
}
