// Package idempotency records which request ids have already been applied so
// that retried remote calls stay safe to repeat.
package idempotency

import "context"

// Tracker is the deduplication store guarding the inventory operations.
// IsProcessed and MarkProcessed are intentionally two separate steps, not an
// atomic test-and-set: retries of one logical attempt are serialized by the
// calling saga, which is the only duplication source the design defends
// against. RemoveProcessed exists for compensating rollback.
type Tracker interface {
	IsProcessed(ctx context.Context, key string) (bool, error)
	MarkProcessed(ctx context.Context, key string) error
	RemoveProcessed(ctx context.Context, key string) error
}
