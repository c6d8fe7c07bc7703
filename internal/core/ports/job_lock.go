package ports

import (
	"context"
	"time"
)

// JobLock is a distributed single-flight guard for scheduled jobs.
// Acquire returns false when another node already holds the lock, in
// which case the job run is skipped for this tick.
type JobLock interface {
	// Acquire attempts to take the named lock for ttl.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release frees the named lock if this holder still owns it.
	Release(ctx context.Context, name string) error
}
