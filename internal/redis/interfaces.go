package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error)
	ReleaseSweepLock(ctx context.Context) error
}

// TrackPublisherInterface defines the interface for publishing ride
// tracking snapshots.
type TrackPublisherInterface interface {
	Publish(ctx context.Context, snapshot RideSnapshot) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface      = (*LockStore)(nil)
	_ TrackPublisherInterface = (*TrackPublisher)(nil)
)
