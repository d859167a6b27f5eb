package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken with Locker.Lock.
type UnlockFunc func(ctx context.Context) error

// Locker serializes writers of a shared taxonomy, e.g. several replicas seeding the same
// Redis backend on start-up.
type Locker interface {
	// Lock blocks until the lock for key is held or ctx is done. The lock expires after ttl
	// if the holder dies without calling the returned UnlockFunc.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
