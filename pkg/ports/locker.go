package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes API calls on one session across processes that
// share a commit store.
type DistributedLocker interface {
	// Lock blocks until the lock on key is held or ctx is done. The lock expires
	// after ttl if the holder never releases it.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
