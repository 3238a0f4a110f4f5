package port

import (
	"context"
	"time"
)

// Locker grants short-lived exclusive claims on a key.
type Locker interface {
	// Acquire returns a release func when the claim was granted, or
	// ok=false when somebody else holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}
