package lock

import (
	"context"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
)

// NoopLocker grants every claim. Used when Redis is not configured.
type NoopLocker struct{}

// compile-time check: *NoopLocker must satisfy port.Locker
var _ port.Locker = (*NoopLocker)(nil)

func NewNoop() *NoopLocker {
	return &NoopLocker{}
}

func (n *NoopLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	return func(context.Context) error { return nil }, true, nil
}
