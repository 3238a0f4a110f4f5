package mock

import (
	"context"
	"sync"
	"time"
)

// Locker grants claims in memory. Held keys are refused until released.
type Locker struct {
	mu sync.Mutex

	Held map[string]bool
	Err  error

	Acquired []string
	Released []string
}

func (m *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, false, m.Err
	}
	if m.Held == nil {
		m.Held = map[string]bool{}
	}
	if m.Held[key] {
		return nil, false, nil
	}
	m.Held[key] = true
	m.Acquired = append(m.Acquired, key)
	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.Held, key)
		m.Released = append(m.Released, key)
		return nil
	}, true, nil
}
