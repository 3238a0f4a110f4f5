package mock

import (
	"context"
	"sync"
)

// Fetcher serves canned bodies by URL.
type Fetcher struct {
	mu sync.Mutex

	Bodies map[string][]byte
	Errs   map[string]error
	Err    error

	Calls []string
}

func (m *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, url)
	if err := m.Errs[url]; err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bodies[url], nil
}
