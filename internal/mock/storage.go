package mock

import (
	"context"
	"errors"
	"io"
	"sync"
)

// Storage implements the storage interface for tests. It is safe for
// concurrent use and keeps saved objects in memory.
type Storage struct {
	mu sync.Mutex

	// stored values
	Objects map[string][]byte
	BaseURL string

	// errors
	InitBucketErr error
	SaveErr       error
	ObjectIDErr   error
	PublicURLErr  error

	// per-key errors, keyed by file key
	SaveErrFor      map[string]error
	PublicURLErrFor map[string]error

	// call flags
	InitBucketCalled bool
	SaveCalls        int
	ObjectIDCalls    int
	PublicURLCalls   int
	SavedKeys        []string
}

func (m *Storage) InitBucket(bucket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitBucketCalled = true
	return m.InitBucketErr
}

func (m *Storage) SaveFile(ctx context.Context, bucket, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error {
	data, readErr := io.ReadAll(reader)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if err := m.SaveErrFor[fileKey]; err != nil {
		return err
	}
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if readErr != nil {
		return readErr
	}
	if m.Objects == nil {
		m.Objects = map[string][]byte{}
	}
	m.Objects[fileKey] = data
	m.SavedKeys = append(m.SavedKeys, fileKey)
	return nil
}

func (m *Storage) ObjectID(ctx context.Context, bucket, fileKey string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ObjectIDCalls++
	if m.ObjectIDErr != nil {
		return "", m.ObjectIDErr
	}
	return "obj-" + fileKey, nil
}

func (m *Storage) PublicURL(bucket, fileKey string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublicURLCalls++
	if err := m.PublicURLErrFor[fileKey]; err != nil {
		return "", err
	}
	if m.PublicURLErr != nil {
		return "", m.PublicURLErr
	}
	if bucket == "" {
		return "", errors.New("empty bucket")
	}
	base := m.BaseURL
	if base == "" {
		base = "https://example.com"
	}
	return base + "/" + bucket + "/" + fileKey, nil
}

// Saved reports how many objects were written.
func (m *Storage) Saved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SavedKeys)
}
