package mock

import (
	"context"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
)

// MockDispatcher implements task dispatching for tests.
type MockDispatcher struct {
	ProcessCalled bool
	ProcessIDs    []uuid.UUID
	ProcessErr    error
	ProcessErrFor map[uuid.UUID]error
}

func (m *MockDispatcher) EnqueueProcessImage(ctx context.Context, id uuid.UUID) error {
	m.ProcessCalled = true
	m.ProcessIDs = append(m.ProcessIDs, id)
	if err := m.ProcessErrFor[id]; err != nil {
		return err
	}
	return m.ProcessErr
}
