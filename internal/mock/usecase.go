package mock

import (
	"context"
	"sync"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
)

// MockImageProcessor implements port.ImageProcessor for tests.
type MockImageProcessor struct {
	mu sync.Mutex

	Out *port.ProcessImageOutput
	Err error

	Called bool
	Inputs []port.ProcessImageInput
}

func (m *MockImageProcessor) ProcessImage(ctx context.Context, in port.ProcessImageInput) (*port.ProcessImageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Called = true
	m.Inputs = append(m.Inputs, in)
	return m.Out, m.Err
}

// MockImagePreviewer implements port.ImagePreviewer for tests.
type MockImagePreviewer struct {
	Out    *port.PreviewImageOutput
	Err    error
	Called bool
	Input  port.PreviewImageInput
}

func (m *MockImagePreviewer) PreviewImage(ctx context.Context, in port.PreviewImageInput) (*port.PreviewImageOutput, error) {
	m.Called = true
	m.Input = in
	return m.Out, m.Err
}

// MockBacklogReprocessor implements port.BacklogReprocessor for tests.
type MockBacklogReprocessor struct {
	Out    *port.BatchOutput
	Err    error
	Called bool
}

func (m *MockBacklogReprocessor) ReprocessBacklog(ctx context.Context) (*port.BatchOutput, error) {
	m.Called = true
	return m.Out, m.Err
}

// MockBacklogEnqueuer implements port.BacklogEnqueuer for tests.
type MockBacklogEnqueuer struct {
	Out    int
	Err    error
	Called bool
}

func (m *MockBacklogEnqueuer) EnqueueBacklog(ctx context.Context) (int, error) {
	m.Called = true
	return m.Out, m.Err
}
