package port

import (
	"context"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
)

// TaskDispatcher enqueues asynchronous image processing tasks.
type TaskDispatcher interface {
	EnqueueProcessImage(ctx context.Context, id uuid.UUID) error
}
