package task

import (
	"context"
	"errors"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
	"github.com/hibiken/asynq"
)

// UniqueFor keeps a second enqueue of the same image from stacking up
// behind one that is still queued.
const UniqueFor = 10 * time.Minute

type Dispatcher struct {
	client *asynq.Client
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

func (d *Dispatcher) EnqueueProcessImage(ctx context.Context, id uuid.UUID) error {
	t, err := NewProcessImageTask(id.String())
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, t, asynq.Unique(UniqueFor), asynq.MaxRetry(3))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		logger.Debugf(ctx, "process-image task for #%s already queued", id)
		return nil
	}
	return err
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}
