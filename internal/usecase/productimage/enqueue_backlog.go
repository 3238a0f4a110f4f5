package productimage

import (
	"context"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
)

type backlogEnqueuerSrv struct {
	repo       port.ImageRepository
	tasks      port.TaskDispatcher
	staleAfter time.Duration
	now        func() time.Time
}

// compile-time check: *backlogEnqueuerSrv must satisfy port.BacklogEnqueuer
var _ port.BacklogEnqueuer = (*backlogEnqueuerSrv)(nil)

// NewBacklogEnqueuer constructs a BacklogEnqueuer implementation.
func NewBacklogEnqueuer(repo port.ImageRepository, tasks port.TaskDispatcher, staleAfter time.Duration) port.BacklogEnqueuer {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &backlogEnqueuerSrv{repo: repo, tasks: tasks, staleAfter: staleAfter, now: time.Now}
}

// EnqueueBacklog enqueues a processing task for every eligible image and
// returns how many were enqueued.
func (s *backlogEnqueuerSrv) EnqueueBacklog(ctx context.Context) (int, error) {
	images, err := s.repo.ListUnprocessed(ctx, s.now().Add(-s.staleAfter))
	if err != nil {
		return 0, err
	}

	if len(images) == 0 {
		logger.Info(ctx, "no images found to process")
		return 0, nil
	}

	enqueued := 0
	for _, img := range images {
		logger.Infof(ctx, "enqueuing processing for image #%s", img.ID)
		if err := s.tasks.EnqueueProcessImage(ctx, img.ID); err != nil {
			logger.Warnf(ctx, "failed to enqueue process task for image #%s: %v", img.ID, err)
			continue
		}
		enqueued++
	}
	return enqueued, nil
}
