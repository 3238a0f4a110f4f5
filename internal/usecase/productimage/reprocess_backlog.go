package productimage

import (
	"context"
	"fmt"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/metrics"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"golang.org/x/sync/errgroup"
)

type backlogReprocessorSrv struct {
	repo        port.ImageRepository
	processor   port.ImageProcessor
	metrics     *metrics.PipelineMetrics
	concurrency int
	staleAfter  time.Duration
	now         func() time.Time
}

// compile-time check: *backlogReprocessorSrv must satisfy port.BacklogReprocessor
var _ port.BacklogReprocessor = (*backlogReprocessorSrv)(nil)

// NewBacklogReprocessor constructs a BacklogReprocessor implementation.
// concurrency bounds how many images are processed at once.
func NewBacklogReprocessor(repo port.ImageRepository, processor port.ImageProcessor, m *metrics.PipelineMetrics, concurrency int, staleAfter time.Duration) port.BacklogReprocessor {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &backlogReprocessorSrv{
		repo:        repo,
		processor:   processor,
		metrics:     m,
		concurrency: concurrency,
		staleAfter:  staleAfter,
		now:         time.Now,
	}
}

// ReprocessBacklog processes every eligible image and waits for all of them.
// Only a failed scan is returned as an error; per-image failures are part of
// the output.
func (s *backlogReprocessorSrv) ReprocessBacklog(ctx context.Context) (*port.BatchOutput, error) {
	images, err := s.repo.ListUnprocessed(ctx, s.now().Add(-s.staleAfter))
	if err != nil {
		return nil, err
	}

	out := &port.BatchOutput{
		Total:   len(images),
		Results: make([]port.ProcessingOutcome, len(images)),
	}
	if len(images) == 0 {
		logger.Info(ctx, "no images found to reprocess")
		s.metrics.ObserveBatch(0, 0, 0)
		return out, nil
	}
	logger.Infof(ctx, "reprocessing %d image(s) with concurrency %d...", len(images), s.concurrency)

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, img := range images {
		g.Go(func() error {
			outcome := port.ProcessingOutcome{ID: img.ID, ProductID: img.ProductID}
			defer func() {
				if r := recover(); r != nil {
					outcome.Status = port.OutcomeFailed
					outcome.Result = nil
					outcome.Error = fmt.Sprintf("panic: %v", r)
				}
				out.Results[i] = outcome
			}()

			res, err := s.processor.ProcessImage(ctx, port.ProcessImageInput{
				ID:                  img.ID,
				ProductID:           img.ProductID,
				OriginalURL:         img.OriginalURL,
				OriginalStoragePath: img.OriginalStoragePath,
			})
			if err != nil {
				logger.Warnf(ctx, "reprocessing image #%s failed: %v", img.ID, err)
				outcome.Status = port.OutcomeFailed
				outcome.Error = err.Error()
				return nil
			}
			outcome.Status = port.OutcomeSuccess
			outcome.Result = res
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range out.Results {
		if r.Status == port.OutcomeSuccess {
			out.Processed++
		} else {
			out.Failed++
		}
	}
	s.metrics.ObserveBatch(out.Total, out.Processed, out.Failed)
	logger.Infof(ctx, "reprocessing done: %d processed, %d failed", out.Processed, out.Failed)
	return out, nil
}
