package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/task"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/usecase/productimage"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/validation"
	"github.com/hibiken/asynq"
)

// ProcessImageHandler handles a process-image task.
// It validates the incoming payload and delegates the call to the processor.
// Failures that a retry cannot fix are returned wrapped in asynq.SkipRetry.
func ProcessImageHandler(ctx context.Context, p task.ProcessImagePayload, svc port.ImageProcessor) error {
	if err := validation.ValidateStruct(p); err != nil {
		logger.Errorf(ctx, "❌  Payload validation failed: %v", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	id, err := uuid.Parse(p.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if _, err := svc.ProcessImage(ctx, port.ProcessImageInput{ID: id}); err != nil {
		switch {
		case errors.Is(err, productimage.ErrAlreadyProcessing):
			logger.Infof(ctx, "product image #%s is already being processed, dropping task", id)
			return nil
		case errors.Is(err, productimage.ErrImageNotFound):
			logger.Warnf(ctx, "product image #%s no longer exists, dropping task", id)
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		logger.Errorf(ctx, "❌  Failed to process product image #%s: %v", id, err)
		return err
	}

	logger.Infof(ctx, "✅  Successfully processed product image #%s", id)
	return nil
}
