package testutil

import (
	"context"

	workerHandler "github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/handler/worker"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/task"
	"github.com/hibiken/asynq"
)

// StartWorker starts an asynq worker processing image tasks with svc.
// It returns a function to gracefully shut down the worker.
func StartWorker(svc port.ImageProcessor, redisAddr string) func() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeProcessImage, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseProcessImagePayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ProcessImageHandler(ctx, p, svc)
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 2})
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "worker stopped: %v", err)
		}
	}()

	return func() {
		srv.Shutdown()
	}
}
