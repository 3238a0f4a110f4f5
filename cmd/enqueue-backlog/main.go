package main

import (
	"context"
	"os"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/config"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/db"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/repository/mariadb"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/task"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/usecase/productimage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "❌  Redis not configured: this command requires a running Redis instance")
		os.Exit(1)
	}

	logger.Init()

	database, err := db.NewFromConfig(db.MariaDbConfig{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	dispatcher := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
	defer func() { _ = dispatcher.Close() }()

	enqueuer := productimage.NewBacklogEnqueuer(mariadb.NewImageRepository(database.DB), dispatcher, cfg.StaleProcessingAfter)
	n, err := enqueuer.EnqueueBacklog(ctx)
	if err != nil {
		logger.Errorf(ctx, "❌  Backlog enqueue failed: %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "✅  Enqueued %d product image(s) for processing", n)
}
