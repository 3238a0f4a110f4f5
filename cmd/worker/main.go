package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/config"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/db"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/fetch"
	workerHandler "github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/handler/worker"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/lock"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/metrics"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/repository/mariadb"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/storage"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/task"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/usecase/productimage"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/variant"
	"github.com/hibiken/asynq"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err == nil {
		err = cfg.RequireWorker()
	}
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	strg := initStorage(cfg)
	if err := strg.InitBucket(cfg.ImagesBucket); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.ImagesBucket, err)
		os.Exit(1)
	}

	locker := lock.NewRedisLocker(cfg.RedisAddr, cfg.RedisPassword)
	defer func() { _ = locker.Close() }()

	// the worker has no HTTP listener, so its metrics stay unregistered
	processor := productimage.NewImageProcessor(
		mariadb.NewImageRepository(database.DB),
		fetch.NewHTTPFetcher(fetch.WithTimeout(cfg.FetchTimeout), fetch.WithMaxBytes(cfg.FetchMaxBytes)),
		variant.NewGenerator(variant.NewWebPEncoder()),
		strg,
		locker,
		metrics.NewPipelineMetrics(nil),
		productimage.Config{
			Bucket:         cfg.ImagesBucket,
			StorageTimeout: cfg.StorageTimeout,
			LockTTL:        cfg.ProcessingLockTTL,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeProcessImage, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseProcessImagePayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ProcessImageHandler(ctx, p, processor)
	})

	runWorker(ctx, mux, cfg)
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func initStorage(cfg *config.Settings) *storage.MinioStorage {
	strg, err := storage.NewStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
		cfg.PublicBaseURL,
	)
	if err != nil {
		logger.Errorf(context.Background(), "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{
		Concurrency:     cfg.WorkerConcurrency,
		ShutdownTimeout: 30 * time.Second,
	})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// stop accepting new tasks, finish in-flight within ShutdownTimeout
	srv.Shutdown()
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
