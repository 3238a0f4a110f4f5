package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/config"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/db"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/fetch"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/lock"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/metrics"
	cMiddleware "github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/middleware"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/repository/mariadb"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/storage"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/usecase/productimage"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/variant"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err == nil {
		err = cfg.RequireAPI()
	}
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	strg := initStorage(ctx, cfg)
	if err := strg.InitBucket(cfg.ImagesBucket); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.ImagesBucket, err)
		os.Exit(1)
	}

	dstAuth, err := cMiddleware.WithDSTAuth(cfg.JWTPublicKey)
	if err != nil {
		logger.Errorf(ctx, "❌  %v", err)
		os.Exit(1)
	}

	pm := metrics.NewPipelineMetrics(prometheus.DefaultRegisterer)
	repo := mariadb.NewImageRepository(database.DB)
	fetcher := fetch.NewHTTPFetcher(fetch.WithTimeout(cfg.FetchTimeout), fetch.WithMaxBytes(cfg.FetchMaxBytes))
	gen := variant.NewGenerator(variant.NewWebPEncoder())
	locker := initLocker(ctx, cfg)

	processor := productimage.NewImageProcessor(repo, fetcher, gen, strg, locker, pm, productimage.Config{
		Bucket:         cfg.ImagesBucket,
		StorageTimeout: cfg.StorageTimeout,
		LockTTL:        cfg.ProcessingLockTTL,
	})

	r := newRouter(routeDeps{
		previewer:     productimage.NewImagePreviewer(fetcher, gen, variant.DefaultSpecs),
		processor:     processor,
		reprocessor:   productimage.NewBacklogReprocessor(repo, processor, pm, cfg.BatchConcurrency, cfg.StaleProcessingAfter),
		serviceSecret: cfg.ServiceSecret,
		dstAuth:       dstAuth,
		db:            database.DB,
		metrics:       promhttp.Handler(),
	})

	listenRouter(ctx, r, cfg, database)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}

	return database
}

func initStorage(ctx context.Context, cfg *config.Settings) *storage.MinioStorage {
	strg, err := storage.NewStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
		cfg.PublicBaseURL,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func initLocker(ctx context.Context, cfg *config.Settings) port.Locker {
	if cfg.RedisAddr == "" {
		logger.Warn(ctx, "⚠️  Redis not configured, concurrent runs for one image are not deduplicated")
		return lock.NewNoop()
	}
	logger.Info(ctx, "✅  Redis processing claims enabled")
	return lock.NewRedisLocker(cfg.RedisAddr, cfg.RedisPassword)
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// batch sweeps can take a while, give them time to drain
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
