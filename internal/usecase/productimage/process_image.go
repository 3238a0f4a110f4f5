package productimage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/api_context"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/metrics"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/model"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/placeholder"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/variant"
	"go.uber.org/multierr"
)

type imageProcessorSrv struct {
	repo    port.ImageRepository
	fetcher port.Fetcher
	gen     port.VariantGenerator
	rec     *Reconciler
	locker  port.Locker
	metrics *metrics.PipelineMetrics
	cfg     Config
}

// compile-time check: *imageProcessorSrv must satisfy port.ImageProcessor
var _ port.ImageProcessor = (*imageProcessorSrv)(nil)

// NewImageProcessor constructs an ImageProcessor implementation.
func NewImageProcessor(
	repo port.ImageRepository,
	fetcher port.Fetcher,
	gen port.VariantGenerator,
	strg port.Storage,
	locker port.Locker,
	m *metrics.PipelineMetrics,
	cfg Config,
) port.ImageProcessor {
	cfg = cfg.withDefaults()
	return &imageProcessorSrv{
		repo:    repo,
		fetcher: fetcher,
		gen:     gen,
		rec:     NewReconciler(strg, cfg.Bucket, cfg.StorageTimeout, m),
		locker:  locker,
		metrics: m,
		cfg:     cfg,
	}
}

// ProcessImage downloads the original of one product image, derives its
// variants and placeholder, stores them and records the result. Only a failed
// download and a failed final write abort the run; per-variant failures are
// logged and leave the matching fields empty.
func (s *imageProcessorSrv) ProcessImage(ctx context.Context, in port.ProcessImageInput) (out *port.ProcessImageOutput, err error) {
	start := time.Now()
	defer func() {
		outcome := port.OutcomeSuccess
		if err != nil {
			outcome = port.OutcomeFailed
		}
		s.metrics.ObserveRun(outcome, time.Since(start))
	}()

	ctx = api_context.WithImageID(ctx, in.ID)
	img, err := s.loadImage(ctx, in)
	if err != nil {
		return nil, err
	}

	release, ok, err := s.locker.Acquire(ctx, lockKey(img), s.cfg.LockTTL)
	if err != nil {
		// upserts keep a concurrent run safe, so a lock outage must not block processing
		logger.Warnf(ctx, "could not claim image #%s, continuing without claim: %v", img.ID, err)
	} else if !ok {
		return nil, ErrAlreadyProcessing
	} else {
		defer func() {
			if rErr := release(context.WithoutCancel(ctx)); rErr != nil {
				logger.Warnf(ctx, "failed releasing claim on image #%s: %v", img.ID, rErr)
			}
		}()
	}

	logger.Infof(ctx, "processing image #%s from %q...", img.ID, img.OriginalURL)

	src, err := s.fetcher.Fetch(ctx, img.OriginalURL)
	if err != nil {
		return nil, &FetchError{URL: img.OriginalURL, Err: err}
	}

	if err := img.TransitionTo(model.ProcessingStatusProcessing); err != nil {
		return nil, err
	}
	if err := s.repo.MarkProcessing(ctx, img.ID); err != nil {
		return nil, &PersistError{Err: err}
	}

	native, err := s.gen.Inspect(src)
	if err != nil {
		s.markFailed(ctx, img, err)
		return nil, err
	}

	source, results, err := s.gen.Generate(ctx, src, s.cfg.Specs)
	if err != nil {
		s.markFailed(ctx, img, err)
		return nil, err
	}

	var unitErrs error
	uploads := make([]Upload, 0, len(results)+1)
	for _, res := range results {
		if res.Err != nil {
			logger.Warnf(ctx, "variant %q of image #%s not generated: %v", res.Spec.Name, img.ID, res.Err)
			s.metrics.IncUnitFailure(res.Spec.Name, metrics.StageGenerate)
			unitErrs = multierr.Append(unitErrs, fmt.Errorf("%s: %w", res.Spec.Name, res.Err))
			continue
		}
		g := res.Generated
		uploads = append(uploads, Upload{
			Name:        g.Name,
			Path:        VariantPath(img.OriginalStoragePath, g.Name),
			Data:        g.Data,
			ContentType: variant.ContentTypeWebP,
			Width:       g.Width,
			Height:      g.Height,
			ByteSize:    g.ByteSize,
			Format:      g.Format,
		})
	}
	uploads = append(uploads, Upload{
		Name:       model.VariantOriginal,
		Path:       img.OriginalStoragePath,
		Width:      native.Width,
		Height:     native.Height,
		ByteSize:   native.ByteSize,
		Format:     native.Format,
		SkipUpload: true,
	})

	var hash *string
	if h, hErr := placeholder.EncodeImage(source.Image); hErr != nil {
		logger.Warnf(ctx, "blurhash of image #%s skipped: %v", img.ID, hErr)
		s.metrics.IncUnitFailure(model.VariantOriginal, metrics.StageBlurhash)
	} else {
		hash = &h
	}

	variants, recErr := s.rec.Reconcile(ctx, img.ID, uploads)
	unitErrs = multierr.Append(unitErrs, recErr)

	out = &port.ProcessImageOutput{Blurhash: hash}
	img.Blurhash = hash
	named := 0
	for _, v := range variants {
		u := v.PublicURL
		if !img.SetVariantURL(v.VariantName, u) {
			continue
		}
		named++
		switch v.VariantName {
		case model.VariantThumbnail:
			out.ThumbnailURL = &u
		case model.VariantMedium:
			out.MediumURL = &u
		case model.VariantLarge:
			out.LargeURL = &u
		}
	}

	if named == 0 {
		// keep it eligible for the next sweep
		reason := "no variant could be produced"
		if unitErrs != nil {
			reason = fmt.Sprintf("%s: %v", reason, unitErrs)
		}
		err = img.Fail(reason)
	} else {
		err = img.TransitionTo(model.ProcessingStatusCompleted)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveResult(ctx, img, variants); err != nil {
		logger.Errorf(ctx, "failed saving processing result of image #%s: %v", img.ID, err)
		s.markFailed(ctx, img, err)
		return nil, &PersistError{Err: err}
	}

	logger.Infof(ctx, "image #%s processed with %d variant(s), status %q", img.ID, len(variants), img.ProcessingStatus)
	return out, nil
}

// loadImage reads the stored record and fills gaps from the caller's copy.
func (s *imageProcessorSrv) loadImage(ctx context.Context, in port.ProcessImageInput) (*model.ProductImage, error) {
	img, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	if img == nil {
		return nil, ErrImageNotFound
	}

	if img.OriginalURL == "" {
		img.OriginalURL = in.OriginalURL
	}
	if img.OriginalStoragePath == "" {
		img.OriginalStoragePath = in.OriginalStoragePath
	}
	if img.OriginalStoragePath == "" {
		img.OriginalStoragePath = storagePathFromURL(img.OriginalURL, s.cfg.Bucket)
	}
	if img.OriginalURL == "" {
		return nil, fmt.Errorf("image #%s has no original url", img.ID)
	}
	if img.OriginalStoragePath == "" {
		return nil, fmt.Errorf("image #%s has no original storage path", img.ID)
	}
	return img, nil
}

func (s *imageProcessorSrv) markFailed(ctx context.Context, img *model.ProductImage, cause error) {
	if err := s.repo.MarkFailed(context.WithoutCancel(ctx), img.ID, cause.Error()); err != nil {
		logger.Warnf(ctx, "failed marking image #%s as failed: %v", img.ID, err)
	}
}

func lockKey(img *model.ProductImage) string {
	return "product-image:" + img.ID.String()
}
