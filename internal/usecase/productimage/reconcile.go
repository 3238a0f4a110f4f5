package productimage

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/metrics"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/model"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
	"go.uber.org/multierr"
)

// Upload is one object to store and describe. When SkipUpload is set the
// object already exists at Path and only its URL and identity are resolved.
type Upload struct {
	Name        string
	Path        string
	Data        []byte
	ContentType string
	Width       int
	Height      int
	ByteSize    int64
	Format      string
	SkipUpload  bool
}

// Reconciler uploads derived objects and turns them into variant records.
type Reconciler struct {
	strg    port.Storage
	bucket  string
	timeout time.Duration
	metrics *metrics.PipelineMetrics
}

func NewReconciler(strg port.Storage, bucket string, timeout time.Duration, m *metrics.PipelineMetrics) *Reconciler {
	if timeout <= 0 {
		timeout = DefaultStorageTimeout
	}
	return &Reconciler{strg: strg, bucket: bucket, timeout: timeout, metrics: m}
}

// Reconcile handles every upload concurrently and returns the records of the
// ones that succeeded, in input order. Failures are logged and returned
// combined as the second value; they never stop sibling uploads.
func (r *Reconciler) Reconcile(ctx context.Context, imageID uuid.UUID, items []Upload) ([]model.ImageVariant, error) {
	out := make([]*model.ImageVariant, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item Upload) {
			defer wg.Done()
			v, err := r.reconcileOne(ctx, imageID, item)
			if err != nil {
				logger.Warnf(ctx, "variant %q of image #%s dropped: %v", item.Name, imageID, err)
				errs[i] = err
				return
			}
			out[i] = v
		}(i, item)
	}
	wg.Wait()

	variants := make([]model.ImageVariant, 0, len(items))
	for _, v := range out {
		if v != nil {
			variants = append(variants, *v)
		}
	}
	return variants, multierr.Combine(errs...)
}

func (r *Reconciler) reconcileOne(ctx context.Context, imageID uuid.UUID, item Upload) (*model.ImageVariant, error) {
	if !item.SkipUpload {
		err := r.withTimeout(ctx, func(ctx context.Context) error {
			opts := map[string]string{"Content-Type": item.ContentType, "Cache-Control": cacheControlImmutable}
			return r.strg.SaveFile(ctx, r.bucket, item.Path, bytes.NewReader(item.Data), int64(len(item.Data)), opts)
		})
		if err != nil {
			r.metrics.IncUnitFailure(item.Name, metrics.StageUpload)
			return nil, fmt.Errorf("upload %q: %w", item.Path, err)
		}
	}

	publicURL, err := r.strg.PublicURL(r.bucket, item.Path)
	if err != nil {
		r.metrics.IncUnitFailure(item.Name, metrics.StagePublicURL)
		return nil, fmt.Errorf("public url %q: %w", item.Path, err)
	}

	v := &model.ImageVariant{
		ProductImageID: imageID,
		VariantName:    item.Name,
		Width:          item.Width,
		Height:         item.Height,
		ByteSize:       item.ByteSize,
		Format:         item.Format,
		StoragePath:    item.Path,
		PublicURL:      publicURL,
	}

	var objectID string
	err = r.withTimeout(ctx, func(ctx context.Context) error {
		id, err := r.strg.ObjectID(ctx, r.bucket, item.Path)
		objectID = id
		return err
	})
	if err != nil {
		// identity is optional, keep the record without it
		r.metrics.IncUnitFailure(item.Name, metrics.StageObjectID)
		logger.Warnf(ctx, "could not resolve object id of %q: %v", item.Path, err)
	} else if objectID != "" {
		v.StorageObjectID = &objectID
	}

	return v, nil
}

func (r *Reconciler) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return fn(ctx)
}
