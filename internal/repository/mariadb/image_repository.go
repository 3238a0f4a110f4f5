package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/model"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
)

const imageColumns = `id, product_id, original_url, original_storage_path, blurhash, thumbnail_url, medium_url, large_url, processing_status, failure_message, created_at, updated_at`

type ImageRepository struct {
	db *sql.DB
}

// compile-time check: *ImageRepository must satisfy port.ImageRepository
var _ port.ImageRepository = (*ImageRepository)(nil)

func NewImageRepository(db *sql.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(row rowScanner) (*model.ProductImage, error) {
	var img model.ProductImage
	if err := row.Scan(
		&img.ID, &img.ProductID,
		&img.OriginalURL, &img.OriginalStoragePath,
		&img.Blurhash, &img.ThumbnailURL, &img.MediumURL, &img.LargeURL,
		&img.ProcessingStatus, &img.FailureMessage,
		&img.CreatedAt, &img.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *ImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProductImage, error) {
	logger.Debugf(ctx, "fetching product image #%s from the database...", id)

	const query = `SELECT ` + imageColumns + ` FROM product_images WHERE id = ?`
	return scanImage(r.db.QueryRowContext(ctx, query, id))
}

func (r *ImageRepository) ListUnprocessed(ctx context.Context, staleBefore time.Time) ([]*model.ProductImage, error) {
	logger.Infof(ctx, "listing unprocessed product images (stale before %s)...", staleBefore.Format(time.RFC3339))

	// the last clause covers rows written before processing_status existed
	const query = `SELECT ` + imageColumns + `
      FROM product_images
      WHERE processing_status IN ('pending', 'failed')
         OR (processing_status = 'processing' AND updated_at < ?)
         OR (processing_status <> 'processing'
             AND blurhash IS NULL
             AND thumbnail_url IS NULL
             AND medium_url IS NULL
             AND large_url IS NULL)
      ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, staleBefore)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var images []*model.ProductImage
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *ImageRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	logger.Debugf(ctx, "marking product image #%s as processing...", id)

	const query = `
      UPDATE product_images
      SET processing_status = 'processing', failure_message = NULL, updated_at = CURRENT_TIMESTAMP
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *ImageRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	logger.Infof(ctx, "marking product image #%s as failed: %s", id, reason)

	const query = `
      UPDATE product_images
      SET processing_status = 'failed', failure_message = ?, updated_at = CURRENT_TIMESTAMP
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query, reason, id)
	return err
}

// SaveResult writes the image row and every variant in one transaction.
// Legacy URL columns and the blurhash are only overwritten with non-null
// values so a partial run never erases an earlier success.
func (r *ImageRepository) SaveResult(ctx context.Context, img *model.ProductImage, variants []model.ImageVariant) (err error) {
	logger.Infof(ctx, "saving %d variant(s) for product image #%s with status %q...", len(variants), img.ID, img.ProcessingStatus)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Warnf(ctx, "rollback failed for product image #%s: %v", img.ID, rbErr)
			}
		}
	}()

	const updateImage = `
      UPDATE product_images
      SET
        blurhash          = COALESCE(?, blurhash),
        thumbnail_url     = COALESCE(?, thumbnail_url),
        medium_url        = COALESCE(?, medium_url),
        large_url         = COALESCE(?, large_url),
        processing_status = ?,
        failure_message   = ?,
        updated_at        = CURRENT_TIMESTAMP
      WHERE id = ?
    `
	if _, err = tx.ExecContext(ctx, updateImage,
		img.Blurhash, img.ThumbnailURL, img.MediumURL, img.LargeURL,
		img.ProcessingStatus, img.FailureMessage,
		img.ID, // WHERE clause
	); err != nil {
		return err
	}

	const upsertVariant = `
      INSERT INTO product_image_variants
        (product_image_id, variant_name, width, height, byte_size, format, storage_path, public_url, storage_object_id)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
      ON DUPLICATE KEY UPDATE
        width             = VALUES(width),
        height            = VALUES(height),
        byte_size         = VALUES(byte_size),
        format            = VALUES(format),
        storage_path      = VALUES(storage_path),
        public_url        = VALUES(public_url),
        storage_object_id = VALUES(storage_object_id),
        updated_at        = CURRENT_TIMESTAMP
    `
	for _, v := range variants {
		if _, err = tx.ExecContext(ctx, upsertVariant,
			img.ID, v.VariantName,
			v.Width, v.Height, v.ByteSize, v.Format,
			v.StoragePath, v.PublicURL, v.StorageObjectID,
		); err != nil {
			return fmt.Errorf("upsert variant %q: %w", v.VariantName, err)
		}
	}

	return tx.Commit()
}

func (r *ImageRepository) ListVariants(ctx context.Context, id uuid.UUID) ([]model.ImageVariant, error) {
	const query = `
      SELECT product_image_id, variant_name, width, height, byte_size, format, storage_path, public_url, storage_object_id
      FROM product_image_variants
      WHERE product_image_id = ?
      ORDER BY variant_name
    `
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var variants []model.ImageVariant
	for rows.Next() {
		var v model.ImageVariant
		if err := rows.Scan(
			&v.ProductImageID, &v.VariantName,
			&v.Width, &v.Height, &v.ByteSize, &v.Format,
			&v.StoragePath, &v.PublicURL, &v.StorageObjectID,
		); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
