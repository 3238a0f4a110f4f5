package port

import (
	"context"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/model"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
)

// ImageRepository defines persistence operations for product images and
// their variants.
type ImageRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.ProductImage, error)
	// ListUnprocessed returns images that are pending or failed, that predate
	// the status column and have no derived output, or that have been
	// processing since before staleBefore.
	ListUnprocessed(ctx context.Context, staleBefore time.Time) ([]*model.ProductImage, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	// SaveResult updates the image row and upserts every variant keyed by
	// (product_image_id, variant_name) in one transaction.
	SaveResult(ctx context.Context, img *model.ProductImage, variants []model.ImageVariant) error
	ListVariants(ctx context.Context, id uuid.UUID) ([]model.ImageVariant, error)
}
