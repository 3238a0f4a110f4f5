package port

import (
	"context"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
)

type UUIDGen func() uuid.UUID

// ImageProcessor derives variants and a placeholder for one stored image and
// records them.
type ImageProcessor interface {
	ProcessImage(ctx context.Context, in ProcessImageInput) (*ProcessImageOutput, error)
}

// ProcessImageInput identifies the image to process. When OriginalURL is
// empty the stored record is loaded first.
type ProcessImageInput struct {
	ID                  uuid.UUID
	ProductID           uuid.UUID
	OriginalURL         string
	OriginalStoragePath string
}

type ProcessImageOutput struct {
	Blurhash     *string `json:"blurhash"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	MediumURL    *string `json:"medium_url,omitempty"`
	LargeURL     *string `json:"large_url,omitempty"`
}

// ImagePreviewer renders variants for an arbitrary URL without storing them.
type ImagePreviewer interface {
	PreviewImage(ctx context.Context, in PreviewImageInput) (*PreviewImageOutput, error)
}

type PreviewImageInput struct {
	ImageURL    string
	StoragePath string
}

type PreviewVariant struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Data []byte `json:"data"`
	Size int64  `json:"size"`
}

type PreviewImageOutput struct {
	OriginalURL string           `json:"original_url"`
	Variants    []PreviewVariant `json:"variants"`
	Blurhash    *string          `json:"blurhash"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	FileSize    int64            `json:"file_size"`
}

// BacklogReprocessor processes every unprocessed image in-process and
// reports the outcome of each.
type BacklogReprocessor interface {
	ReprocessBacklog(ctx context.Context) (*BatchOutput, error)
}

const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

type ProcessingOutcome struct {
	ID        uuid.UUID           `json:"id"`
	ProductID uuid.UUID           `json:"product_id"`
	Status    string              `json:"status"`
	Result    *ProcessImageOutput `json:"result,omitempty"`
	Error     string              `json:"error,omitempty"`
}

type BatchOutput struct {
	Total     int                 `json:"total"`
	Processed int                 `json:"processed"`
	Failed    int                 `json:"failed"`
	Results   []ProcessingOutcome `json:"results"`
}

// BacklogEnqueuer enqueues a processing task for every unprocessed image.
type BacklogEnqueuer interface {
	EnqueueBacklog(ctx context.Context) (int, error)
}
