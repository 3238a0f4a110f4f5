package model

import "github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"

const (
	VariantOriginal  = "original"
	VariantThumbnail = "thumbnail"
	VariantMedium    = "medium"
	VariantLarge     = "large"
)

// ImageVariant is one stored raster of a ProductImage, keyed by
// (ProductImageID, VariantName).
type ImageVariant struct {
	ProductImageID  uuid.UUID `json:"product_image_id"`
	VariantName     string    `json:"variant_name"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	ByteSize        int64     `json:"byte_size"`
	Format          string    `json:"format"`
	StoragePath     string    `json:"storage_path"`
	PublicURL       string    `json:"public_url"`
	StorageObjectID *string   `json:"storage_object_id"`
}
