package productimage

import (
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/variant"
)

const (
	DefaultBucket         = "product-images"
	DefaultStorageTimeout = 20 * time.Second
	DefaultLockTTL        = 5 * time.Minute
	DefaultConcurrency    = 4
	DefaultStaleAfter     = 15 * time.Minute

	cacheControlImmutable = "public, max-age=31536000"
)

// Config tunes the processing pipeline. Zero values fall back to defaults.
type Config struct {
	Bucket         string
	StorageTimeout time.Duration
	LockTTL        time.Duration
	Specs          []variant.Spec
}

func (c Config) withDefaults() Config {
	if c.Bucket == "" {
		c.Bucket = DefaultBucket
	}
	if c.StorageTimeout <= 0 {
		c.StorageTimeout = DefaultStorageTimeout
	}
	if c.LockTTL <= 0 {
		c.LockTTL = DefaultLockTTL
	}
	if len(c.Specs) == 0 {
		c.Specs = variant.DefaultSpecs
	}
	return c
}
