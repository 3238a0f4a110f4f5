package port

import (
	"context"
	"io"
)

// Storage defines file storage operations.
type Storage interface {
	InitBucket(bucket string) error
	// SaveFile overwrites any object already stored under fileKey.
	SaveFile(ctx context.Context, bucket, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error
	// ObjectID lists the folder of fileKey and returns the identity of the
	// entry whose name matches. ErrObjectNotFound when nothing matches.
	ObjectID(ctx context.Context, bucket, fileKey string) (string, error)
	PublicURL(bucket, fileKey string) (string, error)
}
