package storage

import (
	"fmt"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/usecase/productimage"
	"github.com/minio/minio-go/v7"
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return productimage.ErrObjectNotFound
	case "NoSuchBucket":
		return productimage.ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return productimage.ErrUnauthorized
	default:
		// catch everything else
		return fmt.Errorf("%w: %v", productimage.ErrInternal, err)
	}
}
