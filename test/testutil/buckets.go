package testutil

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// EmptyBucket removes every object of bucket so each test starts clean.
// A missing bucket is not an error.
func EmptyBucket(client *minio.Client, bucket string) error {
	ctx := context.Background()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", bucket, err)
	}
	if !exists {
		return nil
	}

	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return obj.Err
		}
		if err := client.RemoveObject(ctx, bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove %s/%s: %w", bucket, obj.Key, err)
		}
	}
	return nil
}

// ObjectKeys lists every key of bucket under prefix.
func ObjectKeys(client *minio.Client, bucket, prefix string) ([]string, error) {
	var keys []string
	for obj := range client.ListObjects(context.Background(), bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}
