package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/usecase/productimage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// anonymous read on every object, write stays authenticated
const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

type MinioStorage struct {
	client        minioClient
	useSSL        bool
	publicBaseURL string
}

// compile-time check: *MinioStorage must satisfy port.Storage
var _ port.Storage = (*MinioStorage)(nil)

// NewStorage connects to MinIO. When publicBaseURL is empty, public URLs are
// built from the client endpoint.
func NewStorage(endpoint, accessKey, secretKey string, useSSL bool, publicBaseURL string) (*MinioStorage, error) {
	logger.Info(context.Background(), "initialising minio client...")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &MinioStorage{
		client:        client,
		useSSL:        useSSL,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// InitBucket creates the bucket when missing and opens it for anonymous reads.
func (s *MinioStorage) InitBucket(bucket string) error {
	ctx := context.Background()
	ok, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return mapMinioErr(err)
	}
	if !ok {
		logger.Infof(ctx, "bucket %q does not exist, creating it...", bucket)
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return mapMinioErr(err)
		}
	}
	if err := s.client.SetBucketPolicy(ctx, bucket, fmt.Sprintf(publicReadPolicy, bucket)); err != nil {
		return mapMinioErr(err)
	}
	return nil
}

func (s *MinioStorage) SaveFile(ctx context.Context, bucket, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error {
	logger.Debugf(ctx, "saving file %q into bucket %q...", fileKey, bucket)

	putOpts := minio.PutObjectOptions{}
	if ct := opts["Content-Type"]; ct != "" {
		putOpts.ContentType = ct
	}
	if cc := opts["Cache-Control"]; cc != "" {
		putOpts.CacheControl = cc
	}

	_, err := s.client.PutObject(ctx, bucket, fileKey, reader, fileSize, putOpts)
	if err != nil {
		return mapMinioErr(err)
	}
	return nil
}

// ObjectID lists the folder holding fileKey and returns the version id of the
// matching entry, or its ETag on unversioned buckets.
func (s *MinioStorage) ObjectID(ctx context.Context, bucket, fileKey string) (string, error) {
	dir := path.Dir(fileKey)
	prefix := ""
	if dir != "." && dir != "/" {
		prefix = strings.TrimSuffix(dir, "/") + "/"
	}

	// stop the listing goroutine as soon as we return
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return "", mapMinioErr(obj.Err)
		}
		if obj.Key != fileKey {
			continue
		}
		if obj.VersionID != "" {
			return obj.VersionID, nil
		}
		if etag := strings.Trim(obj.ETag, `"`); etag != "" {
			return etag, nil
		}
	}
	return "", productimage.ErrObjectNotFound
}

// PublicURL builds the anonymous URL of an object. Each key segment is
// escaped separately so slashes stay path separators.
func (s *MinioStorage) PublicURL(bucket, fileKey string) (string, error) {
	if bucket == "" || fileKey == "" {
		return "", fmt.Errorf("public url: bucket and key are required")
	}

	base := s.publicBaseURL
	if base == "" {
		endpoint := s.client.EndpointURL()
		if endpoint == nil || endpoint.Host == "" {
			return "", fmt.Errorf("public url: storage endpoint is unknown")
		}
		scheme := "http"
		if s.useSSL {
			scheme = "https"
		}
		base = scheme + "://" + endpoint.Host
	}

	segments := strings.Split(strings.TrimPrefix(fileKey, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return base + "/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/"), nil
}
