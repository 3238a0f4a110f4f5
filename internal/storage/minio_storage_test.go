package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/usecase/productimage"
	"github.com/minio/minio-go/v7"
)

type mockMinio struct {
	bucketExistsFn    func(ctx context.Context, bucketName string) (bool, error)
	makeBucketFn      func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	setBucketPolicyFn func(ctx context.Context, bucketName, policy string) error
	listObjectsFn     func(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	putObjectFn       func(ctx context.Context, bucketName, objectName string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	endpointURL       *url.URL
}

func (m *mockMinio) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return m.bucketExistsFn(ctx, bucketName)
}
func (m *mockMinio) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.makeBucketFn(ctx, bucketName, opts)
}
func (m *mockMinio) SetBucketPolicy(ctx context.Context, bucketName, policy string) error {
	if m.setBucketPolicyFn == nil {
		return nil
	}
	return m.setBucketPolicyFn(ctx, bucketName, policy)
}
func (m *mockMinio) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return m.listObjectsFn(ctx, bucketName, opts)
}
func (m *mockMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return m.putObjectFn(ctx, bucketName, objectName, reader, size, opts)
}
func (m *mockMinio) EndpointURL() *url.URL {
	return m.endpointURL
}

func listOf(objs ...minio.ObjectInfo) func(context.Context, string, minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return func(context.Context, string, minio.ListObjectsOptions) <-chan minio.ObjectInfo {
		ch := make(chan minio.ObjectInfo, len(objs))
		for _, o := range objs {
			ch <- o
		}
		close(ch)
		return ch
	}
}

func errCode(code string) error {
	return minio.ErrorResponse{Code: code, Message: code}
}

func TestInitBucket(t *testing.T) {
	tests := []struct {
		name           string
		exists         bool
		existsErr      error
		makeErr        error
		policyErr      error
		wantMakeCalled bool
		wantErr        error
	}{
		{
			name:           "bucket exists, no create",
			exists:         true,
			wantMakeCalled: false,
		},
		{
			name:           "bucket does not exist, create succeeds",
			exists:         false,
			wantMakeCalled: true,
		},
		{
			name:      "BucketExists error bubbles up",
			existsErr: errors.New("exist fail"),
			wantErr:   productimage.ErrInternal,
		},
		{
			name:           "MakeBucket error bubbles up",
			exists:         false,
			makeErr:        errCode("AccessDenied"),
			wantMakeCalled: true,
			wantErr:        productimage.ErrUnauthorized,
		},
		{
			name:      "policy error bubbles up",
			exists:    true,
			policyErr: errors.New("policy fail"),
			wantErr:   productimage.ErrInternal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			makeCalled := false
			var gotPolicy string

			mock := &mockMinio{
				bucketExistsFn: func(ctx context.Context, bucketName string) (bool, error) {
					return tc.exists, tc.existsErr
				},
				makeBucketFn: func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
					makeCalled = true
					return tc.makeErr
				},
				setBucketPolicyFn: func(ctx context.Context, bucketName, policy string) error {
					gotPolicy = policy
					return tc.policyErr
				},
			}

			s := &MinioStorage{client: mock}
			err := s.InitBucket("product-images")

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v; want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if makeCalled != tc.wantMakeCalled {
				t.Errorf("MakeBucket called = %v; want %v", makeCalled, tc.wantMakeCalled)
			}
			if !strings.Contains(gotPolicy, "arn:aws:s3:::product-images/*") || !strings.Contains(gotPolicy, "s3:GetObject") {
				t.Errorf("unexpected policy %s", gotPolicy)
			}
		})
	}
}

func TestSaveFile(t *testing.T) {
	var gotBucket, gotKey, gotCT string
	var gotBody []byte
	mock := &mockMinio{
		putObjectFn: func(_ context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			gotBucket, gotKey, gotCT = bucket, key, opts.ContentType
			gotBody, _ = io.ReadAll(r)
			if size != 3 {
				t.Errorf("size = %d; want 3", size)
			}
			return minio.UploadInfo{}, nil
		},
	}
	s := &MinioStorage{client: mock}

	err := s.SaveFile(context.Background(), "b", "p/a_thumbnail.webp", bytes.NewReader([]byte("abc")), 3, map[string]string{"Content-Type": "image/webp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBucket != "b" || gotKey != "p/a_thumbnail.webp" || gotCT != "image/webp" || string(gotBody) != "abc" {
		t.Errorf("unexpected put: %q %q %q %q", gotBucket, gotKey, gotCT, gotBody)
	}

	mock.putObjectFn = func(context.Context, string, string, io.Reader, int64, minio.PutObjectOptions) (minio.UploadInfo, error) {
		return minio.UploadInfo{}, errCode("NoSuchBucket")
	}
	err = s.SaveFile(context.Background(), "b", "k", bytes.NewReader(nil), 0, nil)
	if !errors.Is(err, productimage.ErrBucketNotFound) {
		t.Fatalf("expected ErrBucketNotFound, got %v", err)
	}
}

func TestObjectID(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		objs       []minio.ObjectInfo
		wantPrefix string
		want       string
		wantErr    error
	}{
		{
			name:       "matches etag",
			key:        "products/p1/photo_medium.webp",
			objs:       []minio.ObjectInfo{{Key: "products/p1/photo_thumbnail.webp", ETag: "aaa"}, {Key: "products/p1/photo_medium.webp", ETag: `"bbb"`}},
			wantPrefix: "products/p1/",
			want:       "bbb",
		},
		{
			name: "prefers version id",
			key:  "a/b.webp",
			objs: []minio.ObjectInfo{{Key: "a/b.webp", ETag: "e", VersionID: "v1"}},
			want: "v1",
		},
		{
			name:       "root level key",
			key:        "b.webp",
			objs:       []minio.ObjectInfo{{Key: "b.webp", ETag: "root"}},
			wantPrefix: "",
			want:       "root",
		},
		{
			name:    "no match",
			key:     "a/missing.webp",
			objs:    []minio.ObjectInfo{{Key: "a/other.webp", ETag: "x"}},
			wantErr: productimage.ErrObjectNotFound,
		},
		{
			name:    "list error",
			key:     "a/b.webp",
			objs:    []minio.ObjectInfo{{Err: errCode("AccessDenied")}},
			wantErr: productimage.ErrUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotPrefix string
			list := listOf(tc.objs...)
			mock := &mockMinio{
				listObjectsFn: func(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
					gotPrefix = opts.Prefix
					return list(ctx, bucket, opts)
				},
			}
			s := &MinioStorage{client: mock}

			got, err := s.ObjectID(context.Background(), "product-images", tc.key)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v; want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ObjectID = %q; want %q", got, tc.want)
			}
			if tc.wantPrefix != "" && gotPrefix != tc.wantPrefix {
				t.Errorf("prefix = %q; want %q", gotPrefix, tc.wantPrefix)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	endp, _ := url.Parse("https://files.example")
	mock := &mockMinio{endpointURL: endp}

	s1 := &MinioStorage{client: mock, useSSL: false}
	got1, err := s1.PublicURL("buck", "f.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "http://files.example/buck/f.txt"; got1 != want {
		t.Errorf("PublicURL = %q; want %q", got1, want)
	}

	s2 := &MinioStorage{client: mock, useSSL: true}
	got2, _ := s2.PublicURL("buck", "dir/my photo.jpg")
	if want := "https://files.example/buck/dir/my%20photo.jpg"; got2 != want {
		t.Errorf("PublicURL = %q; want %q", got2, want)
	}

	s3 := &MinioStorage{client: mock, publicBaseURL: "https://cdn.shop.test"}
	got3, _ := s3.PublicURL("buck", "dir/x.webp")
	if want := "https://cdn.shop.test/buck/dir/x.webp"; got3 != want {
		t.Errorf("PublicURL = %q; want %q", got3, want)
	}

	if _, err := s1.PublicURL("buck", ""); err == nil {
		t.Error("expected error for empty key")
	}

	s4 := &MinioStorage{client: &mockMinio{}}
	if _, err := s4.PublicURL("buck", "k"); err == nil {
		t.Error("expected error without endpoint")
	}
}
