package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

var newMinioClient = func(endpoint string, opts *minio.Options) (minioClient, error) {
	return minio.New(endpoint, opts)
}

// MinioStore keeps objects in a MinIO bucket. The bucket is created on the
// first write if it does not exist yet.
type MinioStore struct {
	client minioClient
	bucket string
	region string

	bucketOnce sync.Once
	bucketErr  error
}

var _ Store = (*MinioStore)(nil)

func NewMinioStore(_ context.Context, cfg Config) (*MinioStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("minio: endpoint and bucket are required")
	}
	c, err := newMinioClient(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: new client: %w", err)
	}
	return &MinioStore{client: c, bucket: cfg.Bucket, region: cfg.Region}, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	s.bucketOnce.Do(func() {
		ok, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.bucketErr = fmt.Errorf("minio: bucket exists: %w", err)
			return
		}
		if ok {
			return
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			s.bucketErr = fmt.Errorf("minio: make bucket: %w", err)
		}
	})
	return s.bucketErr
}

func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio: put %s: %w", key, err)
	}
	return nil
}

func (s *MinioStore) Remove(ctx context.Context, keys ...string) error {
	var errs []error
	for _, k := range keys {
		if err := s.client.RemoveObject(ctx, s.bucket, k, minio.RemoveObjectOptions{}); err != nil {
			errs = append(errs, fmt.Errorf("minio: remove %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

func (s *MinioStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isMinioNotFound(err) {
			return "", fmt.Errorf("minio: presign %s: %w", key, common.ErrorNotFound)
		}
		return "", fmt.Errorf("minio: stat %s: %w", key, err)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("minio: presign %s: %w", key, err)
	}
	return u.String(), nil
}

func isMinioNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return true
	}
	return resp.StatusCode == http.StatusNotFound
}
