package blob

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"keepsafe/internal/domain/repositories"
)

// MinioStore implements the BlobStore interface against a MinIO (or any
// S3-compatible) endpoint.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// Config holds connection settings for the object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseTLS    bool
}

// NewMinioStore connects to the object store and ensures the vault bucket
// exists.
func NewMinioStore(ctx context.Context, cfg Config, logger *slog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
		logger.Info("bucket created", "bucket", cfg.Bucket)
	}

	logger.Info("object store connected", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)

	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Put writes a blob under key
func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put blob %q: %w", key, err)
	}
	return nil
}

// Remove deletes every key in one batched call. Missing keys are ignored.
func (s *MinioStore) Remove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objects := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objects <- minio.ObjectInfo{Key: key}
	}
	close(objects)

	// Drain the error channel fully so the library's sender goroutine is
	// never left blocked; report the first failure.
	var firstErr error
	for result := range s.client.RemoveObjects(ctx, s.bucket, objects, minio.RemoveObjectsOptions{}) {
		if result.Err != nil && firstErr == nil {
			firstErr = fmt.Errorf("remove blob %q: %w", result.ObjectName, result.Err)
		}
	}

	return firstErr
}

// SignedURL returns a presigned GET URL with the requested content
// disposition. The URL grants access until expiry and cannot be revoked.
func (s *MinioStore) SignedURL(ctx context.Context, key string, ttl time.Duration, disposition repositories.Disposition, filename string) (string, error) {
	reqParams := make(url.Values)
	switch disposition {
	case repositories.DispositionAttachment:
		reqParams.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", filename))
	default:
		reqParams.Set("response-content-disposition", "inline")
	}

	signed, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, reqParams)
	if err != nil {
		return "", fmt.Errorf("presign blob %q: %w", key, err)
	}

	return signed.String(), nil
}
