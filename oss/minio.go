package oss

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioAdapter implements the Interface on a MinIO bucket.
type MinioAdapter struct {
	client *minio.Client
	bucket string
}

// NewMinioAdapter creates the client and makes sure the bucket exists.
func NewMinioAdapter(ctx context.Context, endpoint, accessKeyID, secretAccessKey, bucket string, useSSL bool) (*MinioAdapter, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}

	return &MinioAdapter{
		client: client,
		bucket: bucket,
	}, nil
}

func (a *MinioAdapter) Put(ctx context.Context, path string, reader io.Reader, size int64) (*Object, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	contentType := contentTypeOf(path)
	if size < 0 {
		size = -1
	}
	info, err := a.client.PutObject(ctx, a.bucket, path, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put object: %w", err)
	}

	return &Object{
		Path:         path,
		Name:         filepath.Base(path),
		ContentType:  contentType,
		LastModified: &info.LastModified,
		Size:         info.Size,
	}, nil
}

func (a *MinioAdapter) GetStream(ctx context.Context, path string) (io.ReadCloser, error) {
	object, err := a.client.GetObject(ctx, a.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return object, nil
}

func (a *MinioAdapter) Delete(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if err := a.client.RemoveObject(ctx, a.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (a *MinioAdapter) GetURL(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	presignedURL, err := a.client.PresignedGetObject(ctx, a.bucket, path, presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignedURL.String(), nil
}

func (a *MinioAdapter) Exists(ctx context.Context, path string) (bool, error) {
	_, err := a.client.StatObject(ctx, a.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

func (a *MinioAdapter) GetEndpoint() string {
	return a.client.EndpointURL().String()
}

type minioDriver struct{}

func (d *minioDriver) Name() string {
	return "minio"
}

func (d *minioDriver) Connect(ctx context.Context, cfg *Config) (Interface, error) {
	return NewMinioAdapter(ctx, cfg.Endpoint, cfg.ID, cfg.Secret, cfg.Bucket, cfg.UseSSL)
}

func init() {
	RegisterDriver(&minioDriver{})
}
