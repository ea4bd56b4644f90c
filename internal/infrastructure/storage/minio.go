package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sentimeter-team/sentimeter/pkg/config"
)

// MinIOArchiver stores raw uploads in an object bucket before analysis runs.
// Archival is best effort: analyses never fail because the archive write
// did. Results themselves are never stored.
type MinIOArchiver struct {
	client *minio.Client
	bucket string
}

// NewMinIOArchiver creates the archiver and ensures the bucket exists.
func NewMinIOArchiver(cfg *config.StorageConfig) (*MinIOArchiver, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	archiver := &MinIOArchiver{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archiver.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return archiver, nil
}

// ensureBucket creates the archive bucket if it does not exist. The bucket
// stays private; archived uploads are operator-only material.
func (m *MinIOArchiver) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Archive stores one upload under a date-partitioned object name and returns
// that name.
func (m *MinIOArchiver) Archive(ctx context.Context, analysisID, filename string, content []byte, contentType string) (string, error) {
	objectName := path.Join(time.Now().UTC().Format("2006/01/02"), analysisID, path.Base(filename))

	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive upload: %w", err)
	}
	return objectName, nil
}
