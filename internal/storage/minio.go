package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nguyentantai21042004/reel-remix/internal/config"
	"github.com/nguyentantai21042004/reel-remix/internal/models"
)

type minioMirror struct {
	client *minio.Client
	bucket string
}

// NewMinIOMirror connects to MinIO and makes sure the bucket exists.
func NewMinIOMirror(ctx context.Context, cfg config.MinIOConfig) (Mirror, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &minioMirror{client: client, bucket: cfg.BucketName}, nil
}

func (m *minioMirror) Mirror(ctx context.Context, a models.MediaArtifact) error {
	f, err := os.Open(a.StoragePath)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat artifact: %w", err)
	}

	_, err = m.client.PutObject(ctx, m.bucket, objectName(a), f, info.Size(), minio.PutObjectOptions{
		ContentType: contentType(a.StoragePath),
	})
	if err != nil {
		return fmt.Errorf("upload %s to minio: %w", a.StoragePath, err)
	}
	return nil
}

func objectName(a models.MediaArtifact) string {
	return path.Join(string(a.Kind), filepath.Base(a.StoragePath))
}

func contentType(name string) string {
	switch filepath.Ext(name) {
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain; charset=utf-8"
	}
}
