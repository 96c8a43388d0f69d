package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"books-migrator/core/dataset"
	"books-migrator/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Manifest describes one uploaded snapshot.
type Manifest struct {
	RunID  string   `json:"run_id"`
	Prefix string   `json:"prefix"`
	Files  []string `json:"files"`
	Bytes  int64    `json:"bytes"`
}

// Service uploads dataset snapshots to the configured bucket.
type Service struct {
	client storage.Client
	bucket string
	logg   *zap.Logger
}

// NewService creates a snapshot service.
func NewService(client storage.Client, bucket string, logg *zap.Logger) *Service {
	return &Service{client: client, bucket: bucket, logg: logg}
}

// Upload copies every collection file present in dir to the bucket under a
// timestamped prefix and returns a manifest of what was written. Missing
// optional files are skipped; any upload failure aborts the snapshot.
func (s *Service) Upload(ctx context.Context, dir string) (*Manifest, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	manifest := &Manifest{
		RunID:  uuid.NewString(),
		Prefix: fmt.Sprintf("snapshots/%d", time.Now().Unix()),
	}

	for _, name := range []string{
		dataset.FileProducts,
		dataset.FileCustomers,
		dataset.FileInvoices,
		dataset.FilePayments,
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		objectName := manifest.Prefix + "/" + name
		_, err = s.client.PutObject(ctx, s.bucket, objectName,
			bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: "application/json"})
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", name, err)
		}

		manifest.Files = append(manifest.Files, name)
		manifest.Bytes += int64(len(data))
		s.logg.Info("uploaded snapshot object",
			zap.String("object", objectName),
			zap.Int("bytes", len(data)))
	}

	return manifest, nil
}
