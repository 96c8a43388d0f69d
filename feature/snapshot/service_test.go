package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"books-migrator/core/dataset"
	"books-migrator/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`[]`), 0644))
	}
	return dir
}

func TestUpload_AllFiles(t *testing.T) {
	dir := writeFiles(t, dataset.FileProducts, dataset.FileCustomers, dataset.FileInvoices, dataset.FilePayments)

	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "books-snapshots").Return(true, nil)
	mockClient.On("PutObject", mock.Anything, "books-snapshots", mock.Anything, mock.Anything, int64(2),
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "application/json"
		})).Return(minio.UploadInfo{}, nil).Times(4)

	svc := NewService(mockClient, "books-snapshots", zap.NewNop())
	manifest, err := svc.Upload(context.Background(), dir)
	require.NoError(t, err)

	assert.NotEmpty(t, manifest.RunID)
	assert.True(t, strings.HasPrefix(manifest.Prefix, "snapshots/"))
	assert.Equal(t, []string{
		dataset.FileProducts,
		dataset.FileCustomers,
		dataset.FileInvoices,
		dataset.FilePayments,
	}, manifest.Files)
	assert.Equal(t, int64(8), manifest.Bytes)
	mockClient.AssertExpectations(t)
}

func TestUpload_SkipsMissingOptionalFiles(t *testing.T) {
	dir := writeFiles(t, dataset.FileProducts, dataset.FileCustomers, dataset.FileInvoices)

	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "books-snapshots").Return(true, nil)
	mockClient.On("PutObject", mock.Anything, "books-snapshots", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Times(3)

	svc := NewService(mockClient, "books-snapshots", zap.NewNop())
	manifest, err := svc.Upload(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, manifest.Files, 3)
	assert.NotContains(t, manifest.Files, dataset.FilePayments)
	mockClient.AssertExpectations(t)
}

func TestUpload_CreatesMissingBucket(t *testing.T) {
	dir := writeFiles(t, dataset.FileProducts, dataset.FileCustomers, dataset.FileInvoices)

	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "books-snapshots").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "books-snapshots", mock.Anything).Return(nil)
	mockClient.On("PutObject", mock.Anything, "books-snapshots", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := NewService(mockClient, "books-snapshots", zap.NewNop())
	_, err := svc.Upload(context.Background(), dir)
	require.NoError(t, err)
	mockClient.AssertCalled(t, "MakeBucket", mock.Anything, "books-snapshots", mock.Anything)
}

func TestUpload_AbortsOnPutFailure(t *testing.T) {
	dir := writeFiles(t, dataset.FileProducts, dataset.FileCustomers, dataset.FileInvoices)

	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "books-snapshots").Return(true, nil)
	mockClient.On("PutObject", mock.Anything, "books-snapshots", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("connection reset"))

	svc := NewService(mockClient, "books-snapshots", zap.NewNop())
	_, err := svc.Upload(context.Background(), dir)
	assert.ErrorContains(t, err, "connection reset")
}
