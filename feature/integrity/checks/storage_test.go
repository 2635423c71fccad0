package checks

import (
	"context"
	"errors"
	"testing"

	"rules-service/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckStorage(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "rules").Return(true, nil)
	client.On("ListObjects", mock.Anything, "rules", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
		return o.Prefix == "domestic/"
	})).Return(mocks.Keys("domestic/a.json"))
	client.On("ListObjects", mock.Anything, "rules", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
		return o.Prefix == "signedlists/"
	})).Return(mocks.Keys())

	report, err := CheckStorage(context.Background(), client, "rules", []string{"domestic", "signedlists/"})
	require.NoError(t, err)
	assert.True(t, report.BucketExists)
	assert.Equal(t, []string{"signedlists/"}, report.MissingPrefixes)
	assert.False(t, report.OK())
}

func TestCheckStorageMissingBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "rules").Return(false, nil)

	report, err := CheckStorage(context.Background(), client, "rules", []string{"domestic/"})
	require.NoError(t, err)
	assert.False(t, report.BucketExists)
	assert.Equal(t, []string{"domestic/"}, report.MissingPrefixes)
	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckStorageError(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "rules").Return(false, errors.New("denied"))

	_, err := CheckStorage(context.Background(), client, "rules", nil)
	assert.ErrorContains(t, err, "denied")
}

func TestFixStorage(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "rules").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "rules", minio.MakeBucketOptions{Region: "eu"}).Return(nil)
	client.On("PutObject", mock.Anything, "rules", "domestic/", mock.Anything, int64(0), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	report := &StorageReport{Bucket: "rules", MissingPrefixes: []string{"domestic"}}
	require.NoError(t, FixStorage(context.Background(), client, "rules", "eu", zap.NewNop(), report))
	client.AssertExpectations(t)
}
