package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"rules-service/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport is the result of a storage integrity check.
type StorageReport struct {
	Bucket          string   `json:"bucket"`
	BucketExists    bool     `json:"bucket_exists"`
	MissingPrefixes []string `json:"missing_prefixes"`
}

// OK reports whether nothing is missing.
func (r *StorageReport) OK() bool {
	return r.BucketExists && len(r.MissingPrefixes) == 0
}

// CheckStorage reports whether the bucket and the given prefixes exist.
func CheckStorage(ctx context.Context, client storage.Client, bucket string, prefixes []string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, MissingPrefixes: []string{}}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		report.MissingPrefixes = append(report.MissingPrefixes, prefixes...)
		return report, nil
	}

	for _, prefix := range prefixes {
		opts := minio.ListObjectsOptions{
			Prefix:    folder(prefix),
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for obj := range client.ListObjects(ctx, bucket, opts) {
			found = obj.Err == nil
			break
		}
		if !found {
			report.MissingPrefixes = append(report.MissingPrefixes, prefix)
		}
	}

	return report, nil
}

// FixStorage creates the bucket when absent and a folder marker for each
// missing prefix.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger, report *StorageReport) error {
	if !report.BucketExists {
		if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
			return err
		}
		logger.Info("Created missing bucket", zap.String("bucket", bucket))
	}

	for _, prefix := range report.MissingPrefixes {
		_, err := client.PutObject(ctx, bucket, folder(prefix), bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create folder", zap.String("folder", prefix), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", prefix))
	}
	return nil
}

func folder(prefix string) string {
	if strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}
