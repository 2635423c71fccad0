package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"rules-service/core/storage"

	"github.com/minio/minio-go/v7"
)

// Publisher mirrors signed lists to an external location.
type Publisher interface {
	Publish(ctx context.Context, list *SignedList) error
}

// StoragePublisher writes each list as <prefix>/<type>.json into a bucket.
// Hash and signature travel as object metadata.
type StoragePublisher struct {
	client storage.Client
	bucket string
	prefix string
}

// NewStoragePublisher creates a publisher writing below prefix.
func NewStoragePublisher(client storage.Client, bucket, prefix string) *StoragePublisher {
	return &StoragePublisher{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// ObjectName returns the object key a list of kind is published under.
func (p *StoragePublisher) ObjectName(list *SignedList) string {
	return path.Join(p.prefix, strings.ToLower(string(list.ListType))+".json")
}

// Publish uploads the raw list.
func (p *StoragePublisher) Publish(ctx context.Context, list *SignedList) error {
	body := []byte(list.RawData)
	opts := minio.PutObjectOptions{
		ContentType: "application/json",
		UserMetadata: map[string]string{
			"hash":      list.Hash,
			"signature": list.Signature,
		},
	}
	if _, err := p.client.PutObject(ctx, p.bucket, p.ObjectName(list), bytes.NewReader(body), int64(len(body)), opts); err != nil {
		return fmt.Errorf("failed to publish signed list %s: %w", list.ListType, err)
	}
	return nil
}
