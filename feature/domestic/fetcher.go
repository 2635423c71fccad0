package domestic

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"rules-service/core/dataset"
	"rules-service/core/storage"
	"rules-service/core/utils"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Source keys every rule object must carry.
const (
	KeyIdentifier = "identifier"
	KeyRegion     = "region"
	KeyVersion    = "version"
	KeyRawData    = "raw_data"
)

var requiredKeys = []string{KeyIdentifier, KeyRegion, KeyVersion, KeyRawData}

// Fetcher reads domestic rules from a bucket.
type Fetcher struct {
	client  storage.Client
	bucket  string
	prefix  string
	maxSize int64
}

// NewFetcher creates a fetcher for objects under cfg.Prefix in bucket.
func NewFetcher(client storage.Client, bucket string, cfg Config) *Fetcher {
	maxSize := cfg.MaxObjectBytes
	if maxSize <= 0 {
		maxSize = 1 << 20
	}
	return &Fetcher{client: client, bucket: bucket, prefix: cfg.Prefix, maxSize: maxSize}
}

// Fetch lists and parses every rule object. Listing failures fail the
// cycle; unreadable objects are skipped.
func (f *Fetcher) Fetch(ctx context.Context, log *zap.Logger) ([]dataset.Item, error) {
	var items []dataset.Item
	for obj := range f.client.ListObjects(ctx, f.bucket, minio.ListObjectsOptions{Prefix: f.prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list domestic rules: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}

		data, err := storage.ReadObject(ctx, f.client, f.bucket, obj.Key, f.maxSize)
		if err != nil {
			log.Warn("Skipping domestic rule", zap.String("object", obj.Key), zap.Error(err))
			continue
		}
		item, err := ParseRule(data)
		if err != nil {
			log.Warn("Skipping domestic rule", zap.String("object", obj.Key), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// ParseRule builds an item from one rule source document.
func ParseRule(data []byte) (dataset.Item, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return dataset.Item{}, fmt.Errorf("rule source is not a json object: %w", err)
	}
	if missing := utils.MissingKeys(doc, requiredKeys...); len(missing) > 0 {
		return dataset.Item{}, fmt.Errorf("rule source lacks keys %v", missing)
	}

	raw := utils.ToString(doc[KeyRawData])
	if raw == "" {
		return dataset.Item{}, fmt.Errorf("rule source has empty %s", KeyRawData)
	}
	return dataset.NewItem(
		utils.ToString(doc[KeyIdentifier]),
		utils.ToString(doc[KeyRegion]),
		utils.ToString(doc[KeyVersion]),
		raw,
	), nil
}
