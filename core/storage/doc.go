// Package storage wraps the MinIO client behind a small interface used for
// the rule bucket.
//
// The bucket holds two trees: domestic rule sources read by the domestic
// fetcher, and the signed lists mirrored by the snapshot publisher. Both
// S3 and self-hosted MinIO endpoints work.
//
// Tests use the testify mock in core/storage/mocks, whose Objects, Keys and
// Body helpers build canned listings and object bodies.
//
// EnsureBucket creates the bucket at startup when it is missing. ReadObject
// reads a whole object and refuses ones larger than a limit.
//
//	client, err := storage.NewClient(cfg)
//	data, err := storage.ReadObject(ctx, client, cfg.Bucket, "domestic/nl.json", 1<<20)
package storage
