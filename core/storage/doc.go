// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so the object-backed
// baseline store can run against AWS S3, a self-hosted MinIO instance, or the
// testify mock in core/storage/mocks.
//
// # Operations
//
//   - EnsureBucket: lazy creation of the baseline bucket, tolerating a
//     concurrent creator.
//   - PutObject: writes the encoded baseline.
//   - GetObject: reads it back as a stream.
//   - RemoveObject: clears it.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket)
package storage
