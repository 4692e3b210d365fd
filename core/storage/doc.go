// Package storage provides the object storage client used to publish
// manifests.
//
// It wraps the MinIO Go client behind a small interface, which works against
// both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - MakeBucket: Creates the bucket on first publish (see EnsureBucket).
//   - PutObject: Uploads a finished manifest.
//
// # Usage
//
//	client, err := storage.NewClient(cfg)
//	err = storage.EnsureBucket(ctx, client, cfg.Bucket, cfg.Region)
package storage
