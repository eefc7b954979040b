// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a narrow Client interface used to
// publish and fetch layer policy documents. Both AWS S3 and self-hosted MinIO
// instances are supported.
//
// # Operations
//
//   - BucketExists / MakeBucket: verify or create the policy bucket.
//   - PutObject / GetObject: raw object transfer.
//   - ReadObject / WriteObject: whole-document helpers built on the above.
//
// The Client interface makes storage interactions mockable in unit tests
// (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	data, err := storage.ReadObject(ctx, client, cfg.Storage.Bucket, "policies/layers.yaml")
package storage
