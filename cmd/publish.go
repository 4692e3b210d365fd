package cmd

import (
	"context"
	"fmt"

	"dataset-manifest/core/config"
	"dataset-manifest/core/manifest"
	"dataset-manifest/core/storage"

	"go.uber.org/zap"
)

// publisher returns the bucket sink when publishing is enabled, nil otherwise.
func publisher(ctx context.Context, cfg *config.Config, l *zap.Logger) (manifest.Sink, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		return nil, err
	}

	l.Info("Publishing manifests",
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("prefix", cfg.Storage.Prefix),
	)
	return manifest.NewBucketSink(client, cfg.Storage.Bucket, cfg.Storage.Prefix), nil
}
