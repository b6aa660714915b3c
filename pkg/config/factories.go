package config

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/staticd/staticd/internal/logger"
	"github.com/staticd/staticd/pkg/content"
	contentCache "github.com/staticd/staticd/pkg/content/cache"
	contentFs "github.com/staticd/staticd/pkg/content/fs"
	contentMemory "github.com/staticd/staticd/pkg/content/memory"
	contentS3 "github.com/staticd/staticd/pkg/content/s3"
)

// CreateContentStore creates a content store based on configuration.
//
// The Type field selects the store implementation; the matching map
// section is decoded into that store's config struct and passed to its
// constructor. When the cache is enabled the store is wrapped with the
// Badger read cache.
//
// Supported types:
//   - "filesystem": pkg/content/fs (local directory tree)
//   - "memory": pkg/content/memory (ephemeral, mainly for tests)
//   - "s3": pkg/content/s3 (Amazon S3 or compatible storage)
func CreateContentStore(ctx context.Context, cfg *ContentConfig) (content.Store, error) {
	store, err := createBaseStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Cache.Enabled {
		cached, err := contentCache.New(store, cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to create content cache: %w", err)
		}
		logger.Info("Content cache enabled at %s (ttl %s)", cfg.Cache.Path, cfg.Cache.TTL)
		return cached, nil
	}

	return store, nil
}

func createBaseStore(ctx context.Context, cfg *ContentConfig) (content.Store, error) {
	switch cfg.Type {
	case "filesystem":
		return createFilesystemStore(cfg.Filesystem)
	case "memory":
		return contentMemory.New(), nil
	case "s3":
		return createS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown content store type: %q", cfg.Type)
	}
}

// createFilesystemStore creates a filesystem-based content store.
func createFilesystemStore(options map[string]any) (content.Store, error) {
	type FilesystemStoreConfig struct {
		Root string `mapstructure:"root"`
	}

	var storeCfg FilesystemStoreConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode filesystem store config: %w", err)
	}

	if storeCfg.Root == "" {
		return nil, fmt.Errorf("filesystem store: root is required")
	}

	store, err := contentFs.New(storeCfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem store: %w", err)
	}
	return store, nil
}

// createS3Store creates an S3-based content store.
func createS3Store(ctx context.Context, options map[string]any) (content.Store, error) {
	var storeCfg contentS3.Config
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode S3 store config: %w", err)
	}

	store, err := contentS3.New(ctx, storeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 store: %w", err)
	}
	return store, nil
}
