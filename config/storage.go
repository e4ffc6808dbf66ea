package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sagarc03/stowage"
	"github.com/sagarc03/stowage/filesystem"
	"github.com/sagarc03/stowage/s3"
)

// OpenStorage constructs the configured backend. The returned cleanup
// function releases any resources the backend holds open (the filesystem
// sandbox root); it is a no-op for s3.
func OpenStorage(cfg StorageConfig) (stowage.Storage, func(), error) {
	switch cfg.Backend {
	case "s3":
		backend, err := s3.New(s3.Config{
			Bucket:        cfg.S3.Bucket,
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			Region:        cfg.S3.Region,
			Insecure:      cfg.S3.Insecure,
			DefaultACL:    cfg.S3.ACL,
			CustomDomain:  cfg.S3.CustomDomain,
			Presign:       cfg.S3.Presign,
			PresignExpiry: time.Duration(cfg.S3.PresignExpiry) * time.Second,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open storage: %w", err)
		}
		return backend, func() {}, nil

	case "filesystem":
		if err := os.MkdirAll(cfg.Filesystem.Path, 0o755); err != nil {
			return nil, nil, fmt.Errorf("open storage: %w", err)
		}
		root, err := os.OpenRoot(cfg.Filesystem.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open storage: %w", err)
		}
		cleanup := func() { _ = root.Close() }
		return filesystem.New(root, cfg.Filesystem.BaseURL), cleanup, nil

	default:
		return nil, nil, fmt.Errorf("open storage: unsupported backend: %s", cfg.Backend)
	}
}
