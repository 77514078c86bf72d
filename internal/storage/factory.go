package storage

import (
	"context"
	"fmt"

	"energydash/internal/config"
)

// DeploymentMode selects the storage backend.
type DeploymentMode string

const (
	DeploymentLocal DeploymentMode = "local"
	DeploymentGCS   DeploymentMode = "gcs"
)

// NewStorageClient creates the client for mode from cfg.
func NewStorageClient(ctx context.Context, mode DeploymentMode, cfg *config.Config) (StorageClient, error) {
	switch mode {
	case DeploymentLocal:
		dir := cfg.ExportsDir
		if dir == "" {
			dir = "exports"
		}
		client, err := NewLocalStorageClient(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return client, nil

	case DeploymentGCS:
		client, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported deployment mode: %s", mode)
	}
}
