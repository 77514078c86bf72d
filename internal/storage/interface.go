package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by GetFile for paths that hold no object.
var ErrNotFound = errors.New("object not found")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	Updated time.Time `json:"updated"`
}

// StorageClient stores rendered snapshot files. Paths are slash separated
// and relative to the client's root.
type StorageClient interface {
	// Close releases the client.
	Close() error

	// StoreFile writes data at path, replacing any previous object.
	StoreFile(ctx context.Context, path string, data []byte) error

	// GetFile reads the object at path.
	GetFile(ctx context.Context, path string) ([]byte, error)

	// List returns every object whose path starts with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
