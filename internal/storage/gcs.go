package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSClient stores objects in a Google Cloud Storage bucket.
type GCSClient struct {
	client *storage.Client
	bucket string
}

// NewGCSClient creates a client using application default credentials.
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	if bucketName == "" {
		return nil, errors.New("bucket name is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSClient{client: client, bucket: bucketName}, nil
}

// Close closes the GCS client.
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// StoreFile uploads data with a content type derived from the extension.
func (g *GCSClient) StoreFile(ctx context.Context, p string, data []byte) error {
	clean, err := CleanPath(p)
	if err != nil {
		return err
	}
	w := g.client.Bucket(g.bucket).Object(clean).NewWriter(ctx)
	w.ContentType = GetContentType(clean)
	w.CacheControl = "public, max-age=3600"
	w.Metadata = map[string]string{"generated-at": time.Now().UTC().Format(time.RFC3339)}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write gs://%s/%s: %w", g.bucket, clean, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize gs://%s/%s: %w", g.bucket, clean, err)
	}
	return nil
}

// GetFile downloads an object.
func (g *GCSClient) GetFile(ctx context.Context, p string) ([]byte, error) {
	clean, err := CleanPath(p)
	if err != nil {
		return nil, err
	}
	r, err := g.client.Bucket(g.bucket).Object(clean).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%s: %w", clean, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", g.bucket, clean, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", g.bucket, clean, err)
	}
	return data, nil
}

// List iterates the objects under prefix.
func (g *GCSClient) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	var objects []ObjectInfo
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list gs://%s/%s: %w", g.bucket, prefix, err)
		}
		objects = append(objects, ObjectInfo{Path: attrs.Name, Size: attrs.Size, Updated: attrs.Updated})
	}
	return objects, nil
}
