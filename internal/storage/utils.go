package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// SnapshotsPrefix is the root of every stored snapshot.
const SnapshotsPrefix = "snapshots/"

// SnapshotIndex is the entry page of a snapshot folder.
const SnapshotIndex = "index.html"

// SnapshotFolderPath returns the folder for a snapshot taken at ts:
// snapshots/YYYY/MM/DD/Snapshot-YYYY-MM-DD-HH-MM-SS.
func SnapshotFolderPath(ts time.Time) string {
	ts = ts.UTC()
	return fmt.Sprintf("%s%04d/%02d/%02d/Snapshot-%s",
		SnapshotsPrefix, ts.Year(), ts.Month(), ts.Day(), ts.Format("2006-01-02-15-04-05"))
}

// ListSnapshots returns snapshot folders, newest first, at most limit when
// limit is positive.
func ListSnapshots(ctx context.Context, client StorageClient, limit int) ([]string, error) {
	objects, err := client.List(ctx, SnapshotsPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	var folders []string
	for _, o := range objects {
		if path.Base(o.Path) == SnapshotIndex {
			folders = append(folders, path.Dir(o.Path))
		}
	}
	// Folder names embed the timestamp, so lexical order is chronological.
	sort.Sort(sort.Reverse(sort.StringSlice(folders)))
	if limit > 0 && limit < len(folders) {
		folders = folders[:limit]
	}
	return folders, nil
}

// CleanPath normalizes a client-supplied object path and rejects paths that
// escape the storage root.
func CleanPath(p string) (string, error) {
	p = strings.TrimPrefix(p, "/")
	clean := path.Clean(p)
	if p == "" || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid object path %q", p)
	}
	return clean, nil
}

var contentTypes = map[string]string{
	".json": "application/json",
	".txt":  "text/plain; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".css":  "text/css",
	".md":   "text/markdown",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// GetContentType returns the MIME type for a file name's extension.
func GetContentType(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}
