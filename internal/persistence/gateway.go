// Package persistence adapts the configured storage backend to the
// core.Gateway used by the tracker service.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"weektrack/internal/blob"
	"weektrack/internal/config"
	"weektrack/internal/core"
	"weektrack/internal/infra/persistence/postgres"
	"weektrack/internal/infra/persistence/sqlite"
)

// Gateway is a core.Gateway that owns resources released by Close. Clear
// removes the stored snapshot so the next Open seeds a fresh tree; removed is
// false when nothing was stored.
type Gateway interface {
	core.Gateway
	io.Closer
	Clear(ctx context.Context) (removed bool, err error)
}

// BlobGateway stores the snapshot as a single object in a blob.Store.
type BlobGateway struct {
	store blob.Store
	key   string
}

// NewBlobGateway wraps store. An empty key selects config.DefaultBlobKey.
func NewBlobGateway(store blob.Store, key string) *BlobGateway {
	if key == "" {
		key = config.DefaultBlobKey
	}
	return &BlobGateway{store: store, key: key}
}

// Key returns the object key holding the snapshot.
func (g *BlobGateway) Key() string { return g.key }

// Load reads the snapshot object. A missing object reports found=false.
func (g *BlobGateway) Load(ctx context.Context) (string, bool, error) {
	_, rc, err := g.store.Get(ctx, g.key)
	if errors.Is(err, blob.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", g.key, err)
	}
	return string(data), true, nil
}

// Save replaces the snapshot object.
func (g *BlobGateway) Save(ctx context.Context, snapshot string) error {
	_, err := g.store.Put(ctx, g.key, strings.NewReader(snapshot), blob.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"format": fmt.Sprintf("weektrack-v%d", core.SnapshotVersion)},
	})
	return err
}

// Clear deletes the snapshot object.
func (g *BlobGateway) Clear(ctx context.Context) (bool, error) {
	removed, err := g.store.Delete(ctx, g.key)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", g.key, err)
	}
	return removed, nil
}

// Close is a no-op; blob stores hold no long-lived handles.
func (g *BlobGateway) Close() error { return nil }

// Open builds the gateway selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg config.Config) (Gateway, error) {
	switch cfg.StorageDriver {
	case config.DriverFilesystem, config.DriverS3, config.DriverMemory, "":
		store, err := blob.Open(ctx, blobConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		return NewBlobGateway(store, cfg.Blob.Key), nil
	case config.DriverSQLite:
		st, err := sqlite.NewStore(cfg.SQLite.Path, cfg.Blob.Key)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.DriverPostgres:
		st, err := postgres.NewStore(ctx, cfg.Postgres.DSN, cfg.Blob.Key)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func blobConfig(cfg config.Config) blob.Config {
	return blob.Config{
		Driver: blob.Driver(cfg.StorageDriver),
		FSRoot: cfg.Blob.FSRoot,
		S3: blob.S3Config{
			Region:          cfg.Blob.S3.Region,
			Bucket:          cfg.Blob.S3.Bucket,
			Endpoint:        cfg.Blob.S3.Endpoint,
			AccessKeyID:     cfg.Blob.S3.AccessKeyID,
			SecretAccessKey: cfg.Blob.S3.SecretAccessKey,
			PathStyle:       cfg.Blob.S3.PathStyle,
		},
	}
}
