// Package platform wires storage adapters to the domain service. It is the
// single place that knows every backend; callers go through the root
// coursemate package.
package platform

import (
	"context"
	"fmt"

	"github.com/coursemate/coursemate/pkg/adapters/fs"
	"github.com/coursemate/coursemate/pkg/adapters/s3"
	"github.com/coursemate/coursemate/pkg/core"
)

// New opens a service on the configured storage backend. dataDir is
// backend-specific: a directory for "file", ignored for "s3".
func New(ctx context.Context, dataDir string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := initStore(ctx, dataDir, o)
	if err != nil {
		return nil, err
	}

	return core.NewService(ctx, store, o.logger)
}

// initStore selects and initializes the storage adapter.
func initStore(ctx context.Context, dataDir string, o *options) (core.Store, error) {
	// An injected store skips backend selection entirely.
	if o.store != nil {
		return o.store, nil
	}

	switch o.storage {
	case "", "file":
		store := fs.NewStore(fs.Config{
			Path:     dataDir,
			DataFile: o.dataFile,
			ReadOnly: o.readOnly,
			Logger:   o.logger,
		})
		if err := store.Initialize(ctx); err != nil {
			return nil, err
		}
		return store, nil

	case "s3":
		store, err := s3.NewStore(ctx, s3.Config{
			Bucket:       o.s3.Bucket,
			Region:       o.s3.Region,
			Endpoint:     o.s3.Endpoint,
			AccessKey:    o.s3.AccessKey,
			SecretKey:    o.s3.SecretKey,
			UsePathStyle: o.s3.UsePathStyle,
			DataKey:      o.dataFile,
			ReadOnly:     o.readOnly,
			Logger:       o.logger,
		})
		if err != nil {
			return nil, err
		}
		if err := store.Initialize(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}

	return nil, fmt.Errorf("unknown storage backend: %s", o.storage)
}
