package platform

import (
	"log/slog"

	"github.com/coursemate/coursemate/pkg/core"
)

// options holds the internal configuration for opening a service.
type options struct {
	store    core.Store
	logger   *slog.Logger
	storage  string
	dataFile string
	readOnly bool
	s3       S3Options
}

// Option defines a functional option for configuring the service.
type Option func(*options)

// S3Options carries connection settings for the s3 storage backend.
type S3Options struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		storage: "file",
	}
}

// WithStore injects a custom storage adapter (e.g. a mock, or an in-memory
// store). If provided, the storage backend selection is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLogger sets the logger for the service and its store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorage selects the storage backend by name ("file" or "s3").
// Defaults to "file".
func WithStorage(name string) Option {
	return func(o *options) {
		o.storage = name
	}
}

// WithDataFile overrides the data file name (or object key for s3).
func WithDataFile(name string) Option {
	return func(o *options) {
		o.dataFile = name
	}
}

// WithReadOnly enables read-only mode. Write operations return
// core.ErrReadOnly; reads work as usual.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithS3 supplies connection settings for the s3 backend. Only meaningful
// together with WithStorage("s3").
func WithS3(s S3Options) Option {
	return func(o *options) {
		o.s3 = s
	}
}
