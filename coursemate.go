package coursemate

import (
	"context"
	"log/slog"

	"github.com/coursemate/coursemate/internal/platform"
	"github.com/coursemate/coursemate/pkg/core"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Course is a public alias for the course container.
type Course = core.Course

// Task is a public alias for a course task.
type Task = core.Task

// Note is a public alias for a templated note.
type Note = core.Note

// StudySession is a public alias for one logged study block.
type StudySession = core.StudySession

// Template is a public alias for a note template definition.
type Template = core.Template

// Kind is a public alias for a template kind.
type Kind = core.Kind

// Service is a public alias for the domain service.
type Service = core.Service

// Store is a public alias for the storage port.
type Store = core.Store

// Event is a public alias for a storage change event.
type Event = core.Event

// --- Inputs ---

// NewCourse, UpdateCourse, NewTask, NewNote, UpdateNote and NewStudySession
// are the public aliases for the validated operation inputs.
type (
	NewCourse       = core.NewCourse
	UpdateCourse    = core.UpdateCourse
	NewTask         = core.NewTask
	TaskFilter      = core.TaskFilter
	NewNote         = core.NewNote
	UpdateNote      = core.UpdateNote
	NewStudySession = core.NewStudySession
	SearchOptions   = core.SearchOptions
	SearchHit       = core.SearchHit
	Stats           = core.Stats
	ExportFormat    = core.ExportFormat
)

// Export formats.
const (
	FormatText = core.FormatText
	FormatJSON = core.FormatJSON
	FormatYAML = core.FormatYAML
)

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// S3Options carries connection settings for the s3 storage backend.
type S3Options = platform.S3Options

// WithLogger sets the logger for the service and its store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom storage adapter (e.g. a mock).
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithStorage selects the storage backend by name ("file" or "s3").
func WithStorage(name string) Option {
	return platform.WithStorage(name)
}

// WithDataFile overrides the data file name (or object key for s3).
func WithDataFile(name string) Option {
	return platform.WithDataFile(name)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithS3 supplies connection settings for the s3 backend.
func WithS3(s S3Options) Option {
	return platform.WithS3(s)
}

// --- Factory ---

// Open creates a Service bound to the configured storage backend and loads
// the model. dataDir is the directory holding the data file; it is ignored
// for the s3 backend.
func Open(ctx context.Context, dataDir string, opts ...Option) (*core.Service, error) {
	return platform.New(ctx, dataDir, opts...)
}

// --- Catalog ---

// Kinds lists every template kind in catalog order.
func Kinds() []Kind {
	return core.Kinds()
}

// Templates lists every template definition in catalog order.
func Templates() []Template {
	return core.Templates()
}

// ParseKind resolves loose user input ("main idea", "5w1h") to a Kind.
func ParseKind(s string) (Kind, error) {
	return core.ParseKind(s)
}
