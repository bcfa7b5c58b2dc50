package core

import "context"

// Store defines the contract for persisting the model. Adhering to this
// interface keeps the core independent of the underlying storage mechanism
// (filesystem, S3, in-memory).
type Store interface {
	// Load reads the full model. Missing backing data is not an error:
	// implementations return an empty model. Unreadable or malformed data
	// yields a *ParseError.
	Load(ctx context.Context) (*Model, error)

	// Save persists the full model, replacing what was stored before.
	Save(ctx context.Context, m *Model) error

	// Scratchpad reads the global free-text pad. Missing data means an
	// empty pad.
	Scratchpad(ctx context.Context) (string, error)

	// SaveScratchpad replaces the global free-text pad.
	SaveScratchpad(ctx context.Context, text string) error
}

// Watcher is an optional capability for stores that can signal external
// changes to the backing data. Discovered by type assertion.
type Watcher interface {
	// Watch emits an event whenever the stored model changes outside this
	// process. The channel closes when ctx is done.
	Watch(ctx context.Context) (<-chan Event, error)
}

// EventType represents the type of change to the stored model.
type EventType string

const (
	EventModify EventType = "MODIFY"
	EventRemove EventType = "REMOVE"
)

// Event represents a change to the backing data.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}
