// Package fs persists the whole course model as one JSON document on the
// local filesystem, with an optional scratchpad sidecar next to it.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/coursemate/coursemate/pkg/core"
)

const (
	// DefaultDataFile is the JSON document holding every course.
	DefaultDataFile = "coursemate.json"
	// DefaultScratchFile is the free-text sidecar next to the data file.
	DefaultScratchFile = "scratchpad.txt"
)

// Store implements core.Store on a directory.
type Store struct {
	Path   string
	config Config
	log    *slog.Logger
}

// Config holds the configuration for the filesystem store.
type Config struct {
	Path        string
	DataFile    string // defaults to DefaultDataFile
	ScratchFile string // defaults to DefaultScratchFile
	ReadOnly    bool
	Logger      *slog.Logger
}

// NewStore creates a new filesystem-backed store rooted at config.Path.
func NewStore(config Config) *Store {
	if config.DataFile == "" {
		config.DataFile = DefaultDataFile
	}
	if config.ScratchFile == "" {
		config.ScratchFile = DefaultScratchFile
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		Path:   config.Path,
		config: config,
		log:    log,
	}
}

// Initialize performs the necessary setup for the store (mkdir). The data
// file itself is only created by the first Save.
func (s *Store) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// DataPath returns the absolute location of the JSON document.
func (s *Store) DataPath() string {
	return filepath.Join(s.Path, s.config.DataFile)
}

func (s *Store) scratchPath() string {
	return filepath.Join(s.Path, s.config.ScratchFile)
}

// Load reads the whole model from disk.
//
// Workflow:
//  1. Read the data file; a missing file yields an empty model.
//  2. Decode the top-level course array; failures become *core.ParseError.
//  3. Validate the decoded model before handing it out.
func (s *Store) Load(ctx context.Context) (*core.Model, error) {
	path := s.DataPath()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.log.Debug("data file missing, starting empty", "path", path)
		return core.NewModel(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var courses []core.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, &core.ParseError{Path: path, Err: err}
	}

	model := &core.Model{Courses: courses}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	s.log.Debug("loaded model", "path", path, "courses", len(model.Courses))
	return model, nil
}

// Save writes the whole model to disk atomically.
func (s *Store) Save(ctx context.Context, model *core.Model) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}

	courses := model.Courses
	if courses == nil {
		courses = []core.Course{} // an empty document is "[]", not "null"
	}

	data, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize model: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := writeFileAtomic(s.DataPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}

	s.log.Debug("saved model", "path", s.DataPath(), "courses", len(courses))
	return nil
}

// Scratchpad reads the sidecar text file. A missing file is an empty pad.
func (s *Store) Scratchpad(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.scratchPath())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read scratchpad: %w", err)
	}
	return string(data), nil
}

// SaveScratchpad replaces the sidecar text file atomically.
func (s *Store) SaveScratchpad(ctx context.Context, text string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := writeFileAtomic(s.scratchPath(), []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write scratchpad: %w", err)
	}
	return nil
}
