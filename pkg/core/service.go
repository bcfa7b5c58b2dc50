package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
)

// Service handles the business logic for courses and their children. It
// loads the model once at construction, mutates it in memory and persists
// the whole model after every successful mutation.
//
// Service is not safe for concurrent use; the CLI drives it sequentially.
type Service struct {
	store Store
	log   *slog.Logger
	model *Model
}

// NewService creates a new Service and loads the model from the store.
// Missing backing data yields an empty model; a load failure (including a
// malformed document) is returned as-is.
func NewService(ctx context.Context, store Store, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &Service{store: store, log: logger, model: m}, nil
}

// Reload re-reads the model from the store. On any load error the previous
// in-memory model is kept and the error returned.
func (s *Service) Reload(ctx context.Context) error {
	m, err := s.store.Load(ctx)
	if err != nil {
		s.log.Error("reload failed, keeping current model", "error", err)
		return err
	}
	s.model = m
	return nil
}

// Watch observes changes to the backing data if the store supports it.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.store.(Watcher)
	if !ok {
		return nil, errors.New("store does not support watching")
	}
	return w.Watch(ctx)
}

func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.model); err != nil {
		s.log.Error("save failed", "error", err)
		return fmt.Errorf("persist model: %w", err)
	}
	return nil
}

// --- Courses ---

// AddCourse validates the input, creates the course and persists the model.
func (s *Service) AddCourse(ctx context.Context, in NewCourse) (Course, error) {
	if err := in.Validate(); err != nil {
		return Course{}, err
	}

	name := CleanString(in.Name)
	if s.model.HasCourseName(name, "") {
		return Course{}, NewValidationError(ErrCourseExists, FieldError{Field: "name", Error: "already in use"})
	}

	course := Course{
		ID:         uuid.NewString(),
		Name:       name,
		Code:       CleanString(in.Code),
		Instructor: CleanString(in.Instructor),
		CreatedAt:  now(),
		Tasks:      []Task{},
		Notes:      []Note{},
	}
	s.model.Courses = append(s.model.Courses, course)
	s.log.Debug("course added", "id", course.ID, "name", course.Name)

	if err := s.persist(ctx); err != nil {
		return Course{}, err
	}
	return course.clone(), nil
}

// UpdateCourse applies the non-empty fields of the input to the course.
func (s *Service) UpdateCourse(ctx context.Context, ref string, in UpdateCourse) (Course, error) {
	if err := in.Validate(); err != nil {
		return Course{}, err
	}

	course := s.model.ResolveCourse(ref)
	if course == nil {
		return Course{}, fmt.Errorf("%w: %s", ErrCourseNotFound, ref)
	}

	if name := CleanString(in.Name); name != "" {
		if s.model.HasCourseName(name, course.ID) {
			return Course{}, NewValidationError(ErrCourseExists, FieldError{Field: "name", Error: "already in use"})
		}
		course.Name = name
	}
	if code := CleanString(in.Code); code != "" {
		course.Code = code
	}
	if instructor := CleanString(in.Instructor); instructor != "" {
		course.Instructor = instructor
	}
	s.log.Debug("course updated", "id", course.ID)

	if err := s.persist(ctx); err != nil {
		return Course{}, err
	}
	return course.clone(), nil
}

// RemoveCourse deletes a course and everything it owns.
func (s *Service) RemoveCourse(ctx context.Context, ref string) error {
	course := s.model.ResolveCourse(ref)
	if course == nil {
		return fmt.Errorf("%w: %s", ErrCourseNotFound, ref)
	}

	for i := range s.model.Courses {
		if s.model.Courses[i].ID == course.ID {
			s.model.Courses = append(s.model.Courses[:i], s.model.Courses[i+1:]...)
			break
		}
	}
	s.log.Debug("course removed", "id", course.ID)

	return s.persist(ctx)
}

// Courses returns a snapshot of all courses in stored order.
func (s *Service) Courses() []Course {
	out := make([]Course, len(s.model.Courses))
	for i, c := range s.model.Courses {
		out[i] = c.clone()
	}
	return out
}

// FindCourse resolves a course reference by ID, then by name.
func (s *Service) FindCourse(ref string) (Course, error) {
	course := s.model.ResolveCourse(ref)
	if course == nil {
		return Course{}, fmt.Errorf("%w: %s", ErrCourseNotFound, ref)
	}
	return course.clone(), nil
}

// --- Tasks ---

// AddTask validates the input and appends a task to the course.
func (s *Service) AddTask(ctx context.Context, courseRef string, in NewTask) (Task, error) {
	if err := in.Validate(); err != nil {
		return Task{}, err
	}

	course := s.model.ResolveCourse(courseRef)
	if course == nil {
		return Task{}, fmt.Errorf("%w: %s", ErrCourseNotFound, courseRef)
	}

	priority := Priority(in.Priority)
	if priority == "" {
		priority = PriorityMedium
	}

	task := Task{
		ID:          uuid.NewString(),
		Description: CleanString(in.Description),
		Priority:    priority,
		CreatedAt:   now(),
	}
	course.Tasks = append(course.Tasks, task)
	s.log.Debug("task added", "course", course.ID, "task", task.ID)

	if err := s.persist(ctx); err != nil {
		return Task{}, err
	}
	return task, nil
}

// ToggleTask flips a task between pending and done. Toggling twice restores
// the original state.
func (s *Service) ToggleTask(ctx context.Context, courseRef, taskRef string) (Task, error) {
	course := s.model.ResolveCourse(courseRef)
	if course == nil {
		return Task{}, fmt.Errorf("%w: %s", ErrCourseNotFound, courseRef)
	}

	task, err := resolveTask(course, taskRef)
	if err != nil {
		return Task{}, err
	}

	task.Done = !task.Done
	if task.Done {
		t := now()
		task.CompletedAt = &t
	} else {
		task.CompletedAt = nil
	}
	s.log.Debug("task toggled", "course", course.ID, "task", task.ID, "done", task.Done)

	if err := s.persist(ctx); err != nil {
		return Task{}, err
	}
	return *task, nil
}

// RemoveTask deletes a task from the course.
func (s *Service) RemoveTask(ctx context.Context, courseRef, taskRef string) error {
	course := s.model.ResolveCourse(courseRef)
	if course == nil {
		return fmt.Errorf("%w: %s", ErrCourseNotFound, courseRef)
	}

	task, err := resolveTask(course, taskRef)
	if err != nil {
		return err
	}

	for i := range course.Tasks {
		if course.Tasks[i].ID == task.ID {
			course.Tasks = append(course.Tasks[:i], course.Tasks[i+1:]...)
			break
		}
	}
	s.log.Debug("task removed", "course", course.ID)

	return s.persist(ctx)
}

// Tasks lists a course's tasks, optionally filtered by state and priority.
func (s *Service) Tasks(courseRef string, filter TaskFilter) ([]Task, error) {
	course := s.model.ResolveCourse(courseRef)
	if course == nil {
		return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, courseRef)
	}

	out := make([]Task, 0, len(course.Tasks))
	for _, t := range course.Tasks {
		if filter.matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// --- Notes ---

// AddNote instantiates the requested template, fills it from the input and
// appends it to the course. Content keys outside the kind's catalog are
// rejected; a note with no text at all is rejected.
func (s *Service) AddNote(ctx context.Context, courseRef string, in NewNote) (Note, error) {
	if err := in.Validate(); err != nil {
		return Note{}, err
	}

	course := s.model.ResolveCourse(courseRef)
	if course == nil {
		return Note{}, fmt.Errorf("%w: %s", ErrCourseNotFound, courseRef)
	}

	kind, err := ParseKind(in.Kind)
	if err != nil {
		return Note{}, NewValidationError(err, FieldError{Field: "kind", Error: "unknown template kind"})
	}

	note, err := Instantiate(kind)
	if err != nil {
		return Note{}, err
	}
	for key, text := range in.Content {
		if _, ok := note.Content[key]; !ok {
			return Note{}, NewValidationError(nil, FieldError{
				Field: "content",
				Error: fmt.Sprintf("unknown section %q for %s", key, DisplayName(kind)),
			})
		}
		note.Content[key] = text
	}
	if note.IsEmpty() {
		return Note{}, NewValidationError(nil, FieldError{Field: "content", Error: "at least one section must have text"})
	}

	note.ID = uuid.NewString()
	note.Title = CleanString(in.Title)
	t := now()
	note.CreatedAt = t
	note.UpdatedAt = t

	course.Notes = append(course.Notes, note)
	s.log.Debug("note added", "course", course.ID, "note", note.ID, "kind", note.Kind)

	if err := s.persist(ctx); err != nil {
		return Note{}, err
	}
	return note.clone(), nil
}

// UpdateNote retitles a note and/or patches section text. The key set stays
// fixed by the kind.
func (s *Service) UpdateNote(ctx context.Context, courseRef, noteRef string, in UpdateNote) (Note, error) {
	if err := in.Validate(); err != nil {
		return Note{}, err
	}

	course := s.model.ResolveCourse(courseRef)
	if course == nil {
		return Note{}, fmt.Errorf("%w: %s", ErrCourseNotFound, courseRef)
	}

	note, err := resolveNote(course, noteRef)
	if err != nil {
		return Note{}, err
	}

	if title := CleanString(in.Title); title != "" {
		note.Title = title
	}
	for key, text := range in.Content {
		if _, ok := note.Content[key]; !ok {
			return Note{}, NewValidationError(nil, FieldError{
				Field: "content",
				Error: fmt.Sprintf("unknown section %q for %s", key, DisplayName(note.Kind)),
			})
		}
		note.Content[key] = text
	}
	if note.IsEmpty() {
		return Note{}, NewValidationError(nil, FieldError{Field: "content", Error: "at least one section must have text"})
	}
	note.UpdatedAt = now()
	s.log.Debug("note updated", "course", course.ID, "note", note.ID)

	if err := s.persist(ctx); err != nil {
		return Note{}, err
	}
	return note.clone(), nil
}

// RemoveNote deletes a note from the course.
func (s *Service) RemoveNote(ctx context.Context, courseRef, noteRef string) error {
	course := s.model.ResolveCourse(courseRef)
	if course == nil {
		return fmt.Errorf("%w: %s", ErrCourseNotFound, courseRef)
	}

	note, err := resolveNote(course, noteRef)
	if err != nil {
		return err
	}

	for i := range course.Notes {
		if course.Notes[i].ID == note.ID {
			course.Notes = append(course.Notes[:i], course.Notes[i+1:]...)
			break
		}
	}
	s.log.Debug("note removed", "course", course.ID)

	return s.persist(ctx)
}

// Notes lists a course's notes in stored order.
func (s *Service) Notes(courseRef string) ([]Note, error) {
	course := s.model.ResolveCourse(courseRef)
	if course == nil {
		return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, courseRef)
	}

	out := make([]Note, len(course.Notes))
	for i, n := range course.Notes {
		out[i] = n.clone()
	}
	return out, nil
}

// FindNote resolves a note inside a course by ID or 1-based position.
func (s *Service) FindNote(courseRef, noteRef string) (Note, error) {
	course := s.model.ResolveCourse(courseRef)
	if course == nil {
		return Note{}, fmt.Errorf("%w: %s", ErrCourseNotFound, courseRef)
	}

	note, err := resolveNote(course, noteRef)
	if err != nil {
		return Note{}, err
	}
	return note.clone(), nil
}

// --- Study log ---

// LogStudy appends a study session to the course.
func (s *Service) LogStudy(ctx context.Context, courseRef string, in NewStudySession) (StudySession, error) {
	if err := in.Validate(); err != nil {
		return StudySession{}, err
	}

	course := s.model.ResolveCourse(courseRef)
	if course == nil {
		return StudySession{}, fmt.Errorf("%w: %s", ErrCourseNotFound, courseRef)
	}

	mode := StudyMode(in.Mode)
	if mode == "" {
		mode = ModeFocus
	}

	session := StudySession{
		ID:       uuid.NewString(),
		Minutes:  in.Minutes,
		Mode:     mode,
		LoggedAt: now(),
	}
	course.StudyLog = append(course.StudyLog, session)
	s.log.Debug("study logged", "course", course.ID, "minutes", session.Minutes, "mode", session.Mode)

	if err := s.persist(ctx); err != nil {
		return StudySession{}, err
	}
	return session, nil
}

// --- Scratchpad ---

// Scratchpad reads the global free-text pad.
func (s *Service) Scratchpad(ctx context.Context) (string, error) {
	return s.store.Scratchpad(ctx)
}

// SetScratchpad replaces the global free-text pad.
func (s *Service) SetScratchpad(ctx context.Context, text string) error {
	if err := s.store.SaveScratchpad(ctx, text); err != nil {
		s.log.Error("scratchpad save failed", "error", err)
		return fmt.Errorf("save scratchpad: %w", err)
	}
	return nil
}

// --- Reference resolution ---

// resolveTask accepts a task ID or a 1-based list position.
func resolveTask(c *Course, ref string) (*Task, error) {
	for i := range c.Tasks {
		if c.Tasks[i].ID == ref {
			return &c.Tasks[i], nil
		}
	}
	if idx, err := strconv.Atoi(ref); err == nil && idx >= 1 && idx <= len(c.Tasks) {
		return &c.Tasks[idx-1], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
}

// resolveNote accepts a note ID or a 1-based list position.
func resolveNote(c *Course, ref string) (*Note, error) {
	for i := range c.Notes {
		if c.Notes[i].ID == ref {
			return &c.Notes[i], nil
		}
	}
	if idx, err := strconv.Atoi(ref); err == nil && idx >= 1 && idx <= len(c.Notes) {
		return &c.Notes[idx-1], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, ref)
}
