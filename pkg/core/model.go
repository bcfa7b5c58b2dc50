package core

import (
	"fmt"
	"strings"
	"time"
)

// Model is the aggregate root: the full in-memory state of the app. It is
// persisted as one document and is not safe for concurrent use; callers
// serialize access.
type Model struct {
	Courses []Course
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// CourseByID returns a pointer into the model, or nil.
func (m *Model) CourseByID(id string) *Course {
	for i := range m.Courses {
		if m.Courses[i].ID == id {
			return &m.Courses[i]
		}
	}
	return nil
}

// CourseByName matches case-insensitively and returns a pointer into the
// model, or nil.
func (m *Model) CourseByName(name string) *Course {
	for i := range m.Courses {
		if strings.EqualFold(m.Courses[i].Name, name) {
			return &m.Courses[i]
		}
	}
	return nil
}

// ResolveCourse looks a course up by ID first, then by name.
func (m *Model) ResolveCourse(ref string) *Course {
	if c := m.CourseByID(ref); c != nil {
		return c
	}
	return m.CourseByName(ref)
}

// HasCourseName reports whether another course already uses the name.
func (m *Model) HasCourseName(name, excludeID string) bool {
	for i := range m.Courses {
		if m.Courses[i].ID == excludeID {
			continue
		}
		if strings.EqualFold(m.Courses[i].Name, name) {
			return true
		}
	}
	return false
}

// Validate checks the invariants a decoder cannot express structurally.
// Stores call it after decoding so that a hand-edited document with an
// unknown template kind or a duplicate course name is rejected before it
// replaces the in-memory model.
func (m *Model) Validate() error {
	seen := make(map[string]string, len(m.Courses))
	for _, c := range m.Courses {
		key := strings.ToLower(c.Name)
		if other, dup := seen[key]; dup {
			return NewValidationError(ErrCourseExists,
				FieldError{Field: "name", Error: fmt.Sprintf("%q used by courses %s and %s", c.Name, other, c.ID)})
		}
		seen[key] = c.ID

		for _, n := range c.Notes {
			if _, ok := TemplateFor(n.Kind); !ok {
				return NewValidationError(fmt.Errorf("%w: %q", ErrUnknownKind, n.Kind),
					FieldError{Field: "kind", Error: fmt.Sprintf("note %s of course %q", n.ID, c.Name)})
			}
		}
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}
