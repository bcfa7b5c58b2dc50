package core

import (
	"fmt"
	"strings"
	"time"
)

// Priority ranks a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority resolves user input to a Priority. Empty input defaults to
// medium.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(CleanString(s)) {
	case "":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "low", "l":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("invalid priority %q (want high, medium or low)", s)
}

// Task is a to-do item attached to a course.
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Done        bool       `json:"done"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTask carries the input for creating a task.
type NewTask struct {
	Description string `json:"description" validate:"required,notblank,max=500"`
	Priority    string `json:"priority" validate:"omitempty,oneof=high medium low"`
}

func (nt NewTask) Validate() error {
	return runValidation(nt)
}

// TaskFilter restricts a task listing. A nil Done means both states; an
// empty Priority means all priorities.
type TaskFilter struct {
	Done     *bool
	Priority Priority
}

func (f TaskFilter) matches(t Task) bool {
	if f.Done != nil && t.Done != *f.Done {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	return true
}
