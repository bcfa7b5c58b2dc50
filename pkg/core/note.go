package core

import "time"

// Note is a filled-in template attached to a course. Content maps each of
// the kind's section keys to the text the student entered; the key set is
// fixed by the kind (see template.go).
type Note struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Kind      Kind              `json:"kind"`
	Content   map[string]string `json:"content"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// IsEmpty reports whether every section is blank.
func (n Note) IsEmpty() bool {
	for _, text := range n.Content {
		if CleanString(text) != "" {
			return false
		}
	}
	return true
}

func (n Note) clone() Note {
	out := n
	out.Content = make(map[string]string, len(n.Content))
	for k, v := range n.Content {
		out.Content[k] = v
	}
	return out
}

// NewNote carries the input for creating a note. Content keys must belong
// to the kind's section catalog; missing keys are filled in empty.
type NewNote struct {
	Title   string            `json:"title" validate:"required,notblank,max=200"`
	Kind    string            `json:"kind" validate:"required,templatekind"`
	Content map[string]string `json:"content"`
}

func (nn NewNote) Validate() error {
	return runValidation(nn)
}

// UpdateNote carries the input for updating a note. An empty title keeps
// the current one; content entries patch the matching sections.
type UpdateNote struct {
	Title   string            `json:"title" validate:"omitempty,max=200"`
	Content map[string]string `json:"content"`
}

func (un UpdateNote) Validate() error {
	return runValidation(un)
}
