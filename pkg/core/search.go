package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
)

// SearchOptions restricts a search. CoursePattern is a glob matched against
// course names ("CS*", "Bio*101").
type SearchOptions struct {
	CoursePattern string
}

// SearchHit identifies where a query matched. Section is empty when the
// match was in the note title.
type SearchHit struct {
	CourseID   string
	CourseName string
	NoteID     string
	NoteTitle  string
	Kind       Kind
	Section    string
	Snippet    string
}

// SearchNotes scans note titles and section text for a case-insensitive
// substring match. The scan is linear over the whole model; there is no
// index.
func (s *Service) SearchNotes(query string, opts SearchOptions) ([]SearchHit, error) {
	query = CleanString(query)
	if query == "" {
		return nil, nil
	}
	needle := strings.ToLower(query)

	pattern := strings.ToLower(CleanString(opts.CoursePattern))
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid course pattern %q", opts.CoursePattern)
	}

	var hits []SearchHit
	for _, c := range s.model.Courses {
		if pattern != "" {
			ok, err := doublestar.Match(pattern, strings.ToLower(c.Name))
			if err != nil {
				return nil, fmt.Errorf("match course pattern: %w", err)
			}
			if !ok {
				continue
			}
		}

		for _, n := range c.Notes {
			if strings.Contains(strings.ToLower(n.Title), needle) {
				hits = append(hits, SearchHit{
					CourseID:   c.ID,
					CourseName: c.Name,
					NoteID:     n.ID,
					NoteTitle:  n.Title,
					Kind:       n.Kind,
					Snippet:    snippet(n.Title, needle),
				})
			}
			// Sections in catalog order keeps results deterministic.
			for _, key := range Sections(n.Kind) {
				text := n.Content[key]
				if !strings.Contains(strings.ToLower(text), needle) {
					continue
				}
				hits = append(hits, SearchHit{
					CourseID:   c.ID,
					CourseName: c.Name,
					NoteID:     n.ID,
					NoteTitle:  n.Title,
					Kind:       n.Kind,
					Section:    key,
					Snippet:    snippet(text, needle),
				})
			}
		}
	}
	return hits, nil
}

const snippetRadius = 30

// snippet returns a short window of text around the first match, with
// whitespace collapsed.
func snippet(text, loweredNeedle string) string {
	flat := strings.Join(strings.Fields(text), " ")
	idx := strings.Index(strings.ToLower(flat), loweredNeedle)
	if idx < 0 {
		return flat
	}

	start := idx - snippetRadius
	if start < 0 {
		start = 0
	}
	end := idx + len(loweredNeedle) + snippetRadius
	if end > len(flat) {
		end = len(flat)
	}
	for start > 0 && !utf8.RuneStart(flat[start]) {
		start--
	}
	for end < len(flat) && !utf8.RuneStart(flat[end]) {
		end++
	}

	out := flat[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(flat) {
		out += "..."
	}
	return out
}

// Stats aggregates counts over the whole model. Computed on demand.
type Stats struct {
	Courses       int
	Notes         int
	NotesByKind   map[Kind]int
	TasksOpen     int
	TasksDone     int
	StudySessions int
	StudyMinutes  int
}

// Stats walks the model and returns aggregate counts.
func (s *Service) Stats() Stats {
	st := Stats{
		Courses:     len(s.model.Courses),
		NotesByKind: make(map[Kind]int),
	}
	for _, c := range s.model.Courses {
		st.Notes += len(c.Notes)
		for _, n := range c.Notes {
			st.NotesByKind[n.Kind]++
		}
		for _, t := range c.Tasks {
			if t.Done {
				st.TasksDone++
			} else {
				st.TasksOpen++
			}
		}
		st.StudySessions += len(c.StudyLog)
		st.StudyMinutes += c.StudyMinutes()
	}
	return st
}
