package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportFormat selects the rendering of an export.
type ExportFormat string

const (
	FormatText ExportFormat = "text"
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

// ParseExportFormat resolves user input to an ExportFormat. Empty input
// defaults to text.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(CleanString(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want text, json or yaml)", s)
}

// DisplayTime is the human-readable timestamp layout used in exports and
// listings.
const DisplayTime = "2006-01-02 15:04:05"

type exportNote struct {
	Title     string            `json:"title" yaml:"title"`
	Kind      Kind              `json:"kind" yaml:"kind"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
	Content   map[string]string `json:"content" yaml:"content"`
}

type exportEnvelope struct {
	Course     string       `json:"course" yaml:"course"`
	Code       string       `json:"code,omitempty" yaml:"code,omitempty"`
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
	Notes      []exportNote `json:"notes" yaml:"notes"`
}

// ExportCourse renders one course's notes to the writer in the given
// format.
func (s *Service) ExportCourse(w io.Writer, courseRef string, format ExportFormat) error {
	course := s.model.ResolveCourse(courseRef)
	if course == nil {
		return fmt.Errorf("%w: %s", ErrCourseNotFound, courseRef)
	}

	switch format {
	case FormatText, "":
		return exportText(w, course)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(buildEnvelope(course))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(buildEnvelope(course)); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported export format %q", format)
}

func buildEnvelope(c *Course) exportEnvelope {
	env := exportEnvelope{
		Course:     c.Name,
		Code:       c.Code,
		ExportedAt: now(),
		Notes:      make([]exportNote, len(c.Notes)),
	}
	for i, n := range c.Notes {
		env.Notes[i] = exportNote{
			Title:     n.Title,
			Kind:      n.Kind,
			CreatedAt: n.CreatedAt,
			Content:   n.clone().Content,
		}
	}
	return env
}

// exportText writes the classic plain-text report: a header block, then one
// ruled section per note with each filled section on its own block.
func exportText(w io.Writer, c *Course) error {
	rule := strings.Repeat("=", 60)
	sub := strings.Repeat("-", 60)

	var b strings.Builder
	b.WriteString("CourseMate Notes Export\n")
	b.WriteString("Course: " + c.Name + "\n")
	b.WriteString("Exported: " + now().Format(DisplayTime) + "\n")
	b.WriteString(rule + "\n\n")

	for i, n := range c.Notes {
		fmt.Fprintf(&b, "Note %d: %s - %s\n", i+1, DisplayName(n.Kind), n.Title)
		b.WriteString(sub + "\n")

		for _, key := range Sections(n.Kind) {
			text := n.Content[key]
			if CleanString(text) == "" {
				continue
			}
			fmt.Fprintf(&b, "\n%s:\n%s\n", key, text)
		}

		b.WriteString("\n" + rule + "\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
