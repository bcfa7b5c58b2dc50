package core

import (
	"fmt"
	"strings"
)

// Kind identifies a note template. The values are stored verbatim in the
// persisted document, so they must never change.
type Kind string

const (
	KindFreeform   Kind = "Freeform"
	KindCornell    Kind = "Cornell"
	KindMainIdea   Kind = "MainIdea"
	KindFrayer     Kind = "Frayer"
	KindPolya      Kind = "Polya"
	KindConceptMap Kind = "ConceptMap"
	KindFiveW1H    Kind = "5W1H"
)

// Template describes a note layout: a display name and the ordered, fixed
// set of section keys a note of this kind carries.
type Template struct {
	Kind     Kind
	Name     string
	Sections []string
}

// templates is the built-in catalog. Order matters: it is the order shown in
// pickers and exports.
var templates = []Template{
	{
		Kind:     KindFreeform,
		Name:     "Freeform Note",
		Sections: []string{"Text"},
	},
	{
		Kind: KindCornell,
		Name: "Cornell Notes",
		Sections: []string{
			"Keywords/Cues (Left Column)",
			"Notes (Right Column)",
			"Summary (Bottom)",
		},
	},
	{
		Kind: KindMainIdea,
		Name: "Main Idea & Details",
		Sections: []string{
			"Main Topic",
			"Core Idea/Thesis",
			"Supporting Detail 1",
			"Supporting Detail 2",
			"Supporting Detail 3",
		},
	},
	{
		Kind: KindFrayer,
		Name: "Frayer Model",
		Sections: []string{
			"Concept/Term",
			"Definition",
			"Characteristics",
			"Examples",
			"Non-Examples",
		},
	},
	{
		Kind: KindPolya,
		Name: "Polya's 4 Steps",
		Sections: []string{
			"Step 1: Understand the Problem",
			"Step 2: Devise a Plan",
			"Step 3: Carry out the Plan",
			"Step 4: Look Back/Review",
		},
	},
	{
		Kind: KindConceptMap,
		Name: "Concept Map",
		Sections: []string{
			"Central Concept",
			"Related Concept 1",
			"Related Concept 2",
			"Connection/Relationship",
		},
	},
	{
		Kind: KindFiveW1H,
		Name: "5W1H Analysis",
		Sections: []string{
			"What is the problem?",
			"Why is it important?",
			"When did it happen?",
			"Where is it applied?",
			"Who is involved?",
			"How does it work?",
		},
	},
}

// Kinds returns all template kinds in catalog order.
func Kinds() []Kind {
	kinds := make([]Kind, len(templates))
	for i, t := range templates {
		kinds[i] = t.Kind
	}
	return kinds
}

// Templates returns a copy of the catalog.
func Templates() []Template {
	out := make([]Template, len(templates))
	for i, t := range templates {
		out[i] = Template{Kind: t.Kind, Name: t.Name, Sections: append([]string(nil), t.Sections...)}
	}
	return out
}

// TemplateFor looks up the template for a kind.
func TemplateFor(kind Kind) (Template, bool) {
	for _, t := range templates {
		if t.Kind == kind {
			return Template{Kind: t.Kind, Name: t.Name, Sections: append([]string(nil), t.Sections...)}, true
		}
	}
	return Template{}, false
}

// Sections returns the ordered section keys for a kind, or nil if the kind
// is unknown.
func Sections(kind Kind) []string {
	t, ok := TemplateFor(kind)
	if !ok {
		return nil
	}
	return t.Sections
}

// DisplayName returns the human-readable name of a kind. Unknown kinds fall
// back to their raw value.
func DisplayName(kind Kind) string {
	if t, ok := TemplateFor(kind); ok {
		return t.Name
	}
	return string(kind)
}

// ParseKind resolves user input to a Kind. Matching is case-insensitive and
// ignores spaces, dashes and underscores, so "main-idea", "Main Idea" and
// "mainidea" all resolve to KindMainIdea. Display names are accepted too.
func ParseKind(s string) (Kind, error) {
	needle := normalizeKind(s)
	if needle == "" {
		return "", fmt.Errorf("%w: empty kind", ErrUnknownKind)
	}
	for _, t := range templates {
		if normalizeKind(string(t.Kind)) == needle || normalizeKind(t.Name) == needle {
			return t.Kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func normalizeKind(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
	return s
}

// Instantiate returns a fresh, unsaved note of the given kind with every
// section key present and empty. The service assigns ID and timestamps when
// the note is added to a course.
func Instantiate(kind Kind) (Note, error) {
	t, ok := TemplateFor(kind)
	if !ok {
		return Note{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	content := make(map[string]string, len(t.Sections))
	for _, key := range t.Sections {
		content[key] = ""
	}
	return Note{Kind: t.Kind, Content: content}, nil
}
