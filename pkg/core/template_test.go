package core_test

import (
	"testing"

	"github.com/coursemate/coursemate/pkg/core"
)

func TestTemplateCatalog(t *testing.T) {
	t.Run("Has All Seven Kinds", func(t *testing.T) {
		kinds := core.Kinds()
		if len(kinds) != 7 {
			t.Fatalf("expected 7 kinds, got %d", len(kinds))
		}
		want := []core.Kind{
			core.KindFreeform,
			core.KindCornell,
			core.KindMainIdea,
			core.KindFrayer,
			core.KindPolya,
			core.KindConceptMap,
			core.KindFiveW1H,
		}
		for i, k := range want {
			if kinds[i] != k {
				t.Errorf("kind %d: expected %q, got %q", i, k, kinds[i])
			}
		}
	})

	t.Run("Section Counts Are Fixed", func(t *testing.T) {
		counts := map[core.Kind]int{
			core.KindFreeform:   1,
			core.KindCornell:    3,
			core.KindMainIdea:   5,
			core.KindFrayer:     5,
			core.KindPolya:      4,
			core.KindConceptMap: 4,
			core.KindFiveW1H:    6,
		}
		for kind, n := range counts {
			if got := len(core.Sections(kind)); got != n {
				t.Errorf("%s: expected %d sections, got %d", kind, n, got)
			}
		}
	})

	t.Run("Section Keys Are Stable", func(t *testing.T) {
		cornell := core.Sections(core.KindCornell)
		if cornell[0] != "Keywords/Cues (Left Column)" {
			t.Errorf("unexpected first cornell section: %q", cornell[0])
		}
		polya := core.Sections(core.KindPolya)
		if polya[3] != "Step 4: Look Back/Review" {
			t.Errorf("unexpected last polya section: %q", polya[3])
		}
		w := core.Sections(core.KindFiveW1H)
		if w[0] != "What is the problem?" || w[5] != "How does it work?" {
			t.Errorf("unexpected 5w1h sections: %v", w)
		}
		if core.Sections(core.KindFreeform)[0] != "Text" {
			t.Error("freeform should have a single Text section")
		}
	})

	t.Run("Unknown Kind Has No Sections", func(t *testing.T) {
		if core.Sections(core.Kind("Outline")) != nil {
			t.Error("expected nil sections for unknown kind")
		}
	})
}

func TestParseKind(t *testing.T) {
	cases := map[string]core.Kind{
		"Cornell":     core.KindCornell,
		"cornell":     core.KindCornell,
		"MainIdea":    core.KindMainIdea,
		"main-idea":   core.KindMainIdea,
		"Main Idea":   core.KindMainIdea,
		"frayer":      core.KindFrayer,
		"POLYA":       core.KindPolya,
		"concept_map": core.KindConceptMap,
		"ConceptMap":  core.KindConceptMap,
		"5w1h":        core.KindFiveW1H,
		"freeform":    core.KindFreeform,
		// Display names work as well.
		"Cornell Notes": core.KindCornell,
		"frayer model":  core.KindFrayer,
	}
	for in, want := range cases {
		got, err := core.ParseKind(in)
		if err != nil {
			t.Errorf("ParseKind(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseKind(%q): expected %q, got %q", in, want, got)
		}
	}

	t.Run("Rejects Unknown", func(t *testing.T) {
		if _, err := core.ParseKind("kwlh"); err == nil {
			t.Error("expected error for unknown kind")
		}
		if _, err := core.ParseKind(""); err == nil {
			t.Error("expected error for empty kind")
		}
	})
}

func TestInstantiate(t *testing.T) {
	t.Run("All Sections Present And Empty", func(t *testing.T) {
		note, err := core.Instantiate(core.KindFrayer)
		if err != nil {
			t.Fatalf("Instantiate failed: %v", err)
		}
		if note.Kind != core.KindFrayer {
			t.Errorf("expected kind %q, got %q", core.KindFrayer, note.Kind)
		}
		sections := core.Sections(core.KindFrayer)
		if len(note.Content) != len(sections) {
			t.Fatalf("expected %d sections, got %d", len(sections), len(note.Content))
		}
		for _, key := range sections {
			text, ok := note.Content[key]
			if !ok {
				t.Errorf("missing section %q", key)
			}
			if text != "" {
				t.Errorf("section %q should start empty, got %q", key, text)
			}
		}
	})

	t.Run("Fresh Map Per Call", func(t *testing.T) {
		a, _ := core.Instantiate(core.KindCornell)
		b, _ := core.Instantiate(core.KindCornell)
		a.Content["Summary (Bottom)"] = "changed"
		if b.Content["Summary (Bottom)"] != "" {
			t.Error("instances share content maps")
		}
	})

	t.Run("Unknown Kind Fails", func(t *testing.T) {
		if _, err := core.Instantiate(core.Kind("Outline")); err == nil {
			t.Error("expected error for unknown kind")
		}
	})
}

func TestDisplayName(t *testing.T) {
	if core.DisplayName(core.KindFiveW1H) != "5W1H Analysis" {
		t.Errorf("unexpected display name: %q", core.DisplayName(core.KindFiveW1H))
	}
	if core.DisplayName(core.Kind("Mystery")) != "Mystery" {
		t.Error("unknown kinds should fall back to the raw value")
	}
}
