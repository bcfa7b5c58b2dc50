package core_test

import (
	"context"
	"strings"
	"testing"

	"github.com/coursemate/coursemate/pkg/core"
)

func seedSearchFixture(t *testing.T) *core.Service {
	t.Helper()
	ctx := context.Background()
	svc, _ := setupService(t)

	svc.AddCourse(ctx, core.NewCourse{Name: "CS101"})
	svc.AddCourse(ctx, core.NewCourse{Name: "Biology"})

	svc.AddNote(ctx, "CS101", core.NewNote{
		Title: "Recursion Basics",
		Kind:  "Cornell",
		Content: map[string]string{
			"Notes (Right Column)": "recursion means a function calls itself until a base case stops it",
			"Summary (Bottom)":     "recursion trades loops for self reference",
		},
	})
	svc.AddNote(ctx, "CS101", core.NewNote{
		Title:   "Sorting",
		Kind:    "Freeform",
		Content: map[string]string{"Text": "quicksort uses recursion on partitions"},
	})
	svc.AddNote(ctx, "Biology", core.NewNote{
		Title:   "Mitosis",
		Kind:    "MainIdea",
		Content: map[string]string{"Main Topic": "cell division"},
	})
	return svc
}

func TestSearchNotes(t *testing.T) {
	t.Run("Matches Titles And Sections", func(t *testing.T) {
		svc := seedSearchFixture(t)

		hits, err := svc.SearchNotes("recursion", core.SearchOptions{})
		if err != nil {
			t.Fatalf("SearchNotes failed: %v", err)
		}
		// Title of the first note, two of its sections, and one section
		// of the second note.
		if len(hits) != 4 {
			t.Fatalf("expected 4 hits, got %d: %+v", len(hits), hits)
		}
		if hits[0].Section != "" {
			t.Error("a title match carries no section")
		}
		if hits[0].NoteTitle != "Recursion Basics" {
			t.Errorf("unexpected first hit: %+v", hits[0])
		}
	})

	t.Run("Case Insensitive", func(t *testing.T) {
		svc := seedSearchFixture(t)

		hits, err := svc.SearchNotes("RECURSION", core.SearchOptions{})
		if err != nil {
			t.Fatalf("SearchNotes failed: %v", err)
		}
		if len(hits) != 4 {
			t.Errorf("expected 4 hits, got %d", len(hits))
		}
	})

	t.Run("Course Pattern Narrows Scope", func(t *testing.T) {
		svc := seedSearchFixture(t)

		hits, err := svc.SearchNotes("cell", core.SearchOptions{CoursePattern: "CS*"})
		if err != nil {
			t.Fatalf("SearchNotes failed: %v", err)
		}
		if len(hits) != 0 {
			t.Errorf("pattern CS* must exclude Biology, got %+v", hits)
		}

		hits, err = svc.SearchNotes("cell", core.SearchOptions{CoursePattern: "bio*"})
		if err != nil {
			t.Fatalf("SearchNotes failed: %v", err)
		}
		if len(hits) != 1 || hits[0].CourseName != "Biology" {
			t.Errorf("expected the Biology hit, got %+v", hits)
		}
	})

	t.Run("Invalid Pattern Fails", func(t *testing.T) {
		svc := seedSearchFixture(t)

		if _, err := svc.SearchNotes("cell", core.SearchOptions{CoursePattern: "[unclosed"}); err == nil {
			t.Fatal("expected an error for an invalid glob")
		}
	})

	t.Run("Empty Query Returns Nothing", func(t *testing.T) {
		svc := seedSearchFixture(t)

		hits, err := svc.SearchNotes("   ", core.SearchOptions{})
		if err != nil {
			t.Fatalf("SearchNotes failed: %v", err)
		}
		if hits != nil {
			t.Errorf("expected no hits, got %+v", hits)
		}
	})

	t.Run("Snippet Windows Long Text", func(t *testing.T) {
		ctx := context.Background()
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Lit"})

		long := strings.Repeat("padding ", 20) + "needle" + strings.Repeat(" padding", 20)
		svc.AddNote(ctx, "Lit", core.NewNote{
			Title:   "Epics",
			Kind:    "Freeform",
			Content: map[string]string{"Text": long},
		})

		hits, err := svc.SearchNotes("needle", core.SearchOptions{})
		if err != nil {
			t.Fatalf("SearchNotes failed: %v", err)
		}
		if len(hits) != 1 {
			t.Fatalf("expected 1 hit, got %d", len(hits))
		}
		s := hits[0].Snippet
		if !strings.Contains(s, "needle") {
			t.Errorf("snippet must contain the match: %q", s)
		}
		if !strings.HasPrefix(s, "...") || !strings.HasSuffix(s, "...") {
			t.Errorf("expected ellipses around a mid-text match: %q", s)
		}
		if len(s) > 2*len("...")+2*30+len("needle")+2 {
			t.Errorf("snippet too long (%d bytes): %q", len(s), s)
		}
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc := seedSearchFixture(t)

	svc.AddTask(ctx, "CS101", core.NewTask{Description: "lab 2"})
	done, _ := svc.AddTask(ctx, "CS101", core.NewTask{Description: "lab 1"})
	svc.ToggleTask(ctx, "CS101", done.ID)
	svc.LogStudy(ctx, "Biology", core.NewStudySession{Minutes: 45})
	svc.LogStudy(ctx, "Biology", core.NewStudySession{Minutes: 15, Mode: "short-break"})

	st := svc.Stats()
	if st.Courses != 2 {
		t.Errorf("Courses = %d, want 2", st.Courses)
	}
	if st.Notes != 3 {
		t.Errorf("Notes = %d, want 3", st.Notes)
	}
	if st.NotesByKind[core.KindCornell] != 1 || st.NotesByKind[core.KindFreeform] != 1 || st.NotesByKind[core.KindMainIdea] != 1 {
		t.Errorf("unexpected kind counts: %+v", st.NotesByKind)
	}
	if st.TasksOpen != 1 || st.TasksDone != 1 {
		t.Errorf("tasks open/done = %d/%d, want 1/1", st.TasksOpen, st.TasksDone)
	}
	if st.StudySessions != 2 || st.StudyMinutes != 60 {
		t.Errorf("study sessions/minutes = %d/%d, want 2/60", st.StudySessions, st.StudyMinutes)
	}
}
