package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/coursemate/coursemate/pkg/core"
)

// MockStore implements core.Store in memory, persisting through a JSON
// round trip like the real adapters. It deliberately does NOT implement
// core.Watcher to test the capability fallback.
type MockStore struct {
	data    []byte // nil means no document yet
	scratch string
	saves   int
	loadErr error
	saveErr error
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Load(ctx context.Context) (*core.Model, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.data == nil {
		return core.NewModel(), nil
	}
	var courses []core.Course
	if err := json.Unmarshal(m.data, &courses); err != nil {
		return nil, &core.ParseError{Path: "mock", Err: err}
	}
	model := &core.Model{Courses: courses}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

func (m *MockStore) Save(ctx context.Context, model *core.Model) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := json.Marshal(model.Courses)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

func (m *MockStore) Scratchpad(ctx context.Context) (string, error) {
	return m.scratch, nil
}

func (m *MockStore) SaveScratchpad(ctx context.Context, text string) error {
	m.scratch = text
	return nil
}

func setupService(t *testing.T) (*core.Service, *MockStore) {
	t.Helper()
	store := NewMockStore()
	svc, err := core.NewService(context.Background(), store, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, store
}

func TestService_Courses(t *testing.T) {
	ctx := context.Background()

	t.Run("Adds And Lists", func(t *testing.T) {
		svc, _ := setupService(t)

		course, err := svc.AddCourse(ctx, core.NewCourse{Name: "Linear Algebra", Code: "MATH201"})
		if err != nil {
			t.Fatalf("AddCourse failed: %v", err)
		}
		if course.ID == "" {
			t.Error("expected a generated ID")
		}
		if course.CreatedAt.IsZero() {
			t.Error("expected a creation timestamp")
		}

		courses := svc.Courses()
		if len(courses) != 1 {
			t.Fatalf("expected 1 course, got %d", len(courses))
		}
		if courses[0].Name != "Linear Algebra" || courses[0].Code != "MATH201" {
			t.Errorf("unexpected course: %+v", courses[0])
		}
	})

	t.Run("Rejects Duplicate Name", func(t *testing.T) {
		svc, _ := setupService(t)

		if _, err := svc.AddCourse(ctx, core.NewCourse{Name: "Biology"}); err != nil {
			t.Fatalf("AddCourse failed: %v", err)
		}
		_, err := svc.AddCourse(ctx, core.NewCourse{Name: "biology"})
		if !errors.Is(err, core.ErrCourseExists) {
			t.Fatalf("expected ErrCourseExists, got %v", err)
		}
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatal("expected a *ValidationError")
		}
	})

	t.Run("Rejects Blank Name", func(t *testing.T) {
		svc, _ := setupService(t)

		_, err := svc.AddCourse(ctx, core.NewCourse{Name: "   "})
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected a *ValidationError, got %v", err)
		}
		if len(vErr.Fields) == 0 || vErr.Fields[0].Field != "name" {
			t.Errorf("expected a field error on name, got %+v", vErr.Fields)
		}
	})

	t.Run("Finds By Name Case-Insensitive", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Organic Chemistry"})

		course, err := svc.FindCourse("organic chemistry")
		if err != nil {
			t.Fatalf("FindCourse failed: %v", err)
		}
		if course.Name != "Organic Chemistry" {
			t.Errorf("unexpected course: %q", course.Name)
		}
	})

	t.Run("Prefers ID Over Name", func(t *testing.T) {
		svc, _ := setupService(t)
		first, _ := svc.AddCourse(ctx, core.NewCourse{Name: "History"})
		svc.AddCourse(ctx, core.NewCourse{Name: first.ID}) // pathological but legal

		got, err := svc.FindCourse(first.ID)
		if err != nil {
			t.Fatalf("FindCourse failed: %v", err)
		}
		if got.ID != first.ID {
			t.Error("expected the ID match to win")
		}
	})

	t.Run("Update Renames With Uniqueness", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Physics I"})
		second, _ := svc.AddCourse(ctx, core.NewCourse{Name: "Physics II"})

		if _, err := svc.UpdateCourse(ctx, second.ID, core.UpdateCourse{Name: "physics i"}); !errors.Is(err, core.ErrCourseExists) {
			t.Fatalf("expected ErrCourseExists, got %v", err)
		}

		updated, err := svc.UpdateCourse(ctx, second.ID, core.UpdateCourse{Name: "Modern Physics", Instructor: "Dr. Chen"})
		if err != nil {
			t.Fatalf("UpdateCourse failed: %v", err)
		}
		if updated.Name != "Modern Physics" || updated.Instructor != "Dr. Chen" {
			t.Errorf("unexpected course after update: %+v", updated)
		}
	})

	t.Run("Remove Deletes Children", func(t *testing.T) {
		svc, store := setupService(t)
		course, _ := svc.AddCourse(ctx, core.NewCourse{Name: "Astronomy"})
		svc.AddTask(ctx, course.ID, core.NewTask{Description: "read chapter 1"})
		svc.AddNote(ctx, course.ID, core.NewNote{
			Title:   "Stars",
			Kind:    "Freeform",
			Content: map[string]string{"Text": "fusion"},
		})

		if err := svc.RemoveCourse(ctx, "Astronomy"); err != nil {
			t.Fatalf("RemoveCourse failed: %v", err)
		}
		if len(svc.Courses()) != 0 {
			t.Fatal("expected no courses left")
		}
		// Nothing of the course may survive in the persisted document.
		if string(store.data) != "[]" {
			t.Errorf("expected empty persisted document, got %s", store.data)
		}
	})

	t.Run("Remove Missing Course", func(t *testing.T) {
		svc, _ := setupService(t)
		if err := svc.RemoveCourse(ctx, "nope"); !errors.Is(err, core.ErrCourseNotFound) {
			t.Fatalf("expected ErrCourseNotFound, got %v", err)
		}
	})
}

func TestService_Tasks(t *testing.T) {
	ctx := context.Background()

	t.Run("Add Defaults To Medium Priority", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Calculus"})

		task, err := svc.AddTask(ctx, "Calculus", core.NewTask{Description: "problem set 3"})
		if err != nil {
			t.Fatalf("AddTask failed: %v", err)
		}
		if task.Priority != core.PriorityMedium {
			t.Errorf("expected medium priority, got %q", task.Priority)
		}
		if task.Done {
			t.Error("new tasks start pending")
		}
	})

	t.Run("Toggle Twice Restores State", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Calculus"})
		task, _ := svc.AddTask(ctx, "Calculus", core.NewTask{Description: "review limits"})

		done, err := svc.ToggleTask(ctx, "Calculus", task.ID)
		if err != nil {
			t.Fatalf("ToggleTask failed: %v", err)
		}
		if !done.Done || done.CompletedAt == nil {
			t.Error("expected the task to be done with a completion timestamp")
		}

		restored, err := svc.ToggleTask(ctx, "Calculus", task.ID)
		if err != nil {
			t.Fatalf("second ToggleTask failed: %v", err)
		}
		if restored.Done || restored.CompletedAt != nil {
			t.Error("expected the task restored to pending without a completion timestamp")
		}
	})

	t.Run("Resolves By Position", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Calculus"})
		svc.AddTask(ctx, "Calculus", core.NewTask{Description: "first"})
		second, _ := svc.AddTask(ctx, "Calculus", core.NewTask{Description: "second"})

		task, err := svc.ToggleTask(ctx, "Calculus", "2")
		if err != nil {
			t.Fatalf("ToggleTask by position failed: %v", err)
		}
		if task.ID != second.ID {
			t.Error("position 2 should resolve to the second task")
		}
	})

	t.Run("Filters Pending And Priority", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Calculus"})
		svc.AddTask(ctx, "Calculus", core.NewTask{Description: "urgent", Priority: "high"})
		done, _ := svc.AddTask(ctx, "Calculus", core.NewTask{Description: "done already"})
		svc.ToggleTask(ctx, "Calculus", done.ID)

		pending := false
		tasks, err := svc.Tasks("Calculus", core.TaskFilter{Done: &pending})
		if err != nil {
			t.Fatalf("Tasks failed: %v", err)
		}
		if len(tasks) != 1 || tasks[0].Description != "urgent" {
			t.Errorf("unexpected pending tasks: %+v", tasks)
		}

		tasks, _ = svc.Tasks("Calculus", core.TaskFilter{Priority: core.PriorityHigh})
		if len(tasks) != 1 {
			t.Errorf("expected 1 high priority task, got %d", len(tasks))
		}
	})

	t.Run("Rejects Invalid Priority", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Calculus"})

		_, err := svc.AddTask(ctx, "Calculus", core.NewTask{Description: "x", Priority: "urgent"})
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected a *ValidationError, got %v", err)
		}
	})

	t.Run("Missing Task And Course", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Calculus"})

		if _, err := svc.ToggleTask(ctx, "Calculus", "99"); !errors.Is(err, core.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
		if _, err := svc.AddTask(ctx, "Sociology", core.NewTask{Description: "x"}); !errors.Is(err, core.ErrCourseNotFound) {
			t.Errorf("expected ErrCourseNotFound, got %v", err)
		}
	})
}

func TestService_Notes(t *testing.T) {
	ctx := context.Background()

	t.Run("Instantiates All Template Sections", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Data Structures"})

		note, err := svc.AddNote(ctx, "Data Structures", core.NewNote{
			Title:   "B-Trees",
			Kind:    "cornell",
			Content: map[string]string{"Summary (Bottom)": "balanced m-way trees"},
		})
		if err != nil {
			t.Fatalf("AddNote failed: %v", err)
		}
		if note.Kind != core.KindCornell {
			t.Errorf("expected canonical kind Cornell, got %q", note.Kind)
		}
		if len(note.Content) != 3 {
			t.Fatalf("expected all 3 cornell sections, got %d", len(note.Content))
		}
		if note.Content["Keywords/Cues (Left Column)"] != "" {
			t.Error("untouched sections should be empty placeholders")
		}
		if note.Content["Summary (Bottom)"] != "balanced m-way trees" {
			t.Error("provided section text should be kept")
		}
	})

	t.Run("Rejects Unknown Kind", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Data Structures"})

		_, err := svc.AddNote(ctx, "Data Structures", core.NewNote{
			Title:   "x",
			Kind:    "Outline",
			Content: map[string]string{"Text": "y"},
		})
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected a *ValidationError, got %v", err)
		}
	})

	t.Run("Rejects Unknown Section Key", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Data Structures"})

		_, err := svc.AddNote(ctx, "Data Structures", core.NewNote{
			Title:   "x",
			Kind:    "Frayer",
			Content: map[string]string{"Synonyms": "nope"},
		})
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected a *ValidationError, got %v", err)
		}
	})

	t.Run("Rejects Empty Note", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Data Structures"})

		_, err := svc.AddNote(ctx, "Data Structures", core.NewNote{
			Title:   "blank",
			Kind:    "Polya",
			Content: map[string]string{"Step 1: Understand the Problem": "   "},
		})
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected a *ValidationError, got %v", err)
		}
	})

	t.Run("Update Patches Sections", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Data Structures"})
		note, _ := svc.AddNote(ctx, "Data Structures", core.NewNote{
			Title:   "Hashing",
			Kind:    "MainIdea",
			Content: map[string]string{"Main Topic": "hash tables"},
		})

		updated, err := svc.UpdateNote(ctx, "Data Structures", note.ID, core.UpdateNote{
			Title:   "Hashing and Collisions",
			Content: map[string]string{"Supporting Detail 1": "chaining"},
		})
		if err != nil {
			t.Fatalf("UpdateNote failed: %v", err)
		}
		if updated.Title != "Hashing and Collisions" {
			t.Errorf("unexpected title: %q", updated.Title)
		}
		if updated.Content["Main Topic"] != "hash tables" {
			t.Error("unpatched sections must survive")
		}
		if updated.Content["Supporting Detail 1"] != "chaining" {
			t.Error("patched section missing")
		}
		if updated.UpdatedAt.Before(updated.CreatedAt) {
			t.Error("expected UpdatedAt at or after CreatedAt")
		}
	})

	t.Run("Remove And Find By Position", func(t *testing.T) {
		svc, _ := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Data Structures"})
		svc.AddNote(ctx, "Data Structures", core.NewNote{
			Title: "first", Kind: "Freeform", Content: map[string]string{"Text": "a"},
		})

		note, err := svc.FindNote("Data Structures", "1")
		if err != nil {
			t.Fatalf("FindNote by position failed: %v", err)
		}
		if note.Title != "first" {
			t.Errorf("unexpected note: %q", note.Title)
		}

		if err := svc.RemoveNote(ctx, "Data Structures", note.ID); err != nil {
			t.Fatalf("RemoveNote failed: %v", err)
		}
		if _, err := svc.FindNote("Data Structures", note.ID); !errors.Is(err, core.ErrNoteNotFound) {
			t.Errorf("expected ErrNoteNotFound, got %v", err)
		}
	})
}

func TestService_StudyLog(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	svc.AddCourse(ctx, core.NewCourse{Name: "French"})

	t.Run("Logs With Default Mode", func(t *testing.T) {
		session, err := svc.LogStudy(ctx, "French", core.NewStudySession{Minutes: 25})
		if err != nil {
			t.Fatalf("LogStudy failed: %v", err)
		}
		if session.Mode != core.ModeFocus {
			t.Errorf("expected focus mode, got %q", session.Mode)
		}

		course, _ := svc.FindCourse("French")
		if course.StudyMinutes() != 25 {
			t.Errorf("expected 25 study minutes, got %d", course.StudyMinutes())
		}
	})

	t.Run("Rejects Non-Positive Minutes", func(t *testing.T) {
		_, err := svc.LogStudy(ctx, "French", core.NewStudySession{Minutes: 0})
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected a *ValidationError, got %v", err)
		}
	})
}

func TestService_Persistence(t *testing.T) {
	ctx := context.Background()

	t.Run("Persists Every Mutation", func(t *testing.T) {
		svc, store := setupService(t)

		svc.AddCourse(ctx, core.NewCourse{Name: "One"})
		svc.AddTask(ctx, "One", core.NewTask{Description: "t"})
		svc.ToggleTask(ctx, "One", "1")
		svc.AddNote(ctx, "One", core.NewNote{Title: "n", Kind: "Freeform", Content: map[string]string{"Text": "x"}})
		svc.LogStudy(ctx, "One", core.NewStudySession{Minutes: 10})
		svc.RemoveCourse(ctx, "One")

		if store.saves != 6 {
			t.Errorf("expected 6 saves, got %d", store.saves)
		}
	})

	t.Run("Save Failure Keeps In-Memory Change", func(t *testing.T) {
		svc, store := setupService(t)
		store.saveErr = errors.New("disk full")

		_, err := svc.AddCourse(ctx, core.NewCourse{Name: "Doomed"})
		if err == nil {
			t.Fatal("expected the save error to surface")
		}
		if len(svc.Courses()) != 1 {
			t.Error("the in-memory change should stand; the next save flushes it")
		}
	})

	t.Run("Missing Data Loads Empty", func(t *testing.T) {
		svc, _ := setupService(t)
		if len(svc.Courses()) != 0 {
			t.Error("expected an empty model")
		}
	})

	t.Run("Reload Picks Up External Change", func(t *testing.T) {
		store := NewMockStore()
		writer, err := core.NewService(ctx, store, nil)
		if err != nil {
			t.Fatalf("NewService failed: %v", err)
		}
		reader, err := core.NewService(ctx, store, nil)
		if err != nil {
			t.Fatalf("NewService failed: %v", err)
		}

		writer.AddCourse(ctx, core.NewCourse{Name: "Shared"})
		if len(reader.Courses()) != 0 {
			t.Fatal("reader should not see the change before reload")
		}
		if err := reader.Reload(ctx); err != nil {
			t.Fatalf("Reload failed: %v", err)
		}
		if len(reader.Courses()) != 1 {
			t.Error("reader should see the change after reload")
		}
	})

	t.Run("Reload Keeps Model On Parse Error", func(t *testing.T) {
		svc, store := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Stable"})

		store.data = []byte("{ not json")
		err := svc.Reload(ctx)
		var pErr *core.ParseError
		if !errors.As(err, &pErr) {
			t.Fatalf("expected a *ParseError, got %v", err)
		}
		if len(svc.Courses()) != 1 || svc.Courses()[0].Name != "Stable" {
			t.Error("the previous in-memory model must stay untouched")
		}
	})

	t.Run("Reload Rejects Unknown Kind In Document", func(t *testing.T) {
		svc, store := setupService(t)
		svc.AddCourse(ctx, core.NewCourse{Name: "Stable"})

		store.data = []byte(`[{"id":"c1","name":"X","tasks":[],"notes":[{"id":"n1","title":"t","kind":"KWLH","content":{}}]}]`)
		err := svc.Reload(ctx)
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected a *ValidationError, got %v", err)
		}
		if svc.Courses()[0].Name != "Stable" {
			t.Error("the previous in-memory model must stay untouched")
		}
	})
}

func TestService_Scratchpad(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	text, err := svc.Scratchpad(ctx)
	if err != nil {
		t.Fatalf("Scratchpad failed: %v", err)
	}
	if text != "" {
		t.Error("expected an empty pad")
	}

	if err := svc.SetScratchpad(ctx, "remember the deadline"); err != nil {
		t.Fatalf("SetScratchpad failed: %v", err)
	}
	text, _ = svc.Scratchpad(ctx)
	if text != "remember the deadline" {
		t.Errorf("unexpected pad content: %q", text)
	}
}

func TestService_WatchUnsupported(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Watch(context.Background())
	if err == nil {
		t.Fatal("expected error for a store without watch support")
	}
	if err.Error() != "store does not support watching" {
		t.Errorf("unexpected error msg: %v", err)
	}
}
