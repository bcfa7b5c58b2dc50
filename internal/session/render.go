package session

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/coursemate/coursemate/pkg/core"
)

// quotes rotate on the dashboard.
var quotes = []string{
	"The mind is not a vessel to be filled, but a fire to be kindled. - Plutarch",
	"Patience, persistence and perspiration make an unbeatable combination for success. - Napoleon Hill",
	"It's not that I'm so smart, it's just that I stay with problems longer. - Albert Einstein",
	"The best way to predict the future is to create it. - Peter Drucker",
	"The difference between ordinary and extraordinary is that little extra. - Jimmy Johnson",
	"Our greatest weakness lies in giving up. The most certain way to succeed is always to try just one more time. - Thomas Edison",
	"Discipline is the bridge between goals and accomplishment. - Jim Rohn",
	"The beautiful thing about learning is that no one can take it away from you. - B.B. King",
	"Education is the passport to the future, for tomorrow belongs to those who prepare for it today. - Malcolm X",
	"Learning is not attained by chance, it must be sought for with ardor and diligence. - Abigail Adams",
}

func pickQuote() string {
	return quotes[rand.Intn(len(quotes))]
}

func (s *Session) printWelcome() {
	if s.version != "" {
		fmt.Fprintf(s.out, "CourseMate %s\n", s.version)
	} else {
		fmt.Fprintln(s.out, "CourseMate")
	}
	fmt.Fprintln(s.out, "Type 'help' for commands. Everything saves automatically.")
}

func (s *Session) printHelp() {
	help := []struct{ cmd, desc string }{
		{"dashboard", "overview: stats, open tasks, scratchpad"},
		{"courses", "list all courses"},
		{"use <course>", "select the course to work in"},
		{"add-course <name>", "create a course (asks for code, instructor)"},
		{"rm-course <course>", "delete a course and everything in it"},
		{"tasks [all|pending|done]", "list tasks of the selected course"},
		{"add-task <text>", "add a task (asks for priority)"},
		{"toggle <n>", "flip a task between pending and done"},
		{"rm-task <n>", "delete a task"},
		{"notes", "list notes of the selected course"},
		{"note <n>", "show one note in full"},
		{"new-note", "write a note from a template"},
		{"rm-note <n>", "delete a note"},
		{"templates", "show the note templates and their sections"},
		{"study <min> [mode]", "log study time (focus, short-break, long-break)"},
		{"scratch [edit|clear]", "show or rewrite the scratchpad"},
		{"search [course:<glob>] <text>", "find text across all notes"},
		{"stats", "full statistics"},
		{"export [text|json|yaml] [file]", "export the selected course's notes"},
		{"quit", "leave"},
	}
	fmt.Fprintln(s.out, "Commands:")
	for _, h := range help {
		fmt.Fprintf(s.out, "  %-31s %s\n", h.cmd, h.desc)
	}
	fmt.Fprintln(s.out, "Tasks and notes are addressed by their list number or ID.")
}

func (s *Session) printErr(err error) {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
		fmt.Fprintln(s.out, "Invalid input:")
		for _, f := range vErr.Fields {
			fmt.Fprintf(s.out, "  - %s: %s\n", f.Field, f.Error)
		}
		return
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

func (s *Session) renderCourses() {
	courses := s.svc.Courses()
	if len(courses) == 0 {
		fmt.Fprintln(s.out, "No courses yet. 'add-course <name>' starts one.")
		return
	}
	fmt.Fprintln(s.out, "Courses:")
	for i, c := range courses {
		name := c.Name
		if c.Code != "" {
			name += " [" + c.Code + "]"
		}
		fmt.Fprintf(s.out, "  %d. %s - %d note(s), %d open task(s), %d min studied\n",
			i+1, name, len(c.Notes), c.PendingTasks(), c.StudyMinutes())
	}
}

func (s *Session) renderTasks(courseName string, tasks []core.Task) {
	if len(tasks) == 0 {
		fmt.Fprintf(s.out, "No tasks in %s.\n", courseName)
		return
	}
	fmt.Fprintf(s.out, "Tasks in %s:\n", courseName)
	for i, t := range tasks {
		box := "[ ]"
		suffix := ""
		if t.Done {
			box = "[x]"
			if t.CompletedAt != nil {
				suffix = " - done " + t.CompletedAt.Format(core.DisplayTime)
			}
		}
		fmt.Fprintf(s.out, "  %d. %s (%s) %s%s\n", i+1, box, t.Priority, t.Description, suffix)
	}
}

func (s *Session) renderNoteList(courseName string, notes []core.Note) {
	if len(notes) == 0 {
		fmt.Fprintf(s.out, "No notes in %s. 'new-note' writes one.\n", courseName)
		return
	}
	fmt.Fprintf(s.out, "Notes in %s:\n", courseName)
	for i, n := range notes {
		fmt.Fprintf(s.out, "  %d. %s - %s (%s)\n",
			i+1, core.DisplayName(n.Kind), n.Title, n.UpdatedAt.Format(core.DisplayTime))
	}
}

func (s *Session) renderNote(n core.Note) {
	fmt.Fprintf(s.out, "%s - %s\n", core.DisplayName(n.Kind), n.Title)
	fmt.Fprintf(s.out, "Created %s, updated %s\n",
		n.CreatedAt.Format(core.DisplayTime), n.UpdatedAt.Format(core.DisplayTime))
	for _, key := range core.Sections(n.Kind) {
		text := n.Content[key]
		if strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(s.out, "\n%s:\n%s\n", key, text)
	}
}

func (s *Session) renderTemplates() {
	fmt.Fprintln(s.out, "Note templates:")
	for _, tpl := range core.Templates() {
		fmt.Fprintf(s.out, "\n%s (%s)\n", tpl.Name, tpl.Kind)
		for _, key := range tpl.Sections {
			fmt.Fprintf(s.out, "  - %s\n", key)
		}
	}
}

func (s *Session) renderTemplatePicker() {
	fmt.Fprintln(s.out, "Templates:")
	for i, tpl := range core.Templates() {
		fmt.Fprintf(s.out, "  %d. %s\n", i+1, tpl.Name)
	}
}

func (s *Session) renderHits(query string, hits []core.SearchHit) {
	if len(hits) == 0 {
		fmt.Fprintf(s.out, "Nothing found for %q.\n", query)
		return
	}
	fmt.Fprintf(s.out, "%d match(es) for %q:\n", len(hits), query)
	for _, h := range hits {
		where := "title"
		if h.Section != "" {
			where = h.Section
		}
		fmt.Fprintf(s.out, "  [%s] %s - %s: %s\n", h.CourseName, h.NoteTitle, where, h.Snippet)
	}
}

func (s *Session) renderStats() {
	st := s.svc.Stats()
	fmt.Fprintln(s.out, "Statistics:")
	fmt.Fprintf(s.out, "  Courses:        %d\n", st.Courses)
	fmt.Fprintf(s.out, "  Notes:          %d\n", st.Notes)
	fmt.Fprintf(s.out, "  Open tasks:     %d\n", st.TasksOpen)
	fmt.Fprintf(s.out, "  Done tasks:     %d\n", st.TasksDone)
	fmt.Fprintf(s.out, "  Study sessions: %d\n", st.StudySessions)
	fmt.Fprintf(s.out, "  Study time:     %d min\n", st.StudyMinutes)
	if st.Notes > 0 {
		fmt.Fprintln(s.out, "  Notes by template:")
		for _, kind := range core.Kinds() {
			if count := st.NotesByKind[kind]; count > 0 {
				fmt.Fprintf(s.out, "    %-20s %d\n", core.DisplayName(kind), count)
			}
		}
	}
}

func (s *Session) renderDashboard(scratch string) {
	st := s.svc.Stats()
	fmt.Fprintf(s.out, "Courses: %d | Notes: %d | Open tasks: %d | Study: %d min\n",
		st.Courses, st.Notes, st.TasksOpen, st.StudyMinutes)

	// Up to five pending tasks across all courses, roughly what fits on
	// one screen.
	type pendingTask struct {
		course string
		task   core.Task
	}
	var pending []pendingTask
	for _, c := range s.svc.Courses() {
		for _, t := range c.Tasks {
			if !t.Done {
				pending = append(pending, pendingTask{course: c.Name, task: t})
			}
		}
	}
	if len(pending) > 0 {
		fmt.Fprintln(s.out, "\nNext up:")
		for i, p := range pending {
			if i == 5 {
				fmt.Fprintln(s.out, "  ...")
				break
			}
			fmt.Fprintf(s.out, "  [ ] (%s) %s - %s\n", p.task.Priority, p.task.Description, p.course)
		}
	}

	if strings.TrimSpace(scratch) != "" {
		fmt.Fprintln(s.out, "\nScratchpad:")
		lines := strings.Split(strings.TrimRight(scratch, "\n"), "\n")
		for i, line := range lines {
			if i == 3 {
				fmt.Fprintln(s.out, "  ...")
				break
			}
			fmt.Fprintf(s.out, "  %s\n", line)
		}
	}

	fmt.Fprintf(s.out, "\n%s\n", pickQuote())
}
