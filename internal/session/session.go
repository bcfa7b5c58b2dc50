// Package session implements the interactive prompt that runs when the CLI
// is started without a subcommand.
package session

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/coursemate/coursemate/pkg/core"
)

// Session drives the line-oriented interactive prompt. It is single
// threaded: watch events are drained between commands, never concurrently.
type Session struct {
	svc     *core.Service
	in      *bufio.Scanner
	out     io.Writer
	log     *slog.Logger
	version string

	current string // ID of the selected course, empty when none
	events  <-chan core.Event
}

// Config wires a Session. Input and Output default to stdin and stdout.
type Config struct {
	Service *core.Service
	Input   io.Reader
	Output  io.Writer
	Logger  *slog.Logger
	Version string
}

// New builds a Session from the config.
func New(cfg Config) *Session {
	in := cfg.Input
	if in == nil {
		in = os.Stdin
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	scanner := bufio.NewScanner(in)
	// Notes can be pasted in; the default line limit is too small.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &Session{
		svc:     cfg.Service,
		in:      scanner,
		out:     out,
		log:     log,
		version: strings.TrimSpace(cfg.Version),
	}
}

// Run reads commands until quit, EOF or context cancellation.
func (s *Session) Run(ctx context.Context) error {
	s.printWelcome()

	if events, err := s.svc.Watch(ctx); err == nil {
		s.events = events
	} else {
		s.log.Debug("file watching unavailable", "error", err)
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.drainEvents(ctx)

		fmt.Fprint(s.out, s.prompt())
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}

		quit, err := s.dispatch(ctx, line)
		if err != nil {
			s.printErr(err)
		}
		if quit {
			return nil
		}
	}
}

func (s *Session) prompt() string {
	if c, ok := s.currentCourse(); ok {
		return fmt.Sprintf("coursemate:%s> ", c.Name)
	}
	return "coursemate> "
}

// currentCourse resolves the selection fresh each time; the course may have
// been renamed or removed by an external edit since it was selected.
func (s *Session) currentCourse() (core.Course, bool) {
	if s.current == "" {
		return core.Course{}, false
	}
	c, err := s.svc.FindCourse(s.current)
	if err != nil {
		s.current = ""
		return core.Course{}, false
	}
	return c, true
}

// drainEvents consumes pending watch events without blocking and reloads
// the model when there are any. Our own saves echo back as events too, so
// the reload notice only prints when the model actually changed.
func (s *Session) drainEvents(ctx context.Context) {
	if s.events == nil {
		return
	}
	arrived := false
	for {
		select {
		case _, ok := <-s.events:
			if !ok {
				s.events = nil
				return
			}
			arrived = true
			continue
		default:
		}
		break
	}
	if !arrived {
		return
	}

	before := s.fingerprint()
	if err := s.svc.Reload(ctx); err != nil {
		fmt.Fprintf(s.out, "External change ignored (%v); keeping the current data.\n", err)
		return
	}
	if s.fingerprint() != before {
		fmt.Fprintln(s.out, "Data file changed on disk; reloaded.")
	}
}

func (s *Session) fingerprint() string {
	data, err := json.Marshal(s.svc.Courses())
	if err != nil {
		return ""
	}
	return string(data)
}

// dispatch runs one command line. The boolean result requests exit.
func (s *Session) dispatch(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	switch cmd {
	case "help", "?":
		s.printHelp()
	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Bye. Keep at it.")
		return true, nil
	case "dashboard", "dash":
		return false, s.cmdDashboard(ctx)
	case "courses", "ls":
		s.renderCourses()
	case "use":
		return false, s.cmdUse(rest)
	case "add-course":
		return false, s.cmdAddCourse(ctx, rest)
	case "rm-course":
		return false, s.cmdRemoveCourse(ctx, rest)
	case "tasks":
		return false, s.cmdTasks(args)
	case "add-task":
		return false, s.cmdAddTask(ctx, rest)
	case "toggle":
		return false, s.cmdToggleTask(ctx, rest)
	case "rm-task":
		return false, s.cmdRemoveTask(ctx, rest)
	case "notes":
		return false, s.cmdNotes()
	case "note":
		return false, s.cmdShowNote(rest)
	case "new-note":
		return false, s.cmdNewNote(ctx)
	case "rm-note":
		return false, s.cmdRemoveNote(ctx, rest)
	case "templates":
		s.renderTemplates()
	case "study":
		return false, s.cmdStudy(ctx, args)
	case "scratch":
		return false, s.cmdScratch(ctx, args)
	case "search":
		return false, s.cmdSearch(rest)
	case "stats":
		s.renderStats()
	case "export":
		return false, s.cmdExport(args)
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
	return false, nil
}

// --- Course commands ---

func (s *Session) cmdUse(ref string) error {
	if ref == "" {
		if c, ok := s.currentCourse(); ok {
			fmt.Fprintf(s.out, "Working in %s.\n", c.Name)
			return nil
		}
		return fmt.Errorf("usage: use <course name or id>")
	}
	c, err := s.svc.FindCourse(ref)
	if err != nil {
		return err
	}
	s.current = c.ID
	fmt.Fprintf(s.out, "Now working in %s.\n", c.Name)
	return nil
}

func (s *Session) cmdAddCourse(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("usage: add-course <name>")
	}
	code, ok := s.readLine("Course code (optional): ")
	if !ok {
		return nil
	}
	instructor, ok := s.readLine("Instructor (optional): ")
	if !ok {
		return nil
	}

	c, err := s.svc.AddCourse(ctx, core.NewCourse{
		Name:       name,
		Code:       strings.TrimSpace(code),
		Instructor: strings.TrimSpace(instructor),
	})
	if err != nil {
		return err
	}
	s.current = c.ID
	fmt.Fprintf(s.out, "Added course %s. It is now selected.\n", c.Name)
	return nil
}

func (s *Session) cmdRemoveCourse(ctx context.Context, ref string) error {
	if ref == "" {
		return fmt.Errorf("usage: rm-course <course name or id>")
	}
	c, err := s.svc.FindCourse(ref)
	if err != nil {
		return err
	}
	if !s.confirm(fmt.Sprintf("Delete %s with %d note(s) and %d task(s)? [y/N]: ", c.Name, len(c.Notes), len(c.Tasks))) {
		fmt.Fprintln(s.out, "Kept.")
		return nil
	}
	if err := s.svc.RemoveCourse(ctx, c.ID); err != nil {
		return err
	}
	if s.current == c.ID {
		s.current = ""
	}
	fmt.Fprintf(s.out, "Removed %s.\n", c.Name)
	return nil
}

// --- Task commands ---

func (s *Session) cmdTasks(args []string) error {
	c, ok := s.currentCourse()
	if !ok {
		return errNoCourse
	}

	filter := core.TaskFilter{}
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "all":
		case "pending", "open":
			pending := false
			filter.Done = &pending
		case "done":
			done := true
			filter.Done = &done
		default:
			return fmt.Errorf("usage: tasks [all|pending|done]")
		}
	}

	tasks, err := s.svc.Tasks(c.ID, filter)
	if err != nil {
		return err
	}
	s.renderTasks(c.Name, tasks)
	return nil
}

func (s *Session) cmdAddTask(ctx context.Context, text string) error {
	c, ok := s.currentCourse()
	if !ok {
		return errNoCourse
	}
	if text == "" {
		return fmt.Errorf("usage: add-task <description>")
	}
	prio, ok := s.readLine("Priority (high/medium/low) [medium]: ")
	if !ok {
		return nil
	}
	p, err := core.ParsePriority(prio)
	if err != nil {
		return err
	}

	_, err = s.svc.AddTask(ctx, c.ID, core.NewTask{Description: text, Priority: string(p)})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added task to %s.\n", c.Name)
	return nil
}

func (s *Session) cmdToggleTask(ctx context.Context, ref string) error {
	c, ok := s.currentCourse()
	if !ok {
		return errNoCourse
	}
	if ref == "" {
		return fmt.Errorf("usage: toggle <task number>")
	}
	t, err := s.svc.ToggleTask(ctx, c.ID, ref)
	if err != nil {
		return err
	}
	if t.Done {
		fmt.Fprintf(s.out, "Done: %s\n", t.Description)
	} else {
		fmt.Fprintf(s.out, "Back to pending: %s\n", t.Description)
	}
	return nil
}

func (s *Session) cmdRemoveTask(ctx context.Context, ref string) error {
	c, ok := s.currentCourse()
	if !ok {
		return errNoCourse
	}
	if ref == "" {
		return fmt.Errorf("usage: rm-task <task number>")
	}
	if err := s.svc.RemoveTask(ctx, c.ID, ref); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Removed task.")
	return nil
}

// --- Note commands ---

func (s *Session) cmdNotes() error {
	c, ok := s.currentCourse()
	if !ok {
		return errNoCourse
	}
	notes, err := s.svc.Notes(c.ID)
	if err != nil {
		return err
	}
	s.renderNoteList(c.Name, notes)
	return nil
}

func (s *Session) cmdShowNote(ref string) error {
	c, ok := s.currentCourse()
	if !ok {
		return errNoCourse
	}
	if ref == "" {
		return fmt.Errorf("usage: note <note number>")
	}
	n, err := s.svc.FindNote(c.ID, ref)
	if err != nil {
		return err
	}
	s.renderNote(n)
	return nil
}

func (s *Session) cmdNewNote(ctx context.Context) error {
	c, ok := s.currentCourse()
	if !ok {
		return errNoCourse
	}

	s.renderTemplatePicker()
	choice, ok := s.readLine("Template: ")
	if !ok {
		return nil
	}
	kind, err := pickKind(choice)
	if err != nil {
		return err
	}

	title, ok := s.readLine("Title: ")
	if !ok {
		return nil
	}

	content := make(map[string]string)
	if kind == core.KindFreeform {
		fmt.Fprintln(s.out, "Write your note. Finish with a single '.' on its own line.")
		text, ok := s.readMultiline()
		if !ok {
			return nil
		}
		content["Text"] = text
	} else {
		fmt.Fprintln(s.out, "Fill the sections. Leave one empty to skip it.")
		for _, key := range core.Sections(kind) {
			value, ok := s.readLine(key + ": ")
			if !ok {
				return nil
			}
			content[key] = value
		}
	}

	n, err := s.svc.AddNote(ctx, c.ID, core.NewNote{
		Title:   strings.TrimSpace(title),
		Kind:    string(kind),
		Content: content,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Saved %s note %q.\n", core.DisplayName(n.Kind), n.Title)
	return nil
}

func (s *Session) cmdRemoveNote(ctx context.Context, ref string) error {
	c, ok := s.currentCourse()
	if !ok {
		return errNoCourse
	}
	if ref == "" {
		return fmt.Errorf("usage: rm-note <note number>")
	}
	n, err := s.svc.FindNote(c.ID, ref)
	if err != nil {
		return err
	}
	if !s.confirm(fmt.Sprintf("Delete note %q? [y/N]: ", n.Title)) {
		fmt.Fprintln(s.out, "Kept.")
		return nil
	}
	if err := s.svc.RemoveNote(ctx, c.ID, n.ID); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Removed note %q.\n", n.Title)
	return nil
}

// pickKind accepts a 1-based catalog position or a kind name.
func pickKind(choice string) (core.Kind, error) {
	choice = strings.TrimSpace(choice)
	kinds := core.Kinds()
	if i, err := strconv.Atoi(choice); err == nil {
		if i < 1 || i > len(kinds) {
			return "", fmt.Errorf("template number out of range (1-%d)", len(kinds))
		}
		return kinds[i-1], nil
	}
	return core.ParseKind(choice)
}

// --- Study, scratchpad, search, export ---

func (s *Session) cmdStudy(ctx context.Context, args []string) error {
	c, ok := s.currentCourse()
	if !ok {
		return errNoCourse
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: study <minutes> [focus|short-break|long-break]")
	}
	minutes, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("minutes must be a number, got %q", args[0])
	}
	mode := ""
	if len(args) > 1 {
		mode = args[1]
	}
	m, err := core.ParseStudyMode(mode)
	if err != nil {
		return err
	}

	if _, err := s.svc.LogStudy(ctx, c.ID, core.NewStudySession{Minutes: minutes, Mode: string(m)}); err != nil {
		return err
	}
	c, _ = s.currentCourse()
	fmt.Fprintf(s.out, "Logged %d min for %s (%d min total).\n", minutes, c.Name, c.StudyMinutes())
	return nil
}

func (s *Session) cmdScratch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		text, err := s.svc.Scratchpad(ctx)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			fmt.Fprintln(s.out, "Scratchpad is empty. 'scratch edit' writes it.")
			return nil
		}
		fmt.Fprintln(s.out, text)
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "edit":
		fmt.Fprintln(s.out, "Write your scratchpad. Finish with a single '.' on its own line.")
		text, ok := s.readMultiline()
		if !ok {
			return nil
		}
		if err := s.svc.SetScratchpad(ctx, text); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Scratchpad saved.")
	case "clear":
		if err := s.svc.SetScratchpad(ctx, ""); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Scratchpad cleared.")
	default:
		return fmt.Errorf("usage: scratch [edit|clear]")
	}
	return nil
}

func (s *Session) cmdSearch(query string) error {
	if query == "" {
		return fmt.Errorf("usage: search [course:<pattern>] <text>")
	}

	opts := core.SearchOptions{}
	var terms []string
	for _, f := range strings.Fields(query) {
		if p, found := strings.CutPrefix(f, "course:"); found {
			opts.CoursePattern = p
			continue
		}
		terms = append(terms, f)
	}

	hits, err := s.svc.SearchNotes(strings.Join(terms, " "), opts)
	if err != nil {
		return err
	}
	s.renderHits(strings.Join(terms, " "), hits)
	return nil
}

func (s *Session) cmdExport(args []string) error {
	c, ok := s.currentCourse()
	if !ok {
		return errNoCourse
	}

	format := core.FormatText
	if len(args) > 0 {
		var err error
		format, err = core.ParseExportFormat(args[0])
		if err != nil {
			return err
		}
	}

	if len(args) > 1 {
		f, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		if err := s.svc.ExportCourse(f, c.ID, format); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Exported %s to %s.\n", c.Name, args[1])
		return nil
	}

	return s.svc.ExportCourse(s.out, c.ID, format)
}

func (s *Session) cmdDashboard(ctx context.Context) error {
	scratch, err := s.svc.Scratchpad(ctx)
	if err != nil {
		scratch = ""
	}
	s.renderDashboard(scratch)
	return nil
}

// --- Input helpers ---

var errNoCourse = fmt.Errorf("no course selected (use <course>, or add-course <name>)")

// readLine prompts and reads one line. ok is false on EOF.
func (s *Session) readLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	return s.in.Text(), true
}

// readMultiline reads lines until a single "." line. ok is false on EOF.
func (s *Session) readMultiline() (string, bool) {
	var lines []string
	for {
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return "", false
		}
		line := s.in.Text()
		if strings.TrimSpace(line) == "." {
			return strings.Join(lines, "\n"), true
		}
		lines = append(lines, line)
	}
}

func (s *Session) confirm(prompt string) bool {
	answer, ok := s.readLine(prompt)
	if !ok {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
