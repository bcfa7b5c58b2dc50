package core

import "time"

// Course is the top-level container of the domain. Tasks, notes and study
// sessions belong to exactly one course and never outlive it.
type Course struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Code       string         `json:"code,omitempty"`
	Instructor string         `json:"instructor,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Tasks      []Task         `json:"tasks"`
	Notes      []Note         `json:"notes"`
	StudyLog   []StudySession `json:"study_log,omitempty"`
}

// PendingTasks counts tasks not yet done.
func (c Course) PendingTasks() int {
	n := 0
	for _, t := range c.Tasks {
		if !t.Done {
			n++
		}
	}
	return n
}

// CompletedTasks counts done tasks.
func (c Course) CompletedTasks() int {
	return len(c.Tasks) - c.PendingTasks()
}

// StudyMinutes sums the minutes of all logged study sessions.
func (c Course) StudyMinutes() int {
	total := 0
	for _, s := range c.StudyLog {
		total += s.Minutes
	}
	return total
}

func (c Course) clone() Course {
	out := c
	out.Tasks = append([]Task(nil), c.Tasks...)
	out.Notes = make([]Note, len(c.Notes))
	for i, n := range c.Notes {
		out.Notes[i] = n.clone()
	}
	out.StudyLog = append([]StudySession(nil), c.StudyLog...)
	return out
}

// NewCourse carries the input for creating a course.
type NewCourse struct {
	Name       string `json:"name" validate:"required,notblank,max=120"`
	Code       string `json:"code" validate:"omitempty,max=20"`
	Instructor string `json:"instructor" validate:"omitempty,max=120"`
}

func (nc NewCourse) Validate() error {
	return runValidation(nc)
}

// UpdateCourse carries the input for updating a course. Empty fields are
// left unchanged.
type UpdateCourse struct {
	Name       string `json:"name" validate:"omitempty,notblank,max=120"`
	Code       string `json:"code" validate:"omitempty,max=20"`
	Instructor string `json:"instructor" validate:"omitempty,max=120"`
}

func (uc UpdateCourse) Validate() error {
	return runValidation(uc)
}
