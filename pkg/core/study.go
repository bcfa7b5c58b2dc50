package core

import (
	"fmt"
	"strings"
	"time"
)

// StudyMode labels what a logged session was spent on. The modes mirror a
// pomodoro cycle.
type StudyMode string

const (
	ModeFocus      StudyMode = "focus"
	ModeShortBreak StudyMode = "short-break"
	ModeLongBreak  StudyMode = "long-break"
)

// ParseStudyMode resolves user input to a StudyMode. Empty input defaults
// to focus.
func ParseStudyMode(s string) (StudyMode, error) {
	switch strings.ToLower(CleanString(s)) {
	case "", "focus", "work":
		return ModeFocus, nil
	case "short-break", "short":
		return ModeShortBreak, nil
	case "long-break", "long":
		return ModeLongBreak, nil
	}
	return "", fmt.Errorf("invalid study mode %q (want focus, short-break or long-break)", s)
}

// StudySession is one logged block of study time for a course.
type StudySession struct {
	ID       string    `json:"id"`
	Minutes  int       `json:"minutes"`
	Mode     StudyMode `json:"mode"`
	LoggedAt time.Time `json:"logged_at"`
}

// NewStudySession carries the input for logging a study session.
type NewStudySession struct {
	Minutes int    `json:"minutes" validate:"required,gt=0,lte=1440"`
	Mode    string `json:"mode" validate:"omitempty,oneof=focus short-break long-break"`
}

func (ns NewStudySession) Validate() error {
	return runValidation(ns)
}
