package model

import (
	"slices"

	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

// BreakWindow is a span of a teacher's day inside which a minimum contiguous free time must survive
type BreakWindow struct {
	Start timegrid.QuarterHour
	End   timegrid.QuarterHour

	// MinQuarters is the required free run, in slots
	MinQuarters int
}

// IsDeclared reports whether the break carries a usable window and duration
func (b BreakWindow) IsDeclared() bool {
	return b.MinQuarters > 0 && b.End > b.Start
}

// TeacherRow is one row of the teacher table: a teacher's working window on a single day
type TeacherRow struct {
	Name               string
	Instruments        []string
	Location           string
	Day                timegrid.Day
	Start              timegrid.QuarterHour
	End                timegrid.QuarterHour
	Breaks             []BreakWindow
	AcceptsNewStudents bool
}

// WorkingDay is a teacher's window and breaks on one day
type WorkingDay struct {
	Day    timegrid.Day
	Start  timegrid.QuarterHour
	End    timegrid.QuarterHour
	Breaks []BreakWindow
}

// Teacher is a teacher identity with all of its working days
type Teacher struct {
	Name               string
	Instruments        []string
	Location           string
	AcceptsNewStudents bool
	Days               []WorkingDay
}

// Teaches returns true if the teacher's instrument set contains the instrument
func (t *Teacher) Teaches(instrument string) bool {
	return slices.Contains(t.Instruments, instrument)
}

// WorksOn returns true if the teacher has a working window on the given day
func (t *Teacher) WorksOn(day timegrid.Day) bool {
	for _, wd := range t.Days {
		if wd.Day == day {
			return true
		}
	}
	return false
}

// Window is a requested day and range of admissible lesson start times.
// End is the latest time the lesson may start.
type Window struct {
	Day   timegrid.Day
	Start timegrid.Clock
	End   timegrid.Clock
}

// ForcedPlacement is a pre-decided lesson that bypasses the search
type ForcedPlacement struct {
	Teacher string
	Day     timegrid.Day
	Start   timegrid.Clock
	Minutes int
}

// Student represents one registration
type Student struct {
	Name             string
	Instrument       string
	Location         string
	CanRelocate      bool
	LessonMinutes    int
	WantsLesson      bool
	CurrentStudent   bool
	PreferredTeacher string // Empty string if no preference

	// Ideal is nil when the ideal window was missing or invalid at ingestion
	Ideal        *Window
	Alternatives []Window

	SimultaneousFamily bool
	SiblingName        string // Empty string if no sibling

	// Forced is nil unless every forced field was filled in
	Forced *ForcedPlacement
}

// Windows returns the ideal window followed by the alternatives, in declared order
func (s *Student) Windows() []Window {
	windows := make([]Window, 0, len(s.Alternatives)+1)
	if s.Ideal != nil {
		windows = append(windows, *s.Ideal)
	}
	return append(windows, s.Alternatives...)
}

// Assignment is the content of an occupied slot
type Assignment struct {
	StudentName       string
	Instrument        string
	Location          string
	PreferredTeacher  bool
	PreferredLocation bool
}

// StudentRecord is the outcome of processing one student during a trial
type StudentRecord struct {
	StudentName string
	Instrument  string
	Assigned    bool

	// Placement details, zero values when unassigned
	Teacher  string
	Day      timegrid.Day
	Start    timegrid.QuarterHour
	End      timegrid.QuarterHour
	Location string

	IdealWindow       bool
	PreferredTeacher  bool
	PreferredLocation bool
	Forced            bool

	// SiblingPaired is true when the student was committed together with SiblingName
	SiblingPaired bool
	SiblingName   string
}
