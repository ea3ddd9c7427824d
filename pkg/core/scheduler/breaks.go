package scheduler

import (
	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

// BreakViolation describes a declared break that no longer has enough free time
type BreakViolation struct {
	Teacher      string
	Day          timegrid.Day
	Break        model.BreakWindow
	LongestFree  int
	RequiredFree int
}

// BreaksPreserved reports whether the teacher's breaks survive placing the given blocks.
//
// Only breaks on days touched by the blocks are checked, since a placement cannot change any
// other day. A break is satisfied when a run of free slots inside its window is at least
// MinQuarters long. Slots outside the teacher's working hours count as free.
// Breaks without a window or duration are vacuously satisfied.
//
// The schedule is never modified.
func BreaksPreserved(schedule *TeacherSchedule, blocks ...[]timegrid.Slot) bool {
	view := schedule.with(blocks...)

	touched := make(map[timegrid.Day]bool)
	for _, block := range blocks {
		for _, slot := range block {
			touched[slot.Day] = true
		}
	}

	for _, wd := range schedule.Teacher.Days {
		if !touched[wd.Day] {
			continue
		}
		for _, br := range wd.Breaks {
			if !br.IsDeclared() {
				continue
			}
			if longestFreeRun(view, wd.Day, br) < br.MinQuarters {
				return false
			}
		}
	}

	return true
}

// BreakViolations checks every declared break of the committed schedule
func BreakViolations(schedule *TeacherSchedule) []BreakViolation {
	view := schedule.with()
	var violations []BreakViolation

	for _, wd := range schedule.Teacher.Days {
		for _, br := range wd.Breaks {
			if !br.IsDeclared() {
				continue
			}
			longest := longestFreeRun(view, wd.Day, br)
			if longest < br.MinQuarters {
				violations = append(violations, BreakViolation{
					Teacher:      schedule.Teacher.Name,
					Day:          wd.Day,
					Break:        br,
					LongestFree:  longest,
					RequiredFree: br.MinQuarters,
				})
			}
		}
	}

	return violations
}

// longestFreeRun returns the longest run of unoccupied slots inside the break window
func longestFreeRun(view hypothetical, day timegrid.Day, br model.BreakWindow) int {
	longest, current := 0, 0
	for _, q := range timegrid.Range(br.Start, br.End) {
		if view.occupied(timegrid.Slot{Day: day, Time: q}) {
			current = 0
			continue
		}
		current++
		longest = max(longest, current)
	}
	return longest
}
