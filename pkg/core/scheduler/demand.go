package scheduler

import (
	"slices"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

// DayOffer holds the admissible lesson starts on one day, ascending
type DayOffer struct {
	Day    timegrid.Day
	Starts []timegrid.QuarterHour
}

// NormalizeDemand turns a student's ideal and alternative windows into ordered candidate starts.
//
// Each window's start is rounded up and its end rounded down to a quarter-hour; every
// quarter-hour from start to end inclusive is a candidate start (the end of a window is the
// latest time the lesson may begin).
//
// Days keep insertion order: the ideal day first, then alternatives in declared order.
// A window on a day already seen merges its starts into that day, ignoring duplicates.
// Windows with no day or with an end before their start are skipped.
func NormalizeDemand(student *model.Student) []DayOffer {
	offers := make([]DayOffer, 0)
	dayIndex := make(map[timegrid.Day]int)

	for _, window := range student.Windows() {
		if window.Day == "" {
			continue
		}

		first := window.Start.Ceil()
		last := window.End.Floor()
		if last < first {
			continue
		}
		starts := timegrid.Range(first, last.Add(1))

		idx, seen := dayIndex[window.Day]
		if !seen {
			dayIndex[window.Day] = len(offers)
			offers = append(offers, DayOffer{Day: window.Day, Starts: starts})
			continue
		}

		for _, start := range starts {
			pos, found := slices.BinarySearch(offers[idx].Starts, start)
			if found {
				continue
			}
			offers[idx].Starts = slices.Insert(offers[idx].Starts, pos, start)
		}
	}

	return offers
}

// inIdealWindow returns true if the start falls within the student's normalized ideal window
func inIdealWindow(student *model.Student, day timegrid.Day, start timegrid.QuarterHour) bool {
	ideal := student.Ideal
	if ideal == nil || ideal.Day != day {
		return false
	}
	return start >= ideal.Start.Ceil() && start <= ideal.End.Floor()
}
