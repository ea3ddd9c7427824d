package render

import (
	"fmt"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/scheduler"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

// Range is a run of consecutive slots on one day with the same occupant
type Range struct {
	Day   timegrid.Day
	Start timegrid.QuarterHour
	End   timegrid.QuarterHour

	// Assignment is nil for free time
	Assignment *model.Assignment
}

// Label formats the range as "HH:MM-HH:MM"
func (r Range) Label() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Free returns true if nobody occupies the range
func (r Range) Free() bool {
	return r.Assignment == nil
}

// CompactSchedule merges consecutive quarter-hours of a schedule into ranges.
//
// Slots merge when they are on the same day, adjacent in time and hold the same assignment.
// The same student always shares one *Assignment across its block, so pointer equality
// separates two students with back-to-back lessons.
func CompactSchedule(schedule *scheduler.TeacherSchedule) []Range {
	ranges := []Range{}

	for _, slot := range schedule.Slots() {
		assignment := schedule.At(slot)

		if n := len(ranges); n > 0 {
			last := &ranges[n-1]
			if last.Day == slot.Day && last.End == slot.Time && last.Assignment == assignment {
				last.End = slot.Time.Add(1)
				continue
			}
		}

		ranges = append(ranges, Range{
			Day:        slot.Day,
			Start:      slot.Time,
			End:        slot.Time.Add(1),
			Assignment: assignment,
		})
	}

	return ranges
}
