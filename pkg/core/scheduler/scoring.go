package scheduler

import (
	"github.com/samber/lo"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
)

// Stats summarizes a trial's records as whole-number percentages
type Stats struct {
	StudentMatch       int
	TeacherUtilization int
	IdealWindow        int
	PreferredTeacher   int
	PreferredLocation  int

	Assigned   int
	Unassigned int
	Total      int
}

// ComputeStats scores a trial.
//
// StudentMatch is assigned/total. TeacherUtilization is occupied/total slots per teacher,
// averaged over teachers that have any slots. The ideal-window, preferred-teacher and
// preferred-location figures are shares of the assigned students.
// An empty batch counts as a full match.
func ComputeStats(records []model.StudentRecord, timetable *Timetable) Stats {
	assigned := lo.Filter(records, func(record model.StudentRecord, _ int) bool {
		return record.Assigned
	})

	stats := Stats{
		Assigned:   len(assigned),
		Unassigned: len(records) - len(assigned),
		Total:      len(records),
	}

	stats.StudentMatch = 100
	if stats.Total > 0 {
		stats.StudentMatch = percent(stats.Assigned, stats.Total)
	}

	stats.IdealWindow = percent(lo.CountBy(assigned, func(r model.StudentRecord) bool { return r.IdealWindow }), stats.Assigned)
	stats.PreferredTeacher = percent(lo.CountBy(assigned, func(r model.StudentRecord) bool { return r.PreferredTeacher }), stats.Assigned)
	stats.PreferredLocation = percent(lo.CountBy(assigned, func(r model.StudentRecord) bool { return r.PreferredLocation }), stats.Assigned)

	stats.TeacherUtilization = utilization(timetable)

	return stats
}

func utilization(timetable *Timetable) int {
	if timetable == nil {
		return 0
	}

	var sum float64
	counted := 0
	for _, schedule := range timetable.Schedules {
		if schedule.Len() == 0 {
			continue
		}
		sum += float64(schedule.OccupiedCount()) / float64(schedule.Len())
		counted++
	}
	if counted == 0 {
		return 0
	}
	return int(sum * 100 / float64(counted))
}

// percent returns part/whole as a whole-number percentage, truncated. Zero when whole is zero.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return part * 100 / whole
}
