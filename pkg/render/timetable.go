package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/scheduler"
)

const freeLabel = "-"

// WriteTimetable prints every teacher's compacted week
func WriteTimetable(w io.Writer, timetable *scheduler.Timetable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, schedule := range timetable.Schedules {
		teacher := schedule.Teacher
		fmt.Fprintf(tw, "\n%s (%s) - %s\n", teacher.Name, strings.Join(teacher.Instruments, ", "), teacher.Location)

		for _, r := range CompactSchedule(schedule) {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", r.Day, r.Label(), occupantLabel(r.Assignment))
		}
	}

	return tw.Flush()
}

func occupantLabel(assignment *model.Assignment) string {
	if assignment == nil {
		return freeLabel
	}

	var flags []string
	if assignment.PreferredTeacher {
		flags = append(flags, "preferred teacher")
	}
	if !assignment.PreferredLocation {
		flags = append(flags, "relocated")
	}

	label := fmt.Sprintf("%s (%s)", assignment.StudentName, assignment.Instrument)
	if len(flags) > 0 {
		label += " [" + strings.Join(flags, ", ") + "]"
	}
	return label
}

// WriteUnassigned lists students that could not be placed
func WriteUnassigned(w io.Writer, records []model.StudentRecord) {
	var unassigned []model.StudentRecord
	for _, record := range records {
		if !record.Assigned {
			unassigned = append(unassigned, record)
		}
	}

	if len(unassigned) == 0 {
		fmt.Fprintf(w, "\n✓ Every student was assigned\n")
		return
	}

	fmt.Fprintf(w, "\nUnassigned (%d):\n", len(unassigned))
	for _, record := range unassigned {
		fmt.Fprintf(w, "  ✗ %s (%s)\n", record.StudentName, record.Instrument)
	}
}

// WriteStats prints the match percentages of a trial
func WriteStats(w io.Writer, stats scheduler.Stats) {
	fmt.Fprintf(w, "\nStatistics:\n")
	fmt.Fprintf(w, "  Students assigned:       %d/%d (%d%%)\n", stats.Assigned, stats.Total, stats.StudentMatch)
	fmt.Fprintf(w, "  Teacher utilization:     %d%%\n", stats.TeacherUtilization)
	fmt.Fprintf(w, "  Ideal window met:        %d%%\n", stats.IdealWindow)
	fmt.Fprintf(w, "  Preferred teacher met:   %d%%\n", stats.PreferredTeacher)
	fmt.Fprintf(w, "  Preferred location met:  %d%%\n", stats.PreferredLocation)
}
