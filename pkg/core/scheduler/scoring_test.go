package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

func TestComputeStats(t *testing.T) {
	tt := BuildTimetable(mustTeachers(
		teacherRow("A", "piano", timegrid.Monday, 14, 15),
		teacherRow("B", "piano", timegrid.Monday, 14, 16),
	))
	tt.Schedules[0].assign(timegrid.Block(timegrid.Monday, qh(14, 0), 2), &model.Assignment{StudentName: "x"})
	tt.Schedules[1].assign(timegrid.Block(timegrid.Monday, qh(14, 0), 2), &model.Assignment{StudentName: "y"})

	records := []model.StudentRecord{
		{StudentName: "x", Assigned: true, IdealWindow: true, PreferredTeacher: true, PreferredLocation: true},
		{StudentName: "y", Assigned: true, PreferredLocation: true},
		{StudentName: "z", Assigned: false},
	}

	stats := ComputeStats(records, tt)
	assert.Equal(t, 66, stats.StudentMatch)
	assert.Equal(t, 2, stats.Assigned)
	assert.Equal(t, 1, stats.Unassigned)
	assert.Equal(t, 3, stats.Total)
	// (2/4 + 2/8) / 2
	assert.Equal(t, 37, stats.TeacherUtilization)
	assert.Equal(t, 50, stats.IdealWindow)
	assert.Equal(t, 50, stats.PreferredTeacher)
	assert.Equal(t, 100, stats.PreferredLocation)
}

func TestComputeStats_EmptyBatch(t *testing.T) {
	stats := ComputeStats(nil, BuildTimetable(nil))
	assert.Equal(t, 100, stats.StudentMatch)
	assert.Equal(t, 0, stats.TeacherUtilization)
	assert.Equal(t, 0, stats.IdealWindow)
}
