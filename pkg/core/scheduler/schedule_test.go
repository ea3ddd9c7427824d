package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

func TestGroupTeachers_MergesRowsByName(t *testing.T) {
	monday := teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 18)
	tuesday := teacherRow("mr. smith ", "guitar", timegrid.Tuesday, 10, 12)
	tuesday.Location = "annex"
	other := teacherRow("Ms. Jones", "violin", timegrid.Monday, 9, 10)

	teachers, err := GroupTeachers([]model.TeacherRow{monday, other, tuesday})
	require.NoError(t, err)
	require.Len(t, teachers, 2)

	smith := teachers[0]
	assert.Equal(t, "Mr. Smith", smith.Name)
	assert.Equal(t, []string{"piano", "guitar"}, smith.Instruments)
	assert.Equal(t, "centre", smith.Location, "Location comes from the first row")
	assert.True(t, smith.WorksOn(timegrid.Monday))
	assert.True(t, smith.WorksOn(timegrid.Tuesday))
	assert.False(t, smith.WorksOn(timegrid.Friday))

	assert.Equal(t, "Ms. Jones", teachers[1].Name)
}

func TestGroupTeachers_EndBeforeStart(t *testing.T) {
	row := teacherRow("Mr. Smith", "piano", timegrid.Monday, 18, 14)

	_, err := GroupTeachers([]model.TeacherRow{row})
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "Mr. Smith")
}

func TestBuildTimetable_CoversDeclaredHours(t *testing.T) {
	teachers := mustTeachers(
		teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 16),
		teacherRow("Mr. Smith", "piano", timegrid.Wednesday, 9, 10),
	)

	tt := BuildTimetable(teachers)
	schedule := tt.Schedule("mr. smith")
	require.NotNil(t, schedule)

	assert.Equal(t, 8+4, schedule.Len())
	assert.Equal(t, 0, schedule.OccupiedCount())
	assert.True(t, schedule.IsFree(slot(timegrid.Monday, 14, 0)))
	assert.True(t, schedule.IsFree(slot(timegrid.Monday, 15, 45)))
	assert.False(t, schedule.Has(slot(timegrid.Monday, 16, 0)), "End is exclusive")
	assert.True(t, schedule.Has(slot(timegrid.Wednesday, 9, 45)))

	slots := schedule.Slots()
	assert.Equal(t, slot(timegrid.Monday, 14, 0), slots[0])
	assert.Equal(t, slot(timegrid.Wednesday, 9, 0), slots[8])

	assert.Nil(t, tt.Schedule("nobody"))
}

func TestBuildTimetable_OverlappingRowsKeepEachSlotOnce(t *testing.T) {
	teachers := mustTeachers(
		teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 16),
		teacherRow("Mr. Smith", "piano", timegrid.Monday, 15, 17),
	)

	schedule := BuildTimetable(teachers).Schedules[0]
	assert.Equal(t, 12, schedule.Len())
}

func TestTeacherSchedule_BlockAvailable(t *testing.T) {
	schedule := BuildTimetable(mustTeachers(teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 15))).Schedules[0]

	assert.True(t, schedule.BlockAvailable(timegrid.Block(timegrid.Monday, qh(14, 0), 4)))
	assert.False(t, schedule.BlockAvailable(timegrid.Block(timegrid.Monday, qh(14, 30), 3)), "Block runs past the end time")
	assert.False(t, schedule.BlockAvailable(timegrid.Block(timegrid.Tuesday, qh(14, 0), 1)), "Teacher does not work Tuesday")
	assert.False(t, schedule.BlockAvailable(nil))

	missing := schedule.assign(timegrid.Block(timegrid.Monday, qh(14, 0), 2), &model.Assignment{StudentName: "Alice"})
	assert.Empty(t, missing)
	assert.False(t, schedule.BlockAvailable(timegrid.Block(timegrid.Monday, qh(14, 15), 2)))
	assert.True(t, schedule.BlockAvailable(timegrid.Block(timegrid.Monday, qh(14, 30), 2)))
	assert.Equal(t, 2, schedule.OccupiedCount())
}

func TestTeacherSchedule_HypotheticalDoesNotMutate(t *testing.T) {
	schedule := BuildTimetable(mustTeachers(teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 15))).Schedules[0]
	block := timegrid.Block(timegrid.Monday, qh(14, 0), 2)

	view := schedule.with(block)
	assert.True(t, view.occupied(slot(timegrid.Monday, 14, 15)))
	assert.False(t, view.occupied(slot(timegrid.Monday, 14, 30)))
	assert.Equal(t, 0, schedule.OccupiedCount())
}
