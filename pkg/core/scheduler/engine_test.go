package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

func TestEngine_PlacesFirstFit(t *testing.T) {
	teachers := mustTeachers(teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 18))
	engine := NewEngine(teachers, nil, Options{}, nil)

	alice := pianoStudent("Alice", timegrid.Monday, clock(15, 0), clock(17, 0))
	record := engine.PlaceStudent(alice)

	require.True(t, record.Assigned)
	assert.Equal(t, "Mr. Smith", record.Teacher)
	assert.Equal(t, timegrid.Monday, record.Day)
	assert.Equal(t, qh(15, 0), record.Start)
	assert.Equal(t, qh(15, 30), record.End)
	assert.Equal(t, "centre", record.Location)
	assert.True(t, record.IdealWindow)
	assert.True(t, record.PreferredLocation)

	schedule := engine.Timetable().Schedule("Mr. Smith")
	assert.Equal(t, []timegrid.Slot{slot(timegrid.Monday, 15, 0), slot(timegrid.Monday, 15, 15)}, occupiedBy(schedule, "Alice"))
}

func TestEngine_LessonLongerThanWorkingWindow(t *testing.T) {
	teachers := mustTeachers(model.TeacherRow{
		Name:               "Mr. Smith",
		Instruments:        []string{"piano"},
		Location:           "centre",
		Day:                timegrid.Monday,
		Start:              qh(14, 0),
		End:                qh(14, 30),
		AcceptsNewStudents: true,
	})
	engine := NewEngine(teachers, nil, Options{}, nil)

	student := pianoStudent("Carol", timegrid.Monday, clock(0, 0), clock(23, 45))
	student.LessonMinutes = 45

	record := engine.PlaceStudent(student)
	assert.False(t, record.Assigned)
	assert.Empty(t, record.Teacher)
	assert.Empty(t, record.Day)
	assert.Equal(t, 0, engine.Timetable().Schedules[0].OccupiedCount())
}

func TestEngine_PreferredTeacherTriedFirst(t *testing.T) {
	teachers := mustTeachers(
		teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 18),
		teacherRow("Ms. Jones", "piano", timegrid.Monday, 14, 18),
	)
	engine := NewEngine(teachers, nil, Options{}, nil)

	student := pianoStudent("Alice", timegrid.Monday, clock(15, 0), clock(17, 0))
	student.PreferredTeacher = "Ms. Jones"

	record := engine.PlaceStudent(student)
	require.True(t, record.Assigned)
	assert.Equal(t, "Ms. Jones", record.Teacher)
	assert.True(t, record.PreferredTeacher)
}

func TestEngine_PreferredTeacherFallback(t *testing.T) {
	teachers := mustTeachers(
		teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 18),
		teacherRow("Ms. Jones", "piano", timegrid.Tuesday, 14, 18),
	)
	student := pianoStudent("Alice", timegrid.Monday, clock(15, 0), clock(17, 0))
	student.PreferredTeacher = "Ms. Jones"

	record := NewEngine(teachers, nil, Options{}, nil).PlaceStudent(student)
	require.True(t, record.Assigned)
	assert.Equal(t, "Mr. Smith", record.Teacher)
	assert.False(t, record.PreferredTeacher)

	exclusive := NewEngine(teachers, nil, Options{ExclusivePreferredTeacher: true}, nil).PlaceStudent(student)
	assert.False(t, exclusive.Assigned)
}

func TestEngine_BreakRejectsSlotAndTriesNext(t *testing.T) {
	row := teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 18)
	row.Breaks = []model.BreakWindow{{Start: qh(16, 0), End: qh(16, 15), MinQuarters: 1}}
	engine := NewEngine(mustTeachers(row), nil, Options{}, nil)

	student := pianoStudent("Alice", timegrid.Monday, clock(15, 45), clock(17, 0))

	record := engine.PlaceStudent(student)
	require.True(t, record.Assigned)
	// 15:45 would cover the break; 16:00 too; 16:15 is the first legal start
	assert.Equal(t, qh(16, 15), record.Start)
	assert.Empty(t, BreakViolations(engine.Timetable().Schedules[0]))
}

func TestEngine_LocationRequiresRelocation(t *testing.T) {
	annex := teacherRow("Ms. Jones", "piano", timegrid.Monday, 14, 18)
	annex.Location = "annex"
	teachers := mustTeachers(annex)

	student := pianoStudent("Alice", timegrid.Monday, clock(15, 0), clock(17, 0))
	assert.False(t, NewEngine(teachers, nil, Options{}, nil).PlaceStudent(student).Assigned)

	student.CanRelocate = true
	record := NewEngine(teachers, nil, Options{}, nil).PlaceStudent(student)
	require.True(t, record.Assigned)
	assert.Equal(t, "annex", record.Location)
	assert.False(t, record.PreferredLocation)
}

func TestEngine_FallsBackToAlternativeDay(t *testing.T) {
	teachers := mustTeachers(teacherRow("Mr. Smith", "piano", timegrid.Wednesday, 14, 18))

	student := pianoStudent("Alice", timegrid.Monday, clock(15, 0), clock(17, 0))
	student.Alternatives = []model.Window{{Day: timegrid.Wednesday, Start: clock(17, 0), End: clock(17, 30)}}

	record := NewEngine(teachers, nil, Options{}, nil).PlaceStudent(student)
	require.True(t, record.Assigned)
	assert.Equal(t, timegrid.Wednesday, record.Day)
	assert.Equal(t, qh(17, 0), record.Start)
	assert.False(t, record.IdealWindow)
}

func TestEngine_MutualExclusionAndDuration(t *testing.T) {
	teachers := mustTeachers(teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 16))
	engine := NewEngine(teachers, nil, Options{}, nil)

	minutes := []int{30, 45, 60, 15, 30}
	for i, m := range minutes {
		student := pianoStudent(string(rune('A'+i)), timegrid.Monday, clock(14, 0), clock(16, 0))
		student.LessonMinutes = m
		engine.Process(student)
	}

	schedule := engine.Timetable().Schedules[0]
	for _, record := range engine.Records() {
		if !record.Assigned {
			continue
		}
		slots := occupiedBy(schedule, record.StudentName)
		assert.Len(t, slots, int(record.End-record.Start), record.StudentName)
		for _, s := range slots {
			assert.Equal(t, record.Day, s.Day)
		}
	}

	// Only 15:15-16:00 is left after A and B, too short for the hour lesson
	a, _ := recordFor(engine.Records(), "A")
	b, _ := recordFor(engine.Records(), "B")
	c, _ := recordFor(engine.Records(), "C")
	d, _ := recordFor(engine.Records(), "D")
	e, _ := recordFor(engine.Records(), "E")
	assert.True(t, a.Assigned)
	assert.True(t, b.Assigned)
	assert.False(t, c.Assigned)
	assert.True(t, d.Assigned)
	assert.True(t, e.Assigned)
	assert.Equal(t, 8, schedule.OccupiedCount())
}

func TestEngine_ApplyForced(t *testing.T) {
	row := teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 18)
	row.Breaks = []model.BreakWindow{{Start: qh(16, 0), End: qh(16, 15), MinQuarters: 1}}
	engine := NewEngine(mustTeachers(row), nil, Options{}, nil)

	forced := pianoStudent("Dora", timegrid.Tuesday, clock(9, 0), clock(10, 0))
	forced.Forced = &model.ForcedPlacement{Teacher: "Mr. Smith", Day: timegrid.Monday, Start: clock(16, 0), Minutes: 30}

	record := engine.ApplyForced(forced)
	require.True(t, record.Assigned)
	assert.True(t, record.Forced)
	assert.Equal(t, qh(16, 0), record.Start)
	assert.False(t, record.IdealWindow)

	// Forced placements are written even over a break
	schedule := engine.Timetable().Schedules[0]
	assert.Len(t, occupiedBy(schedule, "Dora"), 2)

	clash := pianoStudent("Eve", timegrid.Monday, clock(9, 0), clock(10, 0))
	clash.Forced = &model.ForcedPlacement{Teacher: "Mr. Smith", Day: timegrid.Monday, Start: clock(16, 15), Minutes: 30}

	clashRecord := engine.ApplyForced(clash)
	assert.False(t, clashRecord.Assigned)
	assert.True(t, clashRecord.Forced)
	assert.Empty(t, occupiedBy(schedule, "Eve"))
}

func TestEngine_ForcedOutsideHoursSkipsMissingSlots(t *testing.T) {
	engine := NewEngine(mustTeachers(teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 18)), nil, Options{}, nil)

	student := pianoStudent("Dora", timegrid.Monday, clock(9, 0), clock(10, 0))
	student.Forced = &model.ForcedPlacement{Teacher: "Mr. Smith", Day: timegrid.Monday, Start: clock(17, 45), Minutes: 30}

	record := engine.ApplyForced(student)
	assert.True(t, record.Assigned)
	assert.Equal(t, qh(18, 15), record.End)
	assert.Len(t, occupiedBy(engine.Timetable().Schedules[0], "Dora"), 1)
}

func TestEngine_ProcessSkipsProcessedStudents(t *testing.T) {
	engine := NewEngine(mustTeachers(teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 18)), nil, Options{}, nil)
	alice := pianoStudent("Alice", timegrid.Monday, clock(15, 0), clock(17, 0))

	engine.Process(alice)
	engine.Process(alice)

	assert.Len(t, engine.Records(), 1)
	assert.Len(t, occupiedBy(engine.Timetable().Schedules[0], "Alice"), 2)
}
