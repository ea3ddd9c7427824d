package render

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/scheduler"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

func at(hour, minute int) timegrid.Clock {
	return timegrid.Clock(hour*60 + minute)
}

func student(name string, from, to timegrid.Clock) *model.Student {
	return &model.Student{
		Name:          name,
		Instrument:    "piano",
		Location:      "centre",
		LessonMinutes: 30,
		WantsLesson:   true,
		Ideal:         &model.Window{Day: timegrid.Monday, Start: from, End: to},
	}
}

// filledEngine places Alice at 14:00, Bob at 14:30 and fails to place Carl on Friday
func filledEngine(t *testing.T) *scheduler.Engine {
	t.Helper()
	teachers, err := scheduler.GroupTeachers([]model.TeacherRow{{
		Name:               "Smith",
		Instruments:        []string{"piano"},
		Location:           "centre",
		Day:                timegrid.Monday,
		Start:              at(14, 0).Floor(),
		End:                at(16, 0).Floor(),
		AcceptsNewStudents: true,
	}})
	require.NoError(t, err)

	engine := scheduler.NewEngine(teachers, nil, scheduler.Options{}, nil)
	engine.PlaceStudent(student("Alice", at(14, 0), at(14, 0)))
	engine.PlaceStudent(student("Bob", at(14, 30), at(14, 30)))
	carl := student("Carl", at(14, 0), at(15, 0))
	carl.Ideal.Day = timegrid.Friday
	engine.PlaceStudent(carl)
	return engine
}

func TestCompactSchedule(t *testing.T) {
	engine := filledEngine(t)

	ranges := CompactSchedule(engine.Timetable().Schedule("Smith"))
	require.Len(t, ranges, 3)

	assert.Equal(t, "14:00-14:30", ranges[0].Label())
	assert.Equal(t, "Alice", ranges[0].Assignment.StudentName)
	assert.Equal(t, "14:30-15:00", ranges[1].Label())
	assert.Equal(t, "Bob", ranges[1].Assignment.StudentName)
	assert.Equal(t, "15:00-16:00", ranges[2].Label())
	assert.True(t, ranges[2].Free())
}

func TestCompactSchedule_SplitsDaysAndGaps(t *testing.T) {
	teachers, err := scheduler.GroupTeachers([]model.TeacherRow{
		{Name: "Smith", Instruments: []string{"piano"}, Day: timegrid.Monday, Start: at(9, 0).Floor(), End: at(10, 0).Floor()},
		{Name: "Smith", Instruments: []string{"piano"}, Day: timegrid.Monday, Start: at(14, 0).Floor(), End: at(14, 30).Floor()},
		{Name: "Smith", Instruments: []string{"piano"}, Day: timegrid.Tuesday, Start: at(14, 30).Floor(), End: at(15, 0).Floor()},
	})
	require.NoError(t, err)

	ranges := CompactSchedule(scheduler.BuildTimetable(teachers).Schedule("Smith"))
	require.Len(t, ranges, 3)
	assert.Equal(t, "09:00-10:00", ranges[0].Label())
	assert.Equal(t, "14:00-14:30", ranges[1].Label())
	assert.Equal(t, timegrid.Tuesday, ranges[2].Day)
	assert.Equal(t, "14:30-15:00", ranges[2].Label())
}

func TestWriteTimetable(t *testing.T) {
	engine := filledEngine(t)

	var buf bytes.Buffer
	require.NoError(t, WriteTimetable(&buf, engine.Timetable()))

	out := buf.String()
	assert.Contains(t, out, "Smith (piano) - centre")
	assert.Contains(t, out, "14:00-14:30")
	assert.Contains(t, out, "Alice (piano)")
	assert.Contains(t, out, "15:00-16:00")
	assert.NotContains(t, out, "relocated")
}

func TestWriteUnassignedAndStats(t *testing.T) {
	engine := filledEngine(t)
	records := engine.Records()

	var buf bytes.Buffer
	WriteUnassigned(&buf, records)
	WriteStats(&buf, scheduler.ComputeStats(records, engine.Timetable()))

	out := buf.String()
	assert.Contains(t, out, "Unassigned (1)")
	assert.Contains(t, out, "✗ Carl (piano)")
	assert.Contains(t, out, "Students assigned:       2/3 (66%)")
	assert.Contains(t, out, "Teacher utilization:     50%")
}

func TestWriteUnassigned_None(t *testing.T) {
	var buf bytes.Buffer
	WriteUnassigned(&buf, []model.StudentRecord{{StudentName: "Alice", Assigned: true}})
	assert.Contains(t, buf.String(), "Every student was assigned")
}

func TestPlacementDataset_CSV(t *testing.T) {
	engine := filledEngine(t)
	dates := map[timegrid.Day][]time.Time{
		timegrid.Monday: {
			time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	data, err := RenderCSV(PlacementDataset(engine.Records(), dates))
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	header := rows[0]
	assert.Equal(t, ColStudent, header[0])
	assert.Equal(t, ColLessonDates, header[len(header)-1])

	alice := rows[1]
	assert.Equal(t, []string{"Alice", "piano", "true", "Smith", "monday", "14:00", "14:30", "centre"}, alice[:8])
	assert.Equal(t, "2025-09-08;2025-09-15", alice[len(alice)-1])

	carl := rows[3]
	assert.Equal(t, "false", carl[2])
	assert.Equal(t, "", carl[3])
	assert.Equal(t, "", carl[len(carl)-1])
}

func TestPlacementDataset_WithoutTerm(t *testing.T) {
	data := PlacementDataset([]model.StudentRecord{{StudentName: "Alice"}}, nil)
	assert.NotContains(t, data.Headers, ColLessonDates)
}

func TestRenderCSV_RequiresHeaders(t *testing.T) {
	_, err := RenderCSV(Dataset{})
	assert.Error(t, err)
}

func TestRenderPDF(t *testing.T) {
	engine := filledEngine(t)

	data, err := RenderPDF(PlacementDataset(engine.Records(), nil), "Timetable - Élise")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))

	_, err = RenderPDF(Dataset{Headers: []string{ColLessonDates}}, "")
	assert.Error(t, err)
}
