package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

func TestNormalizeDemand_RoundsAndEnumerates(t *testing.T) {
	student := pianoStudent("Alice", timegrid.Monday, clock(15, 5), clock(16, 10))

	offers := NormalizeDemand(student)
	require.Len(t, offers, 1)
	assert.Equal(t, timegrid.Monday, offers[0].Day)
	// 15:05 rounds up to 15:15, 16:10 rounds down to 16:00
	assert.Equal(t, []timegrid.QuarterHour{qh(15, 15), qh(15, 30), qh(15, 45), qh(16, 0)}, offers[0].Starts)
}

func TestNormalizeDemand_DayOrderAndMerging(t *testing.T) {
	student := pianoStudent("Alice", timegrid.Wednesday, clock(10, 0), clock(10, 30))
	student.Alternatives = []model.Window{
		{Day: timegrid.Monday, Start: clock(9, 0), End: clock(9, 15)},
		{Day: timegrid.Wednesday, Start: clock(9, 30), End: clock(10, 15)},
		{Day: timegrid.Friday, Start: clock(12, 0), End: clock(12, 0)},
	}

	offers := NormalizeDemand(student)
	require.Len(t, offers, 3)

	assert.Equal(t, timegrid.Wednesday, offers[0].Day, "Ideal day first")
	assert.Equal(t, []timegrid.QuarterHour{qh(9, 30), qh(9, 45), qh(10, 0), qh(10, 15), qh(10, 30)}, offers[0].Starts)

	assert.Equal(t, timegrid.Monday, offers[1].Day)
	assert.Equal(t, []timegrid.QuarterHour{qh(9, 0), qh(9, 15)}, offers[1].Starts)

	assert.Equal(t, timegrid.Friday, offers[2].Day)
	assert.Equal(t, []timegrid.QuarterHour{qh(12, 0)}, offers[2].Starts)
}

func TestNormalizeDemand_SkipsInvalidWindows(t *testing.T) {
	student := &model.Student{
		Name:          "Bob",
		LessonMinutes: 30,
		Alternatives: []model.Window{
			{Day: "", Start: clock(9, 0), End: clock(10, 0)},
			{Day: timegrid.Tuesday, Start: clock(11, 0), End: clock(10, 0)},
			{Day: timegrid.Tuesday, Start: clock(11, 5), End: clock(11, 10)},
		},
	}

	assert.Empty(t, NormalizeDemand(student))
}

func TestInIdealWindow(t *testing.T) {
	student := pianoStudent("Alice", timegrid.Monday, clock(15, 0), clock(16, 0))
	student.Alternatives = []model.Window{{Day: timegrid.Tuesday, Start: clock(15, 0), End: clock(16, 0)}}

	assert.True(t, inIdealWindow(student, timegrid.Monday, qh(15, 0)))
	assert.True(t, inIdealWindow(student, timegrid.Monday, qh(16, 0)))
	assert.False(t, inIdealWindow(student, timegrid.Monday, qh(16, 15)))
	assert.False(t, inIdealWindow(student, timegrid.Tuesday, qh(15, 0)))

	student.Ideal = nil
	assert.False(t, inIdealWindow(student, timegrid.Monday, qh(15, 0)))
}
