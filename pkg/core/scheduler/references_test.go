package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

func TestValidateStudents(t *testing.T) {
	valid := model.Student{Name: "Alice", LessonMinutes: 45}
	require.NoError(t, ValidateStudents([]model.Student{valid}))

	for _, minutes := range []int{0, -15, 20} {
		invalid := model.Student{Name: "Bob", LessonMinutes: minutes}
		err := ValidateStudents([]model.Student{valid, invalid})
		require.Error(t, err, minutes)
		assert.True(t, IsConfigurationError(err))
		assert.Contains(t, err.Error(), "Bob")
	}

	forced := model.Student{Name: "Carol", LessonMinutes: 30, Forced: &model.ForcedPlacement{Teacher: "A", Minutes: 10}}
	assert.True(t, IsConfigurationError(ValidateStudents([]model.Student{forced})))
}

func TestResolveReferences_Siblings(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	students := []model.Student{
		{Name: "Alice", SimultaneousFamily: true, SiblingName: "bob"},
		{Name: "Bob", SimultaneousFamily: true, SiblingName: "Alice"},
		{Name: "Carol", SimultaneousFamily: true, SiblingName: "Nobody"},
		{Name: "Dan", SimultaneousFamily: false, SiblingName: "Alice"},
		{Name: "Eve", SimultaneousFamily: true, SiblingName: "Eve"},
	}

	resolved, refs := ResolveReferences(students, nil, zap.New(core))
	require.Len(t, resolved, 5)

	assert.Same(t, resolved[1], refs.Siblings[resolved[0]])
	assert.Same(t, resolved[0], refs.Siblings[resolved[1]])
	assert.NotContains(t, refs.Siblings, resolved[2])
	assert.NotContains(t, refs.Siblings, resolved[3])
	assert.NotContains(t, refs.Siblings, resolved[4])

	require.Len(t, refs.Warnings, 1)
	assert.Contains(t, refs.Warnings[0], "Nobody")
	assert.Equal(t, 1, logs.FilterField(zap.String("student", "Carol")).Len())
}

func TestResolveReferences_UnknownForcedTeacher(t *testing.T) {
	teachers := mustTeachers(teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 18))
	students := []model.Student{
		{Name: "Alice", Forced: &model.ForcedPlacement{Teacher: "Ghost", Day: timegrid.Monday, Start: clock(15, 0), Minutes: 30}},
		{Name: "Bob", Forced: &model.ForcedPlacement{Teacher: "mr. smith", Day: timegrid.Monday, Start: clock(15, 0), Minutes: 30}},
	}

	resolved, refs := ResolveReferences(students, teachers, nil)

	assert.Nil(t, resolved[0].Forced)
	assert.NotNil(t, resolved[1].Forced)
	assert.NotNil(t, students[0].Forced, "Input is not modified")
	require.Len(t, refs.Warnings, 1)
	assert.Contains(t, refs.Warnings[0], "Ghost")
}

func TestResolveReferences_ForcedProblemsAreReported(t *testing.T) {
	teachers := mustTeachers(teacherRow("Mr. Smith", "piano", timegrid.Monday, 14, 18))
	students := []model.Student{
		{Name: "Alice", Forced: &model.ForcedPlacement{Teacher: "Mr. Smith", Day: timegrid.Monday, Start: clock(15, 0), Minutes: 30}},
		{Name: "Bob", Forced: &model.ForcedPlacement{Teacher: "Mr. Smith", Day: timegrid.Monday, Start: clock(15, 15), Minutes: 30}},
		{Name: "Carol", Forced: &model.ForcedPlacement{Teacher: "Mr. Smith", Day: timegrid.Monday, Start: clock(17, 45), Minutes: 30}},
	}

	resolved, refs := ResolveReferences(students, teachers, nil)

	require.Len(t, refs.Warnings, 2)
	assert.Contains(t, refs.Warnings[0], "overlaps")
	assert.Contains(t, refs.Warnings[1], "outside")
	for _, student := range resolved {
		assert.NotNil(t, student.Forced, "Grid problems keep the forced placement")
	}
}
