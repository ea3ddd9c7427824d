package services

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/scheduler"
	"github.com/jakechorley/lesson-scheduler/pkg/ingest"
)

// CheckResult summarizes the inputs without running any trial
type CheckResult struct {
	Teachers        []*model.Teacher
	Students        int
	WantingLesson   int
	Forced          int
	SiblingPairs    int
	Warnings        []string
	BreakViolations []scheduler.BreakViolation
}

// CheckInputs loads the inputs and reports configuration errors and unresolved references.
//
// Configuration errors are returned as errors. Unresolved references are listed in Warnings.
// Forced placements are applied to empty grids to report the breaks they leave unsatisfiable.
func CheckInputs(ctx context.Context, source ingest.Source, logger *zap.Logger) (*CheckResult, error) {
	logger.Info("Checking inputs")

	inputs, err := ingest.Load(ctx, source, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load inputs: %w", err)
	}

	controller, err := scheduler.NewController(scheduler.ControllerConfig{
		Teachers: inputs.Teachers,
		Students: inputs.Students,
	}, logger)
	if err != nil {
		return nil, err
	}

	students := controller.Students()
	result := &CheckResult{
		Teachers:      controller.Teachers(),
		Students:      len(inputs.Students),
		WantingLesson: len(students),
		Forced: lo.CountBy(students, func(s *model.Student) bool {
			return s.Forced != nil
		}),
		SiblingPairs: len(controller.References().Siblings),
		Warnings:     controller.References().Warnings,
	}

	engine := scheduler.NewEngine(controller.Teachers(), nil, scheduler.Options{}, logger)
	for _, student := range students {
		if student.Forced != nil {
			engine.ApplyForced(student)
		}
	}
	for _, schedule := range engine.Timetable().Schedules {
		result.BreakViolations = append(result.BreakViolations, scheduler.BreakViolations(schedule)...)
	}

	logger.Info("Inputs checked",
		zap.Int("teachers", len(result.Teachers)),
		zap.Int("students", result.WantingLesson),
		zap.Int("warnings", len(result.Warnings)),
		zap.Int("forced_break_violations", len(result.BreakViolations)))

	return result, nil
}

// ListTeachers reads the teacher table and groups its rows by teacher
func ListTeachers(ctx context.Context, source ingest.Source) ([]*model.Teacher, error) {
	rows, err := source.TeacherRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read teachers: %w", err)
	}

	teacherRows, err := ingest.ParseTeachers(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to parse teachers: %w", err)
	}

	return scheduler.GroupTeachers(teacherRows)
}
