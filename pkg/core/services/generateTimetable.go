package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/lesson-scheduler/internal/config"
	"github.com/jakechorley/lesson-scheduler/pkg/calendar"
	"github.com/jakechorley/lesson-scheduler/pkg/core/scheduler"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
	"github.com/jakechorley/lesson-scheduler/pkg/db"
	"github.com/jakechorley/lesson-scheduler/pkg/ingest"
	"github.com/jakechorley/lesson-scheduler/pkg/render"
)

// GenerateOverrides replace configured scheduling values for a single run. Zero fields are ignored.
type GenerateOverrides struct {
	TimeBudget time.Duration
	MaxTrials  int
	Seed       int64
	Workers    int
}

// TimetableResult represents the result of generating a timetable
type TimetableResult struct {
	Outcome *scheduler.RunOutcome

	// LessonDates is nil when no term is configured
	LessonDates map[timegrid.Day][]time.Time

	// RunID is empty when the run was not stored
	RunID string

	// Files lists the exports written to disk
	Files []string
}

// GenerateTimetable loads the inputs, searches for the best timetable and exports it.
//
// The store is optional; when it is nil nothing is persisted. Export files are written for every
// output path set in the config.
func GenerateTimetable(
	ctx context.Context,
	source ingest.Source,
	store db.TimetableStore,
	cfg *config.Config,
	overrides GenerateOverrides,
	observer scheduler.TrialObserver,
	logger *zap.Logger,
) (*TimetableResult, error) {
	logger.Info("Generating timetable")

	inputs, err := ingest.Load(ctx, source, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load inputs: %w", err)
	}
	logger.Debug("Inputs loaded",
		zap.Int("teacher_rows", len(inputs.Teachers)),
		zap.Int("student_rows", len(inputs.Students)))

	term, err := calendar.FromConfig(cfg.Term)
	if err != nil {
		return nil, fmt.Errorf("failed to load term: %w", err)
	}

	controllerCfg := controllerConfig(inputs, cfg.Scheduling, overrides)
	controllerCfg.Observer = observer

	controller, err := scheduler.NewController(controllerCfg, logger)
	if err != nil {
		return nil, err
	}

	outcome, err := controller.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run trials: %w", err)
	}

	result := &TimetableResult{Outcome: outcome}

	if term != nil {
		result.LessonDates, err = term.Schedule(timegrid.Week)
		if err != nil {
			return nil, fmt.Errorf("failed to compute lesson dates: %w", err)
		}
	}

	result.Files, err = exportFiles(outcome.Best, result.LessonDates, cfg.Output, logger)
	if err != nil {
		return nil, err
	}

	if store != nil {
		run, placements := buildRun(outcome, time.Now())
		if err := store.InsertRun(ctx, run, placements); err != nil {
			return nil, fmt.Errorf("failed to store run: %w", err)
		}
		result.RunID = run.ID
		logger.Info("Run stored", zap.String("run_id", run.ID), zap.Int("placements", len(placements)))
	}

	logger.Info("Timetable generated",
		zap.Int("trials", outcome.Trials),
		zap.Int("student_match_percent", outcome.Best.Stats.StudentMatch),
		zap.String("stop_reason", string(outcome.StopReason)))

	return result, nil
}

// controllerConfig merges the configured scheduling values with the run overrides
func controllerConfig(inputs *ingest.Inputs, scheduling config.Scheduling, overrides GenerateOverrides) scheduler.ControllerConfig {
	cfg := scheduler.ControllerConfig{
		Teachers: inputs.Teachers,
		Students: inputs.Students,
		Options: scheduler.Options{
			ExclusivePreferredTeacher: scheduling.ExclusivePreferredTeacher,
			InstrumentPriority:        scheduling.InstrumentPriority,
		},
		TimeBudget: scheduling.Budget(),
		MaxTrials:  scheduling.MaxTrials,
		Seed:       scheduling.Seed,
		Workers:    scheduling.Workers,
	}

	if overrides.TimeBudget > 0 {
		cfg.TimeBudget = overrides.TimeBudget
	}
	if overrides.MaxTrials > 0 {
		cfg.MaxTrials = overrides.MaxTrials
	}
	if overrides.Seed != 0 {
		cfg.Seed = overrides.Seed
	}
	if overrides.Workers > 0 {
		cfg.Workers = overrides.Workers
	}

	return cfg
}

// exportFiles writes the configured CSV and PDF exports of the best trial
func exportFiles(best *scheduler.TrialResult, dates map[timegrid.Day][]time.Time, output config.Output, logger *zap.Logger) ([]string, error) {
	var written []string
	dataset := render.PlacementDataset(best.Records, dates)

	if output.TimetableCSV != "" {
		data, err := render.RenderCSV(dataset)
		if err != nil {
			return nil, fmt.Errorf("failed to render csv: %w", err)
		}
		if err := writeFile(output.TimetableCSV, data); err != nil {
			return nil, err
		}
		written = append(written, output.TimetableCSV)
		logger.Info("Timetable CSV written", zap.String("path", output.TimetableCSV))
	}

	if output.TimetablePDF != "" {
		title := fmt.Sprintf("Lesson timetable - %d%% of students placed", best.Stats.StudentMatch)
		data, err := render.RenderPDF(dataset, title)
		if err != nil {
			return nil, fmt.Errorf("failed to render pdf: %w", err)
		}
		if err := writeFile(output.TimetablePDF, data); err != nil {
			return nil, err
		}
		written = append(written, output.TimetablePDF)
		logger.Info("Timetable PDF written", zap.String("path", output.TimetablePDF))
	}

	return written, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// buildRun converts the outcome of a search into database records
func buildRun(outcome *scheduler.RunOutcome, now time.Time) (*db.Run, []db.Placement) {
	best := outcome.Best
	run := &db.Run{
		ID:                 uuid.New().String(),
		CreatedAt:          now,
		Seed:               outcome.Seed,
		Trials:             outcome.Trials,
		StopReason:         string(outcome.StopReason),
		BestTrialID:        best.ID.String(),
		StudentMatch:       best.Stats.StudentMatch,
		TeacherUtilization: best.Stats.TeacherUtilization,
	}

	placements := make([]db.Placement, 0, len(best.Records))
	for _, record := range best.Records {
		p := db.Placement{
			ID:          uuid.New().String(),
			RunID:       run.ID,
			StudentName: record.StudentName,
			Instrument:  record.Instrument,
			Assigned:    record.Assigned,
			Forced:      record.Forced,
			SiblingName: record.SiblingName,
		}
		if record.Assigned {
			p.Teacher = record.Teacher
			p.Day = record.Day.String()
			p.StartTime = record.Start.String()
			p.EndTime = record.End.String()
			p.Location = record.Location
			p.IdealWindow = record.IdealWindow
			p.PreferredTeacher = record.PreferredTeacher
			p.PreferredLocation = record.PreferredLocation
		}
		placements = append(placements, p)
	}

	return run, placements
}
