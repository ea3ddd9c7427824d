package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/lesson-scheduler/pkg/db"
)

var _ db.TimetableStore = (*DB)(nil)

// GetRuns retrieves all run records, newest first
func (d *DB) GetRuns(ctx context.Context) ([]db.Run, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, created_at, seed, trials, stop_reason, best_trial_id, student_match, teacher_utilization
		FROM run
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []db.Run
	for rows.Next() {
		var r db.Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Seed, &r.Trials, &r.StopReason, &r.BestTrialID, &r.StudentMatch, &r.TeacherUtilization); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// InsertRun inserts a run and its placements in a single transaction
func (d *DB) InsertRun(ctx context.Context, run *db.Run, placements []db.Placement) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO run (id, created_at, seed, trials, stop_reason, best_trial_id, student_match, teacher_utilization)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, run.ID, run.CreatedAt.UTC(), run.Seed, run.Trials, run.StopReason, run.BestTrialID, run.StudentMatch, run.TeacherUtilization)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, p := range placements {
		_, err := tx.Exec(ctx, `
			INSERT INTO placement (
				id, run_id, student_name, instrument, assigned, teacher, day, start_time, end_time,
				location, ideal_window, preferred_teacher, preferred_location, forced, sibling_name
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`, p.ID, p.RunID, p.StudentName, p.Instrument, p.Assigned, nullable(p.Teacher), nullable(p.Day),
			nullable(p.StartTime), nullable(p.EndTime), nullable(p.Location), p.IdealWindow,
			p.PreferredTeacher, p.PreferredLocation, p.Forced, nullable(p.SiblingName))
		if err != nil {
			return fmt.Errorf("failed to insert placement for %s: %w", p.StudentName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// nullable stores empty strings as NULL
func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
