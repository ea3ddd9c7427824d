package db

import "context"

// TimetableStore defines the interface for exporting timetables.
// postgres.DB implements this interface.
type TimetableStore interface {
	GetRuns(ctx context.Context) ([]Run, error)
	InsertRun(ctx context.Context, run *Run, placements []Placement) error
}
