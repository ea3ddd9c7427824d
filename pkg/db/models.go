package db

import "time"

// Run represents one scheduling run whose best trial was exported
type Run struct {
	ID                 string
	CreatedAt          time.Time
	Seed               int64
	Trials             int
	StopReason         string
	BestTrialID        string
	StudentMatch       int
	TeacherUtilization int
}

// Placement represents the outcome for one student in a run's best trial.
// Teacher, Day, StartTime, EndTime and Location are empty when the student was not assigned.
type Placement struct {
	ID                string
	RunID             string
	StudentName       string
	Instrument        string
	Assigned          bool
	Teacher           string
	Day               string
	StartTime         string
	EndTime           string
	Location          string
	IdealWindow       bool
	PreferredTeacher  bool
	PreferredLocation bool
	Forced            bool
	SiblingName       string
}
