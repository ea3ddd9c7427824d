package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
)

// TrialResult is the snapshot of one complete assignment pass
type TrialResult struct {
	ID       uuid.UUID
	Index    int
	Seed     int64
	Shuffled bool

	Timetable *Timetable
	Records   []model.StudentRecord
	Stats     Stats

	// BreakViolations should always be empty; it is computed as a check on the committed grids
	BreakViolations []BreakViolation
}

// BestTrial holds the best trial found so far. Safe for concurrent use.
type BestTrial struct {
	mu     sync.Mutex
	result *TrialResult
}

// ReplaceIfBetter stores the candidate if there is no stored trial yet or its student match
// strictly exceeds the stored one. Returns true if the candidate was stored.
func (b *BestTrial) ReplaceIfBetter(candidate *TrialResult) bool {
	if candidate == nil {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.result != nil && candidate.Stats.StudentMatch <= b.result.Stats.StudentMatch {
		return false
	}
	b.result = candidate
	return true
}

// Get returns the stored trial, or nil before the first trial completes
func (b *BestTrial) Get() *TrialResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result
}

// StudentMatch returns the stored trial's match percentage, or -1 when nothing is stored
func (b *BestTrial) StudentMatch() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.result == nil {
		return -1
	}
	return b.result.Stats.StudentMatch
}

// TrialObserver is notified after every completed trial with the trial's own duration.
// It may be called from several goroutines at once.
type TrialObserver interface {
	ObserveTrial(result *TrialResult, elapsed time.Duration, improved bool)
}

// ControllerConfig configures a search
type ControllerConfig struct {
	Teachers []model.TeacherRow
	Students []model.Student
	Options  Options

	// TimeBudget bounds the wall-clock time of the search. Zero means no time limit.
	TimeBudget time.Duration

	// MaxTrials bounds the number of trials. Zero means unbounded.
	// When both TimeBudget and MaxTrials are zero only the first trial runs.
	MaxTrials int

	// Seed for shuffled trials. Zero derives a seed from the clock.
	Seed int64

	// Workers is the number of trials run concurrently after the first. Defaults to 1.
	Workers int

	Observer TrialObserver
}

// StopReason explains why a search ended
type StopReason string

const (
	StopPerfectMatch StopReason = "perfect_match"
	StopTimeBudget   StopReason = "time_budget"
	StopMaxTrials    StopReason = "max_trials"
	StopCancelled    StopReason = "cancelled"
)

// RunOutcome is the result of a search
type RunOutcome struct {
	Best       *TrialResult
	Trials     int
	Elapsed    time.Duration
	StopReason StopReason
	Seed       int64

	// Warnings lists the unresolvable references found before the first trial
	Warnings []string
}

// Controller repeats trials and keeps the best one
type Controller struct {
	cfg      ControllerConfig
	teachers []*model.Teacher
	students []*model.Student
	refs     References
	logger   *zap.Logger

	best *BestTrial
}

// NewController validates the inputs and resolves references once for all trials.
// Students who do not want a lesson are left out of the batch.
//
// Returns a ConfigurationError for invalid teacher hours or lesson durations.
func NewController(cfg ControllerConfig, logger *zap.Logger) (*Controller, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	teachers, err := GroupTeachers(cfg.Teachers)
	if err != nil {
		return nil, err
	}

	wanting := make([]model.Student, 0, len(cfg.Students))
	for _, student := range cfg.Students {
		if student.WantsLesson {
			wanting = append(wanting, student)
		}
	}

	if err := ValidateStudents(wanting); err != nil {
		return nil, err
	}

	students, refs := ResolveReferences(wanting, teachers, logger)

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Controller{
		cfg:      cfg,
		teachers: teachers,
		students: students,
		refs:     refs,
		logger:   logger,
		best:     &BestTrial{},
	}, nil
}

// Teachers returns the grouped teacher identities
func (c *Controller) Teachers() []*model.Teacher {
	return c.teachers
}

// Students returns the resolved batch
func (c *Controller) Students() []*model.Student {
	return c.students
}

// References returns the resolved sibling links and warnings
func (c *Controller) References() References {
	return c.refs
}

// Best returns the best-trial holder
func (c *Controller) Best() *BestTrial {
	return c.best
}

// RunTrial runs one full assignment pass against fresh grids.
// Trial 0 uses the unshuffled order; trial i shuffles with Seed+i.
func (c *Controller) RunTrial(index int) *TrialResult {
	seed := c.cfg.Seed + int64(index)
	shuffle := index > 0

	ordering := OrderStudents(c.students, c.cfg.Options.InstrumentPriority, shuffle, seed)
	engine := NewEngine(c.teachers, c.refs.Siblings, c.cfg.Options, c.logger)

	for _, student := range ordering.Forced {
		engine.ApplyForced(student)
	}
	for _, student := range ordering.Ordered {
		engine.Process(student)
	}

	timetable := engine.Timetable()
	var violations []BreakViolation
	for _, schedule := range timetable.Schedules {
		violations = append(violations, BreakViolations(schedule)...)
	}

	return &TrialResult{
		ID:              uuid.New(),
		Index:           index,
		Seed:            seed,
		Shuffled:        shuffle,
		Timetable:       timetable,
		Records:         engine.Records(),
		Stats:           ComputeStats(engine.Records(), timetable),
		BreakViolations: violations,
	}
}

// Run repeats trials until the best match reaches 100%, the time budget elapses, the trial limit
// is reached or the context is cancelled. The first trial always runs to completion. Limits are
// only checked between trials.
func (c *Controller) Run(ctx context.Context) (*RunOutcome, error) {
	started := time.Now()
	var deadline time.Time
	if c.cfg.TimeBudget > 0 {
		deadline = started.Add(c.cfg.TimeBudget)
	}

	c.logger.Info("Starting trials",
		zap.Int("teachers", len(c.teachers)),
		zap.Int("students", len(c.students)),
		zap.Int64("seed", c.cfg.Seed),
		zap.Int("workers", c.cfg.Workers),
		zap.Duration("time_budget", c.cfg.TimeBudget))

	c.observe(c.RunTrial(0), time.Since(started))

	var (
		next      atomic.Int64
		completed atomic.Int64
		reasonMu  sync.Mutex
		reason    StopReason
	)
	next.Store(1)
	completed.Store(1)

	stop := func(r StopReason) bool {
		reasonMu.Lock()
		defer reasonMu.Unlock()
		if reason == "" {
			reason = r
		}
		return true
	}

	// shouldStop is evaluated before each trial
	shouldStop := func() bool {
		switch {
		case c.best.StudentMatch() >= 100:
			return stop(StopPerfectMatch)
		case ctx.Err() != nil:
			return stop(StopCancelled)
		case !deadline.IsZero() && !time.Now().Before(deadline):
			return stop(StopTimeBudget)
		case c.cfg.TimeBudget <= 0 && c.cfg.MaxTrials <= 0:
			return stop(StopMaxTrials)
		}
		return false
	}

	var wg sync.WaitGroup
	for range c.cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if shouldStop() {
					return
				}
				index := int(next.Add(1) - 1)
				if c.cfg.MaxTrials > 0 && index >= c.cfg.MaxTrials {
					stop(StopMaxTrials)
					return
				}
				trialStart := time.Now()
				result := c.RunTrial(index)
				c.observe(result, time.Since(trialStart))
				completed.Add(1)
			}
		}()
	}
	wg.Wait()

	outcome := &RunOutcome{
		Best:       c.best.Get(),
		Trials:     int(completed.Load()),
		Elapsed:    time.Since(started),
		StopReason: reason,
		Seed:       c.cfg.Seed,
		Warnings:   c.refs.Warnings,
	}

	c.logger.Info("Trials finished",
		zap.Int("trials", outcome.Trials),
		zap.String("stop_reason", string(outcome.StopReason)),
		zap.Int("student_match_percent", outcome.Best.Stats.StudentMatch),
		zap.Duration("elapsed", outcome.Elapsed))

	return outcome, nil
}

func (c *Controller) observe(result *TrialResult, elapsed time.Duration) {
	improved := c.best.ReplaceIfBetter(result)

	c.logger.Debug("Trial completed",
		zap.Int("trial", result.Index),
		zap.Int64("seed", result.Seed),
		zap.Int("student_match_percent", result.Stats.StudentMatch),
		zap.Int("teacher_utilization_percent", result.Stats.TeacherUtilization))

	if improved {
		c.logger.Info("New best trial",
			zap.Int("trial", result.Index),
			zap.Int("student_match_percent", result.Stats.StudentMatch),
			zap.Int("teacher_utilization_percent", result.Stats.TeacherUtilization))
	}

	if len(result.BreakViolations) > 0 {
		c.logger.Error("Trial committed a break violation",
			zap.Int("trial", result.Index),
			zap.Int("violations", len(result.BreakViolations)))
	}

	if c.cfg.Observer != nil {
		c.cfg.Observer.ObserveTrial(result, elapsed, improved)
	}
}
