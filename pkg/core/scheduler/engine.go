package scheduler

import (
	"go.uber.org/zap"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

// Options tune how candidates are chosen and ordered
type Options struct {
	// ExclusivePreferredTeacher restricts a student with a preferred teacher to that teacher only.
	// When false the preferred teacher is merely tried first.
	ExclusivePreferredTeacher bool

	// InstrumentPriority ranks instruments for processing order, highest priority first
	InstrumentPriority []string
}

// Engine places students into the teacher grids of a single trial
type Engine struct {
	teachers  []*model.Teacher
	timetable *Timetable
	siblings  map[*model.Student]*model.Student
	options   Options
	logger    *zap.Logger

	processed map[*model.Student]bool
	records   []model.StudentRecord
}

// placement is a candidate block with a specific teacher
type placement struct {
	schedule *TeacherSchedule
	day      timegrid.Day
	start    timegrid.QuarterHour
	block    []timegrid.Slot
}

// NewEngine creates an engine over fresh, empty grids for the given teachers
func NewEngine(teachers []*model.Teacher, siblings map[*model.Student]*model.Student, options Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if siblings == nil {
		siblings = map[*model.Student]*model.Student{}
	}
	return &Engine{
		teachers:  teachers,
		timetable: BuildTimetable(teachers),
		siblings:  siblings,
		options:   options,
		logger:    logger,
		processed: make(map[*model.Student]bool),
		records:   []model.StudentRecord{},
	}
}

// Timetable returns the grids being filled by this engine
func (e *Engine) Timetable() *Timetable {
	return e.timetable
}

// Records returns the outcome of every student processed so far, in processing order
func (e *Engine) Records() []model.StudentRecord {
	return e.records
}

// ApplyForced writes a forced placement without any availability search.
//
// The block is computed from the forced start and duration. Slots outside the teacher's grid are
// skipped. If the block collides with an earlier forced placement the student is recorded as
// unassigned, keeping every slot to a single assignment.
func (e *Engine) ApplyForced(student *model.Student) model.StudentRecord {
	forced := student.Forced
	schedule := e.timetable.Schedule(forced.Teacher)
	if schedule == nil {
		// References are resolved before trials run, so this only happens for unresolved input
		e.logger.Debug("Forced teacher missing from timetable", zap.String("student", student.Name))
		return e.PlaceStudent(student)
	}

	block := forcedBlock(forced)
	for _, slot := range block {
		if schedule.At(slot) != nil {
			e.logger.Debug("Forced placement collides with an earlier one",
				zap.String("student", student.Name),
				zap.String("slot", slot.String()))
			record := e.unassigned(student)
			record.Forced = true
			return e.record(student, record)
		}
	}

	p := &placement{
		schedule: schedule,
		day:      forced.Day,
		start:    forced.Start.Floor(),
		block:    block,
	}
	record := e.commit(student, p)
	record.Forced = true
	return e.record(student, record)
}

// Process handles one student that has no forced placement.
//
// A student requesting simultaneous-family scheduling whose sibling has not been processed yet
// goes through the sibling coordinator first; if no pairing works both siblings fall back to
// independent placement (the sibling when its own turn comes).
func (e *Engine) Process(student *model.Student) {
	if e.processed[student] {
		return
	}

	if sibling, ok := e.siblings[student]; ok && !e.processed[sibling] {
		if e.placeSiblings(student, sibling) {
			return
		}
		e.logger.Debug("Sibling pairing failed, placing independently",
			zap.String("student", student.Name),
			zap.String("sibling", sibling.Name))
	}

	e.PlaceStudent(student)
}

// PlaceStudent places a single student first-fit and records the outcome
func (e *Engine) PlaceStudent(student *model.Student) model.StudentRecord {
	candidates := CandidateTeachers(student, e.teachers, e.options.ExclusivePreferredTeacher)

	p := e.findPlacement(student, candidates)
	if p == nil {
		return e.record(student, e.unassigned(student))
	}

	return e.record(student, e.commit(student, p))
}

// findPlacement returns the first (teacher, day, start) that satisfies every constraint.
//
// Teachers are tried in candidate order, then days in demand order, then starts ascending.
func (e *Engine) findPlacement(student *model.Student, candidates []*model.Teacher) *placement {
	offers := NormalizeDemand(student)
	quarters := timegrid.QuartersFor(student.LessonMinutes)

	for _, teacher := range candidates {
		schedule := e.timetable.Schedule(teacher.Name)
		if schedule == nil {
			continue
		}

		for _, offer := range offers {
			if !teacher.WorksOn(offer.Day) {
				continue
			}

			for _, start := range offer.Starts {
				block := timegrid.Block(offer.Day, start, quarters)

				if !schedule.BlockAvailable(block) {
					continue
				}
				if !LocationCompatible(student, teacher) {
					continue
				}
				if !BreaksPreserved(schedule, block) {
					continue
				}

				return &placement{schedule: schedule, day: offer.Day, start: start, block: block}
			}
		}
	}

	return nil
}

// commit writes the assignment into the grid and builds the success record
func (e *Engine) commit(student *model.Student, p *placement) model.StudentRecord {
	teacher := p.schedule.Teacher
	assignment := &model.Assignment{
		StudentName:       student.Name,
		Instrument:        student.Instrument,
		Location:          teacher.Location,
		PreferredTeacher:  isPreferred(student, teacher),
		PreferredLocation: teacher.Location == student.Location,
	}

	if missing := p.schedule.assign(p.block, assignment); len(missing) > 0 {
		e.logger.Debug("Placement slots outside teacher hours were skipped",
			zap.String("student", student.Name),
			zap.Int("missing_slots", len(missing)))
	}

	return model.StudentRecord{
		StudentName:       student.Name,
		Instrument:        student.Instrument,
		Assigned:          true,
		Teacher:           teacher.Name,
		Day:               p.day,
		Start:             p.start,
		End:               p.start.Add(len(p.block)),
		Location:          teacher.Location,
		IdealWindow:       inIdealWindow(student, p.day, p.start),
		PreferredTeacher:  assignment.PreferredTeacher,
		PreferredLocation: assignment.PreferredLocation,
		SiblingName:       siblingName(student),
	}
}

func (e *Engine) unassigned(student *model.Student) model.StudentRecord {
	return model.StudentRecord{
		StudentName: student.Name,
		Instrument:  student.Instrument,
		Assigned:    false,
		SiblingName: siblingName(student),
	}
}

func (e *Engine) record(student *model.Student, record model.StudentRecord) model.StudentRecord {
	e.processed[student] = true
	e.records = append(e.records, record)
	return record
}

// siblingName is only reported for students who asked to be scheduled with their sibling
func siblingName(student *model.Student) string {
	if !student.SimultaneousFamily {
		return ""
	}
	return student.SiblingName
}
