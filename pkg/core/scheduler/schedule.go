package scheduler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

// TeacherSchedule maps every slot of a teacher's declared hours to its assignment.
// Free slots hold nil. Slots outside the declared hours are absent.
type TeacherSchedule struct {
	Teacher *model.Teacher

	slots map[timegrid.Slot]*model.Assignment

	// order keeps slots in declaration order (day rows, then time) for rendering
	order []timegrid.Slot
}

func newTeacherSchedule(teacher *model.Teacher) *TeacherSchedule {
	schedule := &TeacherSchedule{
		Teacher: teacher,
		slots:   make(map[timegrid.Slot]*model.Assignment),
		order:   []timegrid.Slot{},
	}

	for _, wd := range teacher.Days {
		for _, q := range timegrid.Range(wd.Start, wd.End) {
			slot := timegrid.Slot{Day: wd.Day, Time: q}
			if _, exists := schedule.slots[slot]; exists {
				continue
			}
			schedule.slots[slot] = nil
			schedule.order = append(schedule.order, slot)
		}
	}

	return schedule
}

// Has returns true if the slot belongs to the teacher's declared hours
func (ts *TeacherSchedule) Has(slot timegrid.Slot) bool {
	_, ok := ts.slots[slot]
	return ok
}

// At returns the assignment in the slot, or nil if the slot is free or absent
func (ts *TeacherSchedule) At(slot timegrid.Slot) *model.Assignment {
	return ts.slots[slot]
}

// IsFree returns true if the slot exists and holds no assignment
func (ts *TeacherSchedule) IsFree(slot timegrid.Slot) bool {
	assignment, ok := ts.slots[slot]
	return ok && assignment == nil
}

// BlockAvailable returns true if every slot of the block exists and is free.
// Missing slots (e.g. past the teacher's end time) count as unavailable.
func (ts *TeacherSchedule) BlockAvailable(block []timegrid.Slot) bool {
	if len(block) == 0 {
		return false
	}
	for _, slot := range block {
		if !ts.IsFree(slot) {
			return false
		}
	}
	return true
}

// assign writes the assignment into every existing slot of the block.
// Returns the slots that were not part of the grid.
func (ts *TeacherSchedule) assign(block []timegrid.Slot, assignment *model.Assignment) []timegrid.Slot {
	var missing []timegrid.Slot
	for _, slot := range block {
		if !ts.Has(slot) {
			missing = append(missing, slot)
			continue
		}
		ts.slots[slot] = assignment
	}
	return missing
}

// Slots returns the teacher's slots in declaration order
func (ts *TeacherSchedule) Slots() []timegrid.Slot {
	return slices.Clone(ts.order)
}

// Len returns the number of declared slots
func (ts *TeacherSchedule) Len() int {
	return len(ts.order)
}

// OccupiedCount returns the number of slots holding an assignment
func (ts *TeacherSchedule) OccupiedCount() int {
	count := 0
	for _, assignment := range ts.slots {
		if assignment != nil {
			count++
		}
	}
	return count
}

// with returns a read-only view of the schedule in which the given blocks are already occupied
func (ts *TeacherSchedule) with(blocks ...[]timegrid.Slot) hypothetical {
	pending := make(map[timegrid.Slot]bool)
	for _, block := range blocks {
		for _, slot := range block {
			pending[slot] = true
		}
	}
	return hypothetical{schedule: ts, pending: pending}
}

// hypothetical answers slot questions for a tentative placement without touching the real schedule
type hypothetical struct {
	schedule *TeacherSchedule
	pending  map[timegrid.Slot]bool
}

func (h hypothetical) occupied(slot timegrid.Slot) bool {
	return h.pending[slot] || h.schedule.At(slot) != nil
}

// Timetable holds one fresh TeacherSchedule per teacher for a single trial
type Timetable struct {
	// Schedules are kept in teacher table order
	Schedules []*TeacherSchedule

	byName map[string]*TeacherSchedule
}

// BuildTimetable creates an empty grid for every teacher
func BuildTimetable(teachers []*model.Teacher) *Timetable {
	tt := &Timetable{
		Schedules: make([]*TeacherSchedule, 0, len(teachers)),
		byName:    make(map[string]*TeacherSchedule, len(teachers)),
	}
	for _, teacher := range teachers {
		schedule := newTeacherSchedule(teacher)
		tt.Schedules = append(tt.Schedules, schedule)
		tt.byName[nameKey(teacher.Name)] = schedule
	}
	return tt
}

// Schedule returns the schedule for the named teacher, or nil if there is none
func (tt *Timetable) Schedule(name string) *TeacherSchedule {
	return tt.byName[nameKey(name)]
}

// GroupTeachers turns teacher table rows into teacher identities.
//
// Rows sharing a name are merged: each row contributes a working day, instruments are unioned,
// and location plus the new-student flag are taken from the first row.
// Teachers keep the order in which they first appear in the table.
//
// Returns a ConfigurationError if any row's end time precedes its start time.
func GroupTeachers(rows []model.TeacherRow) ([]*model.Teacher, error) {
	teachers := make([]*model.Teacher, 0)
	byName := make(map[string]*model.Teacher)

	for _, row := range rows {
		if row.End < row.Start {
			return nil, &ConfigurationError{
				Subject: row.Name,
				Reason:  fmt.Sprintf("end time %s precedes start time %s on %s", row.End, row.Start, row.Day),
			}
		}

		key := nameKey(row.Name)
		teacher, exists := byName[key]
		if !exists {
			teacher = &model.Teacher{
				Name:               row.Name,
				Location:           row.Location,
				AcceptsNewStudents: row.AcceptsNewStudents,
			}
			byName[key] = teacher
			teachers = append(teachers, teacher)
		}

		for _, instrument := range row.Instruments {
			if !teacher.Teaches(instrument) {
				teacher.Instruments = append(teacher.Instruments, instrument)
			}
		}

		teacher.Days = append(teacher.Days, model.WorkingDay{
			Day:    row.Day,
			Start:  row.Start,
			End:    row.End,
			Breaks: slices.Clone(row.Breaks),
		})
	}

	return teachers, nil
}

// nameKey normalizes person names for lookups
func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
