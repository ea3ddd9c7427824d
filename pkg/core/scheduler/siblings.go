package scheduler

import (
	"go.uber.org/zap"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

// siblingShifts are the sibling alignments tried for different instruments, in quarter-hours
var siblingShifts = []int{0, -1, 1}

// pairPlacement is an atomic placement of two siblings
type pairPlacement struct {
	first  *placement
	second *placement
}

// placeSiblings tries to place a student and their sibling as one atomic pair.
// Returns false with no side effects when no pairing satisfies every constraint.
func (e *Engine) placeSiblings(student, sibling *model.Student) bool {
	var pair *pairPlacement
	if nameKey(student.Instrument) == nameKey(sibling.Instrument) {
		pair = e.findConsecutive(student, sibling)
	} else {
		pair = e.findOffset(student, sibling)
	}
	if pair == nil {
		return false
	}

	first := e.commit(student, pair.first)
	first.SiblingPaired = true
	first.SiblingName = sibling.Name
	e.record(student, first)

	second := e.commit(sibling, pair.second)
	second.SiblingPaired = true
	second.SiblingName = student.Name
	e.record(sibling, second)

	e.logger.Debug("Siblings placed together",
		zap.String("student", student.Name),
		zap.String("sibling", sibling.Name),
		zap.String("teacher", first.Teacher))

	return true
}

// findConsecutive looks for back-to-back blocks with a single teacher: the student's block at one of
// their candidate starts, then the sibling's block starting as soon as it ends.
func (e *Engine) findConsecutive(student, sibling *model.Student) *pairPlacement {
	quartersA := timegrid.QuartersFor(student.LessonMinutes)
	quartersB := timegrid.QuartersFor(sibling.LessonMinutes)
	teachers := e.sharedTeachers(student, sibling)

	for _, offer := range NormalizeDemand(student) {
		for _, start := range offer.Starts {
			blockA := timegrid.Block(offer.Day, start, quartersA)
			blockB := timegrid.Block(offer.Day, start.Add(quartersA), quartersB)

			for _, teacher := range teachers {
				if !teacher.WorksOn(offer.Day) {
					continue
				}
				schedule := e.timetable.Schedule(teacher.Name)
				if schedule == nil {
					continue
				}
				if !schedule.BlockAvailable(blockA) || !schedule.BlockAvailable(blockB) {
					continue
				}
				if !BreaksPreserved(schedule, blockA, blockB) {
					continue
				}

				return &pairPlacement{
					first:  &placement{schedule: schedule, day: offer.Day, start: start, block: blockA},
					second: &placement{schedule: schedule, day: offer.Day, start: start.Add(quartersA), block: blockB},
				}
			}
		}
	}

	return nil
}

// findOffset looks for overlapping lessons of siblings learning different instruments. The sibling
// starts at the same time as the student, one quarter-hour earlier or one later, with any
// combination of qualifying teachers.
func (e *Engine) findOffset(student, sibling *model.Student) *pairPlacement {
	quartersA := timegrid.QuartersFor(student.LessonMinutes)
	quartersB := timegrid.QuartersFor(sibling.LessonMinutes)
	teachersA := e.placeableTeachers(student)
	teachersB := e.placeableTeachers(sibling)

	for _, offer := range NormalizeDemand(student) {
		for _, start := range offer.Starts {
			blockA := timegrid.Block(offer.Day, start, quartersA)

			for _, shift := range siblingShifts {
				startB := start.Add(shift)
				if startB < 0 {
					continue
				}
				blockB := timegrid.Block(offer.Day, startB, quartersB)

				for _, teacherA := range teachersA {
					scheduleA := e.daySchedule(teacherA, offer.Day)
					if scheduleA == nil || !scheduleA.BlockAvailable(blockA) {
						continue
					}

					for _, teacherB := range teachersB {
						scheduleB := e.daySchedule(teacherB, offer.Day)
						if scheduleB == nil || !scheduleB.BlockAvailable(blockB) {
							continue
						}
						if !pairBreaksPreserved(scheduleA, blockA, scheduleB, blockB) {
							continue
						}

						return &pairPlacement{
							first:  &placement{schedule: scheduleA, day: offer.Day, start: start, block: blockA},
							second: &placement{schedule: scheduleB, day: offer.Day, start: startB, block: blockB},
						}
					}
				}
			}
		}
	}

	return nil
}

// pairBreaksPreserved checks both teachers' breaks. When both blocks land with the same teacher
// they must not overlap and the breaks are checked against their union.
func pairBreaksPreserved(scheduleA *TeacherSchedule, blockA []timegrid.Slot, scheduleB *TeacherSchedule, blockB []timegrid.Slot) bool {
	if scheduleA == scheduleB {
		if overlaps(blockA, blockB) {
			return false
		}
		return BreaksPreserved(scheduleA, blockA, blockB)
	}
	return BreaksPreserved(scheduleA, blockA) && BreaksPreserved(scheduleB, blockB)
}

// sharedTeachers returns the student's candidates that can also take the sibling
func (e *Engine) sharedTeachers(student, sibling *model.Student) []*model.Teacher {
	shared := []*model.Teacher{}
	for _, teacher := range e.placeableTeachers(student) {
		if eligible(sibling, teacher) && LocationCompatible(sibling, teacher) {
			shared = append(shared, teacher)
		}
	}
	return shared
}

// placeableTeachers returns the candidate teachers the student can reach
func (e *Engine) placeableTeachers(student *model.Student) []*model.Teacher {
	placeable := []*model.Teacher{}
	for _, teacher := range CandidateTeachers(student, e.teachers, e.options.ExclusivePreferredTeacher) {
		if LocationCompatible(student, teacher) {
			placeable = append(placeable, teacher)
		}
	}
	return placeable
}

// daySchedule returns the teacher's schedule if the teacher works on the day
func (e *Engine) daySchedule(teacher *model.Teacher, day timegrid.Day) *TeacherSchedule {
	if !teacher.WorksOn(day) {
		return nil
	}
	return e.timetable.Schedule(teacher.Name)
}

func overlaps(a, b []timegrid.Slot) bool {
	seen := make(map[timegrid.Slot]bool, len(a))
	for _, slot := range a {
		seen[slot] = true
	}
	for _, slot := range b {
		if seen[slot] {
			return true
		}
	}
	return false
}
