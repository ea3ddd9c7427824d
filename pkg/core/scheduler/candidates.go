package scheduler

import (
	"github.com/samber/lo"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
)

// CandidateTeachers returns the teachers a student may be placed with, in the order they should be tried.
//
// A teacher qualifies when it teaches the student's instrument and either accepts new students
// or the student is a current student.
//
// With a preferred teacher named:
//   - exclusive=false: all qualifying teachers are returned with the preferred one first
//   - exclusive=true: only the preferred teacher is returned (possibly none)
//
// Location is not considered here; see LocationCompatible.
func CandidateTeachers(student *model.Student, teachers []*model.Teacher, exclusive bool) []*model.Teacher {
	candidates := lo.Filter(teachers, func(teacher *model.Teacher, _ int) bool {
		return eligible(student, teacher)
	})

	if student.PreferredTeacher == "" {
		return candidates
	}

	preferred, others := lo.FilterReject(candidates, func(teacher *model.Teacher, _ int) bool {
		return isPreferred(student, teacher)
	})

	if exclusive {
		return preferred
	}
	return append(preferred, others...)
}

// LocationCompatible returns true if the student can take lessons at the teacher's location
func LocationCompatible(student *model.Student, teacher *model.Teacher) bool {
	return student.CanRelocate || student.Location == teacher.Location
}

func eligible(student *model.Student, teacher *model.Teacher) bool {
	if !teacher.Teaches(student.Instrument) {
		return false
	}
	return teacher.AcceptsNewStudents || student.CurrentStudent
}

func isPreferred(student *model.Student, teacher *model.Teacher) bool {
	return student.PreferredTeacher != "" && nameKey(student.PreferredTeacher) == nameKey(teacher.Name)
}
