package scheduler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

// References holds the sibling links resolved once before any trial runs
type References struct {
	// Siblings maps a student requesting simultaneous-family scheduling to the named sibling
	Siblings map[*model.Student]*model.Student

	// Warnings lists every unresolvable reference, in input order
	Warnings []string
}

// ValidateStudents returns a ConfigurationError for the first student whose lesson duration
// (or forced duration) is not a positive multiple of 15 minutes
func ValidateStudents(students []model.Student) error {
	for _, student := range students {
		if err := validateMinutes(student.Name, "lesson duration", student.LessonMinutes); err != nil {
			return err
		}
		if student.Forced != nil {
			if err := validateMinutes(student.Name, "forced duration", student.Forced.Minutes); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateMinutes(subject, field string, minutes int) error {
	if minutes <= 0 || minutes%timegrid.MinutesPerQuarter != 0 {
		return &ConfigurationError{
			Subject: subject,
			Reason:  fmt.Sprintf("%s of %d minutes is not a positive multiple of %d", field, minutes, timegrid.MinutesPerQuarter),
		}
	}
	return nil
}

// ResolveReferences checks sibling and forced-teacher references against the batch.
//
// Returns copies of the students in input order. A forced placement naming an unknown teacher
// is dropped from the copy so the student goes through the normal search. Sibling names that
// match no student in the batch are left unlinked. Both cases are logged as warnings and never
// abort the run.
//
// Forced placements that fall outside the teacher's hours or overlap an earlier forced placement
// are also reported; the engine handles them when it applies them.
func ResolveReferences(students []model.Student, teachers []*model.Teacher, logger *zap.Logger) ([]*model.Student, References) {
	if logger == nil {
		logger = zap.NewNop()
	}

	refs := References{
		Siblings: make(map[*model.Student]*model.Student),
		Warnings: []string{},
	}
	warn := func(msg string, fields ...zap.Field) {
		logger.Warn(msg, fields...)
		refs.Warnings = append(refs.Warnings, msg)
	}

	resolved := make([]*model.Student, len(students))
	byName := make(map[string]*model.Student, len(students))
	for i := range students {
		student := students[i]
		resolved[i] = &student
		key := nameKey(student.Name)
		if _, exists := byName[key]; !exists {
			byName[key] = resolved[i]
		}
	}

	timetable := BuildTimetable(teachers)
	forcedOwners := make(map[*TeacherSchedule]map[timegrid.Slot]string)

	for _, student := range resolved {
		if student.Forced != nil {
			schedule := timetable.Schedule(student.Forced.Teacher)
			if schedule == nil {
				warn(fmt.Sprintf("forced teacher %q of student %q not found, searching normally", student.Forced.Teacher, student.Name),
					zap.String("student", student.Name),
					zap.String("forced_teacher", student.Forced.Teacher))
				student.Forced = nil
			} else {
				owners := forcedOwners[schedule]
				if owners == nil {
					owners = make(map[timegrid.Slot]string)
					forcedOwners[schedule] = owners
				}
				block := forcedBlock(student.Forced)
				overlapping := false
				for _, slot := range block {
					if owner, taken := owners[slot]; taken {
						warn(fmt.Sprintf("forced placement of %q overlaps %q at %s", student.Name, owner, slot),
							zap.String("student", student.Name),
							zap.String("other_student", owner))
						overlapping = true
						break
					}
				}
				for _, slot := range block {
					if overlapping {
						break
					}
					if !schedule.Has(slot) {
						warn(fmt.Sprintf("forced slot %s of student %q is outside %q's hours", slot, student.Name, schedule.Teacher.Name),
							zap.String("student", student.Name),
							zap.String("slot", slot.String()))
						continue
					}
					owners[slot] = student.Name
				}
			}
		}

		if !student.SimultaneousFamily || student.SiblingName == "" {
			continue
		}
		sibling, found := byName[nameKey(student.SiblingName)]
		if !found {
			warn(fmt.Sprintf("sibling %q of student %q not found, pairing skipped", student.SiblingName, student.Name),
				zap.String("student", student.Name),
				zap.String("sibling", student.SiblingName))
			continue
		}
		if sibling == student {
			continue
		}
		refs.Siblings[student] = sibling
	}

	return resolved, refs
}

// forcedBlock computes the slots of a forced placement from its start and duration
func forcedBlock(forced *model.ForcedPlacement) []timegrid.Slot {
	return timegrid.Block(forced.Day, forced.Start.Floor(), timegrid.QuartersFor(forced.Minutes))
}
