package scheduler

import (
	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

// Test fixtures shared by the scheduler tests

func clock(hour, minute int) timegrid.Clock {
	return timegrid.Clock(hour*60 + minute)
}

func qh(hour, minute int) timegrid.QuarterHour {
	return clock(hour, minute).Floor()
}

func slot(day timegrid.Day, hour, minute int) timegrid.Slot {
	return timegrid.Slot{Day: day, Time: qh(hour, minute)}
}

func teacherRow(name, instrument string, day timegrid.Day, startHour, endHour int) model.TeacherRow {
	return model.TeacherRow{
		Name:               name,
		Instruments:        []string{instrument},
		Location:           "centre",
		Day:                day,
		Start:              qh(startHour, 0),
		End:                qh(endHour, 0),
		AcceptsNewStudents: true,
	}
}

func mustTeachers(rows ...model.TeacherRow) []*model.Teacher {
	teachers, err := GroupTeachers(rows)
	if err != nil {
		panic(err)
	}
	return teachers
}

func pianoStudent(name string, day timegrid.Day, from, to timegrid.Clock) *model.Student {
	return &model.Student{
		Name:          name,
		Instrument:    "piano",
		Location:      "centre",
		LessonMinutes: 30,
		WantsLesson:   true,
		Ideal:         &model.Window{Day: day, Start: from, End: to},
	}
}

func recordFor(records []model.StudentRecord, name string) (model.StudentRecord, bool) {
	for _, record := range records {
		if record.StudentName == name {
			return record, true
		}
	}
	return model.StudentRecord{}, false
}

// occupiedBy returns the slots of the schedule held by the named student
func occupiedBy(schedule *TeacherSchedule, name string) []timegrid.Slot {
	var slots []timegrid.Slot
	for _, s := range schedule.Slots() {
		if a := schedule.At(s); a != nil && a.StudentName == name {
			slots = append(slots, s)
		}
	}
	return slots
}
