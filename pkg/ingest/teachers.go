package ingest

import (
	"fmt"
	"strings"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

// rawTeacher is one row of the teacher table
type rawTeacher struct {
	Name        string `mapstructure:"teacher_name" validate:"required"`
	Instrument  string `mapstructure:"instrument" validate:"required"`
	Location    string `mapstructure:"location"`
	Day         string `mapstructure:"day" validate:"required"`
	StartTime   string `mapstructure:"start_time" validate:"required"`
	EndTime     string `mapstructure:"end_time" validate:"required"`
	Break1Start string `mapstructure:"start_break_1"`
	Break1End   string `mapstructure:"end_break_1"`
	Break1Len   int    `mapstructure:"length_break_1" validate:"min=0"`
	Break2Start string `mapstructure:"start_break_2"`
	Break2End   string `mapstructure:"end_break_2"`
	Break2Len   int    `mapstructure:"length_break_2" validate:"min=0"`
	AcceptsNew  bool   `mapstructure:"accept_new_student"`
}

// ParseTeachers converts teacher table rows into teacher rows for the scheduler.
// Instruments may be separated by commas, semicolons or slashes.
func ParseTeachers(rows []Row) ([]model.TeacherRow, error) {
	teachers := make([]model.TeacherRow, 0, len(rows))

	for i, row := range rows {
		var raw rawTeacher
		if err := decodeRow(row, &raw); err != nil {
			return nil, fmt.Errorf("invalid teacher row %d: %w", i+1, err)
		}

		teacher, err := raw.toModel()
		if err != nil {
			return nil, fmt.Errorf("invalid teacher row %d (%s): %w", i+1, raw.Name, err)
		}
		teachers = append(teachers, teacher)
	}

	return teachers, nil
}

func (r rawTeacher) toModel() (model.TeacherRow, error) {
	day, ok := timegrid.ParseDay(r.Day)
	if !ok {
		return model.TeacherRow{}, fmt.Errorf("unknown day %q", r.Day)
	}

	start, err := timegrid.ParseClock(r.StartTime)
	if err != nil {
		return model.TeacherRow{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := timegrid.ParseClock(r.EndTime)
	if err != nil {
		return model.TeacherRow{}, fmt.Errorf("invalid end time: %w", err)
	}

	breaks := make([]model.BreakWindow, 0, 2)
	for _, b := range []struct {
		start, end string
		minutes    int
	}{
		{r.Break1Start, r.Break1End, r.Break1Len},
		{r.Break2Start, r.Break2End, r.Break2Len},
	} {
		window, declared, err := parseBreak(b.start, b.end, b.minutes)
		if err != nil {
			return model.TeacherRow{}, err
		}
		if declared {
			breaks = append(breaks, window)
		}
	}

	return model.TeacherRow{
		Name:               strings.TrimSpace(r.Name),
		Instruments:        splitInstruments(r.Instrument),
		Location:           normalizeWord(r.Location),
		Day:                day,
		Start:              start.Ceil(),
		End:                end.Floor(),
		Breaks:             breaks,
		AcceptsNewStudents: r.AcceptsNew,
	}, nil
}

// parseBreak returns declared=false when any of the three break fields is blank
func parseBreak(startValue, endValue string, minutes int) (model.BreakWindow, bool, error) {
	if startValue == "" || endValue == "" || minutes == 0 {
		return model.BreakWindow{}, false, nil
	}

	start, err := timegrid.ParseClock(startValue)
	if err != nil {
		return model.BreakWindow{}, false, fmt.Errorf("invalid break start: %w", err)
	}
	end, err := timegrid.ParseClock(endValue)
	if err != nil {
		return model.BreakWindow{}, false, fmt.Errorf("invalid break end: %w", err)
	}

	return model.BreakWindow{
		Start:       start.Ceil(),
		End:         end.Floor(),
		MinQuarters: timegrid.QuartersFor(minutes),
	}, true, nil
}

func splitInstruments(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';' || r == '/'
	})

	instruments := make([]string, 0, len(fields))
	for _, field := range fields {
		instrument := normalizeWord(field)
		if instrument != "" {
			instruments = append(instruments, instrument)
		}
	}
	return instruments
}

// normalizeWord trims and lowercases categorical values (instruments, locations)
func normalizeWord(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
