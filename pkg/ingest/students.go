package ingest

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

// DefaultLessonMinutes is used when the lesson duration cell is blank
const DefaultLessonMinutes = 30

// rawStudent is one row of the student registration table
type rawStudent struct {
	Name             string `mapstructure:"student_name" validate:"required"`
	Instrument       string `mapstructure:"instrument" validate:"required"`
	Location         string `mapstructure:"location"`
	CanRelocate      bool   `mapstructure:"can_be_realocated"`
	LessonDuration   int    `mapstructure:"lesson_duration"`
	WantLesson       bool   `mapstructure:"want_lesson"`
	CurrentStudent   bool   `mapstructure:"current_student"`
	PreferredTeacher string `mapstructure:"preferred_teacher"`

	IdealDay   string `mapstructure:"ideal_day"`
	IdealStart string `mapstructure:"ideal_start_time"`
	IdealEnd   string `mapstructure:"ideal_end_time"`

	AltDay1   string `mapstructure:"alternative_day_1"`
	AltStart1 string `mapstructure:"alternative_start_time_1"`
	AltEnd1   string `mapstructure:"alternative_end_time_1"`
	AltDay2   string `mapstructure:"alternative_day_2"`
	AltStart2 string `mapstructure:"alternative_start_time_2"`
	AltEnd2   string `mapstructure:"alternative_end_time_2"`
	AltDay3   string `mapstructure:"alternative_day_3"`
	AltStart3 string `mapstructure:"alternative_start_time_3"`
	AltEnd3   string `mapstructure:"alternative_end_time_3"`

	SimultaneousFamily bool   `mapstructure:"simultaneous_family_class"`
	SiblingName        string `mapstructure:"sibling_name"`

	ForcedTeacher  string `mapstructure:"assigned_teacher"`
	ForcedDay      string `mapstructure:"assigned_day"`
	ForcedStart    string `mapstructure:"assigned_start_time"`
	ForcedDuration int    `mapstructure:"assigned_duration"`
}

// ParseStudents converts registration rows into students.
//
// Windows with a missing or unknown day, or a missing or invalid time, are dropped with a warning.
// Forced fields are only used when teacher, day and start are all present and valid; a blank
// forced duration falls back to the lesson duration.
func ParseStudents(rows []Row, logger *zap.Logger) ([]model.Student, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	students := make([]model.Student, 0, len(rows))
	for i, row := range rows {
		var raw rawStudent
		if err := decodeRow(row, &raw); err != nil {
			return nil, fmt.Errorf("invalid student row %d: %w", i+1, err)
		}
		students = append(students, raw.toModel(logger))
	}

	return students, nil
}

func (r rawStudent) toModel(logger *zap.Logger) model.Student {
	name := strings.TrimSpace(r.Name)
	logger = logger.With(zap.String("student", name))

	minutes := r.LessonDuration
	if minutes == 0 {
		minutes = DefaultLessonMinutes
	}

	student := model.Student{
		Name:               name,
		Instrument:         normalizeWord(r.Instrument),
		Location:           normalizeWord(r.Location),
		CanRelocate:        r.CanRelocate,
		LessonMinutes:      minutes,
		WantsLesson:        r.WantLesson,
		CurrentStudent:     r.CurrentStudent,
		PreferredTeacher:   strings.TrimSpace(r.PreferredTeacher),
		SimultaneousFamily: r.SimultaneousFamily,
		SiblingName:        strings.TrimSpace(r.SiblingName),
	}

	if ideal, ok := parseWindow(r.IdealDay, r.IdealStart, r.IdealEnd, logger); ok {
		student.Ideal = &ideal
	}

	for _, alt := range [][3]string{
		{r.AltDay1, r.AltStart1, r.AltEnd1},
		{r.AltDay2, r.AltStart2, r.AltEnd2},
		{r.AltDay3, r.AltStart3, r.AltEnd3},
	} {
		if window, ok := parseWindow(alt[0], alt[1], alt[2], logger); ok {
			student.Alternatives = append(student.Alternatives, window)
		}
	}

	student.Forced = r.forced(minutes, logger)

	return student
}

// parseWindow returns ok=false for blank or invalid windows. Only partially filled or invalid
// windows are logged; a fully blank one is simply absent.
func parseWindow(dayValue, startValue, endValue string, logger *zap.Logger) (model.Window, bool) {
	if dayValue == "" && startValue == "" && endValue == "" {
		return model.Window{}, false
	}

	day, ok := timegrid.ParseDay(dayValue)
	if !ok {
		// Form answers such as "Non, pas d'autres possibilités" mean no window
		logger.Debug("Skipping window without a valid day", zap.String("day", dayValue))
		return model.Window{}, false
	}

	start, startErr := timegrid.ParseClock(startValue)
	end, endErr := timegrid.ParseClock(endValue)
	if startErr != nil || endErr != nil {
		logger.Warn("Skipping window with an invalid time",
			zap.String("day", dayValue),
			zap.String("start", startValue),
			zap.String("end", endValue))
		return model.Window{}, false
	}

	return model.Window{Day: day, Start: start, End: end}, true
}

func (r rawStudent) forced(lessonMinutes int, logger *zap.Logger) *model.ForcedPlacement {
	if r.ForcedTeacher == "" && r.ForcedDay == "" && r.ForcedStart == "" {
		return nil
	}

	day, dayOK := timegrid.ParseDay(r.ForcedDay)
	start, startErr := timegrid.ParseClock(r.ForcedStart)
	if r.ForcedTeacher == "" || !dayOK || startErr != nil {
		logger.Warn("Ignoring incomplete forced placement",
			zap.String("forced_teacher", r.ForcedTeacher),
			zap.String("forced_day", r.ForcedDay),
			zap.String("forced_start", r.ForcedStart))
		return nil
	}

	minutes := r.ForcedDuration
	if minutes == 0 {
		minutes = lessonMinutes
	}

	return &model.ForcedPlacement{
		Teacher: strings.TrimSpace(r.ForcedTeacher),
		Day:     day,
		Start:   start,
		Minutes: minutes,
	}
}
