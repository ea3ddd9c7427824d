package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/lesson-scheduler/internal/config"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

// DateLayout is the layout used for lesson dates in exports
const DateLayout = "2006-01-02"

var weekdays = map[timegrid.Day]rrule.Weekday{
	timegrid.Monday:    rrule.MO,
	timegrid.Tuesday:   rrule.TU,
	timegrid.Wednesday: rrule.WE,
	timegrid.Thursday:  rrule.TH,
	timegrid.Friday:    rrule.FR,
	timegrid.Saturday:  rrule.SA,
	timegrid.Sunday:    rrule.SU,
}

// Term is a teaching term. Every weekly lesson happens on each matching date of the term
// except the excluded ones.
type Term struct {
	Start      time.Time
	End        time.Time
	Exclusions []time.Time

	// RRule replaces the default weekly recurrence, e.g. "FREQ=WEEKLY;INTERVAL=2".
	// The lesson weekday always overrides any BYDAY part.
	RRule string
}

// FromConfig parses the configured term. Returns nil when no term is configured.
func FromConfig(cfg *config.Term) (*Term, error) {
	if cfg == nil {
		return nil, nil
	}

	start, err := time.Parse(config.DateLayout, cfg.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to parse term start: %w", err)
	}
	end, err := time.Parse(config.DateLayout, cfg.End)
	if err != nil {
		return nil, fmt.Errorf("failed to parse term end: %w", err)
	}

	exclusions := make([]time.Time, 0, len(cfg.Exclusions))
	for _, value := range cfg.Exclusions {
		date, err := time.Parse(config.DateLayout, value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse term exclusion %q: %w", value, err)
		}
		exclusions = append(exclusions, date)
	}

	return &Term{
		Start:      start,
		End:        end,
		Exclusions: exclusions,
		RRule:      cfg.RRule,
	}, nil
}

// LessonDates returns the term dates of a weekly lesson held on day, in ascending order
func (t *Term) LessonDates(day timegrid.Day) ([]time.Time, error) {
	weekday, ok := weekdays[day]
	if !ok {
		return nil, fmt.Errorf("unknown day %q", day)
	}

	opt := &rrule.ROption{Freq: rrule.WEEKLY}
	if t.RRule != "" {
		parsed, err := rrule.StrToROption(t.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse term rrule: %w", err)
		}
		opt = parsed
	}
	opt.Dtstart = t.Start
	opt.Byweekday = []rrule.Weekday{weekday}
	if opt.Until.IsZero() && opt.Count == 0 {
		opt.Until = t.End
	}

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build lesson rule: %w", err)
	}

	set := &rrule.Set{}
	set.RRule(rule)
	for _, excluded := range t.Exclusions {
		set.ExDate(excluded)
	}

	return set.Between(t.Start, t.End, true), nil
}

// Schedule returns the lesson dates for each of the given days.
// Days that appear more than once are computed once.
func (t *Term) Schedule(days []timegrid.Day) (map[timegrid.Day][]time.Time, error) {
	dates := make(map[timegrid.Day][]time.Time, len(days))
	for _, day := range days {
		if _, done := dates[day]; done {
			continue
		}
		occurrences, err := t.LessonDates(day)
		if err != nil {
			return nil, err
		}
		dates[day] = occurrences
	}
	return dates, nil
}
