package timegrid

import (
	"strings"
	"time"
)

// Day is a weekday name, normalized to lowercase English
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// Week lists the days in calendar order, Monday first
var Week = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Registration forms were filled in either English or French
var dayAliases = map[string]Day{
	"monday": Monday, "mon": Monday, "lundi": Monday,
	"tuesday": Tuesday, "tue": Tuesday, "mardi": Tuesday,
	"wednesday": Wednesday, "wed": Wednesday, "mercredi": Wednesday,
	"thursday": Thursday, "thu": Thursday, "jeudi": Thursday,
	"friday": Friday, "fri": Friday, "vendredi": Friday,
	"saturday": Saturday, "sat": Saturday, "samedi": Saturday,
	"sunday": Sunday, "sun": Sunday, "dimanche": Sunday,
}

// ParseDay normalizes a day name. The second return value is false for unknown names.
func ParseDay(value string) (Day, bool) {
	day, ok := dayAliases[strings.ToLower(strings.TrimSpace(value))]
	return day, ok
}

// Index returns the position of the day in Week, or -1 for an unknown day
func (d Day) Index() int {
	for i, day := range Week {
		if day == d {
			return i
		}
	}
	return -1
}

// Weekday converts the day to the standard library representation
func (d Day) Weekday() time.Weekday {
	idx := d.Index()
	if idx < 0 {
		return time.Sunday
	}
	return time.Weekday((idx + 1) % 7)
}

func (d Day) String() string {
	return string(d)
}
