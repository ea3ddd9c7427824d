package timegrid

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerQuarter is the width of one slot
const MinutesPerQuarter = 15

// QuartersPerDay is the number of slots between midnight and midnight
const QuartersPerDay = 24 * 60 / MinutesPerQuarter

// Clock is a wall-clock time expressed in minutes since midnight.
// It exists only at the input boundary; everything inside the engine works on QuarterHour.
type Clock int

// QuarterHour counts 15-minute increments from midnight
type QuarterHour int

// ParseClock parses a wall-clock time.
//
// Accepted forms:
//   - "HH:MM" and "H:MM"
//   - "HH:MM:SS" (seconds are discarded)
//   - "19h30" and "19h"
//
// "24:00" is accepted so that a working window may end at midnight.
func ParseClock(value string) (Clock, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return 0, fmt.Errorf("empty time value")
	}

	var hourPart, minutePart string
	switch {
	case strings.Contains(s, ":"):
		parts := strings.Split(s, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return 0, fmt.Errorf("invalid time %q", value)
		}
		hourPart, minutePart = parts[0], parts[1]
	case strings.Contains(s, "h"):
		hourPart, minutePart, _ = strings.Cut(s, "h")
		if minutePart == "" {
			minutePart = "0"
		}
	default:
		return 0, fmt.Errorf("invalid time %q", value)
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", value, err)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", value, err)
	}

	if minute < 0 || minute > 59 || hour < 0 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("time out of range: %q", value)
	}

	return Clock(hour*60 + minute), nil
}

// Ceil rounds the clock up to the next quarter-hour boundary (unchanged if already on one)
func (c Clock) Ceil() QuarterHour {
	return QuarterHour((int(c) + MinutesPerQuarter - 1) / MinutesPerQuarter)
}

// Floor rounds the clock down to the previous quarter-hour boundary
func (c Clock) Floor() QuarterHour {
	return QuarterHour(int(c) / MinutesPerQuarter)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Add returns the quarter-hour n increments later (n may be negative)
func (q QuarterHour) Add(n int) QuarterHour {
	return q + QuarterHour(n)
}

// Minutes returns the number of minutes since midnight
func (q QuarterHour) Minutes() int {
	return int(q) * MinutesPerQuarter
}

// String formats the quarter-hour as "HH:MM"
func (q QuarterHour) String() string {
	return Clock(q.Minutes()).String()
}

// Range returns the ordered quarter-hours covering [start, end)
func Range(start, end QuarterHour) []QuarterHour {
	if end <= start {
		return []QuarterHour{}
	}
	out := make([]QuarterHour, 0, int(end-start))
	for q := start; q < end; q++ {
		out = append(out, q)
	}
	return out
}

// QuartersFor converts a duration in minutes to the number of slots it occupies, rounding up
func QuartersFor(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return (minutes + MinutesPerQuarter - 1) / MinutesPerQuarter
}

// Slot is one (day, quarter-hour) cell of a weekly grid
type Slot struct {
	Day  Day
	Time QuarterHour
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s", s.Day, s.Time)
}

// Block returns the contiguous run of length slots on day starting at start
func Block(day Day, start QuarterHour, length int) []Slot {
	if length <= 0 {
		return []Slot{}
	}
	block := make([]Slot, length)
	for i := range length {
		block[i] = Slot{Day: day, Time: start.Add(i)}
	}
	return block
}
