package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is the canonical, title-cased name of a day of the week.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists every weekday in display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var (
	// ErrInvalidWeekday is returned for names outside the seven weekdays.
	ErrInvalidWeekday = errors.New("invalid day of week")
	// ErrInvalidClock is returned for clock values that are not HH:MM within 00:00-23:59.
	ErrInvalidClock = errors.New("invalid clock time")
	// ErrInvalidTimeRange is returned when a slot does not start strictly before it ends.
	ErrInvalidTimeRange = errors.New("start time must be before end time")
)

// ParseWeekday resolves a weekday name case-insensitively.
func ParseWeekday(raw string) (Weekday, error) {
	value := strings.TrimSpace(raw)
	for _, day := range Weekdays {
		if strings.EqualFold(string(day), value) {
			return day, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, raw)
}

// WeekdayOf returns the weekday of t.
func WeekdayOf(t time.Time) Weekday {
	return Weekdays[(int(t.Weekday())+6)%7]
}

// Index returns the position of the weekday in Weekdays, or -1.
func (d Weekday) Index() int {
	for i, day := range Weekdays {
		if day == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the canonical weekday names.
func (d Weekday) Valid() bool {
	return d.Index() >= 0
}

// ClockTime is a minute-of-day value in the range 0..1439.
type ClockTime int

const minutesPerDay = 24 * 60

// ParseClock parses an "HH:MM" string into minutes since midnight.
func ParseClock(raw string) (ClockTime, error) {
	value := strings.TrimSpace(raw)
	parts := strings.Split(value, ":")
	if len(parts) != 2 || !twoDigits(parts[0]) || !twoDigits(parts[1]) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return ClockTime(hours*60 + minutes), nil
}

func twoDigits(part string) bool {
	if len(part) != 2 {
		return false
	}
	for i := 0; i < len(part); i++ {
		if part[i] < '0' || part[i] > '9' {
			return false
		}
	}
	return true
}

// Valid reports whether the value lies within a single day.
func (c ClockTime) Valid() bool {
	return c >= 0 && c < minutesPerDay
}

// String formats the value as HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// TimeSlot is a weekly recurring half-open interval [Start, End) on a single day.
type TimeSlot struct {
	Day   Weekday
	Start ClockTime
	End   ClockTime
}

// NewTimeSlot parses the raw values and rejects malformed or empty intervals.
func NewTimeSlot(day, start, end string) (TimeSlot, error) {
	weekday, err := ParseWeekday(day)
	if err != nil {
		return TimeSlot{}, err
	}
	from, err := ParseClock(start)
	if err != nil {
		return TimeSlot{}, err
	}
	to, err := ParseClock(end)
	if err != nil {
		return TimeSlot{}, err
	}
	slot := TimeSlot{Day: weekday, Start: from, End: to}
	if !slot.IsWellFormed() {
		return TimeSlot{}, fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, from, to)
	}
	return slot, nil
}

// IsWellFormed reports whether both bounds are in range and Start < End.
func (s TimeSlot) IsWellFormed() bool {
	return s.Day.Valid() && s.Start.Valid() && s.End.Valid() && s.Start < s.End
}

// Overlaps reports whether both slots fall on the same day and their intervals intersect.
// Slots that only touch at a boundary do not overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	if s.Day != other.Day {
		return false
	}
	return s.Start < other.End && other.Start < s.End
}

// Duration returns the slot length in minutes.
func (s TimeSlot) Duration() int {
	return int(s.End - s.Start)
}
