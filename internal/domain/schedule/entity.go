package schedule

import (
	"fmt"
	"time"
)

// Schedule is a weekly recurring session. DayOfWeek follows ISO 8601:
// 1=Monday, ..., 7=Sunday.
type Schedule struct {
	ID        string
	DayOfWeek int
	StartTime TimeOfDay
	EndTime   TimeOfDay
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ISOWeekday returns t's weekday with Monday=1 and Sunday=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

var dayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func DayName(day int) string {
	if day < 1 || day > 7 {
		return ""
	}
	return dayNames[day]
}

// TimeOfDay is a wall-clock time with second precision, stored as seconds
// since midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// TimeOfDayOf extracts the wall-clock part of t in t's own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

// ParseTimeOfDay accepts "15:04" or "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// On returns the instant at which t occurs on the calendar day of date,
// in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, date.Location())
}

// ConflictPolicy decides which schedule wins when several active schedules
// share a weekday.
type ConflictPolicy string

const (
	PolicyEarliestStart ConflictPolicy = "earliest_start"
	PolicyLatestStart   ConflictPolicy = "latest_start"
)

var ConflictPolicyValues = []string{
	string(PolicyEarliestStart),
	string(PolicyLatestStart),
}

func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch ConflictPolicy(s) {
	case PolicyEarliestStart, PolicyLatestStart:
		return ConflictPolicy(s), nil
	case "":
		return PolicyEarliestStart, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidConflictPolicy, s)
}
