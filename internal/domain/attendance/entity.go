package attendance

import (
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/pkg/geo"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	// StatusAbsent is never stored; a day without a record is absent.
	StatusAbsent Status = "absent"
)

var StatusValues = []string{
	string(StatusPresent),
	string(StatusLate),
	string(StatusAbsent),
}

// Attendance is one user's record for one calendar day. Date holds the
// civil date at midnight UTC.
type Attendance struct {
	ID               string
	UserID           string
	Date             time.Time
	CheckInTime      *time.Time
	CheckInLocation  *geo.Coordinate
	CheckOutTime     *time.Time
	CheckOutLocation *geo.Coordinate
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO / Join
	UserName  *string
	UserEmail *string
	UserNIM   *string
}

func (a *Attendance) HasCheckedIn() bool {
	return a != nil && a.CheckInTime != nil
}

func (a *Attendance) HasCheckedOut() bool {
	return a != nil && a.CheckOutTime != nil
}

// TodayStatus is the day's progress as shown on the dashboard.
type TodayStatus string

const (
	TodayNotCheckedIn TodayStatus = "not_checked_in"
	TodayCheckedIn    TodayStatus = "checked_in"
	TodayDone         TodayStatus = "done"
)

// CalendarDate maps the civil date of t (in t's location) to midnight UTC,
// the form in which dates are stored and compared.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
