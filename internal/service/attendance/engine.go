package attendance

import (
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/setting"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/geo"
	schedulesvc "github.com/cmlabs-hris/campus-attendance/internal/service/schedule"
)

type CheckInInput struct {
	UserID string
	// Date is the calendar day in the form produced by attendance.CalendarDate.
	// Zero means the day of Now.
	Date      time.Time
	Now       time.Time
	Location  geo.Coordinate
	Geofence  *setting.Geofence
	Schedules []schedule.Schedule
}

type CheckOutInput struct {
	Now      time.Time
	Location geo.Coordinate
	Geofence *setting.Geofence
}

// Engine applies the day's state transitions NONE -> CHECKED_IN -> CHECKED_OUT.
// It performs no I/O: existing is the stored record for (user, date) or nil,
// and the returned record is what must be written. existing is never modified.
type Engine struct {
	Resolver schedulesvc.Resolver
}

// CheckIn checks, in order: a geofence is configured, the location is a
// valid coordinate inside it, and the user has not checked in yet.
func (e Engine) CheckIn(existing *attendance.Attendance, in CheckInInput) (attendance.Attendance, error) {
	if err := requireInside(in.Location, in.Geofence); err != nil {
		return attendance.Attendance{}, err
	}

	if existing.HasCheckedIn() {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}

	status := attendance.StatusLate
	if e.Resolver.Classify(in.Now, in.Schedules).OnTime {
		status = attendance.StatusPresent
	}

	var record attendance.Attendance
	if existing != nil {
		record = *existing
	}

	date := in.Date
	if date.IsZero() {
		date = attendance.CalendarDate(in.Now)
	}

	now := in.Now
	location := in.Location
	record.UserID = in.UserID
	record.Date = date
	record.CheckInTime = &now
	record.CheckInLocation = &location
	record.Status = status

	return record, nil
}

// CheckOut checks, in order: a geofence is configured, the location is a
// valid coordinate inside it, the user has checked in, and has not checked
// out yet. The status decided at check-in is kept.
func (e Engine) CheckOut(existing *attendance.Attendance, in CheckOutInput) (attendance.Attendance, error) {
	if err := requireInside(in.Location, in.Geofence); err != nil {
		return attendance.Attendance{}, err
	}

	if !existing.HasCheckedIn() {
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}

	if existing.HasCheckedOut() {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}

	record := *existing
	now := in.Now
	location := in.Location
	record.CheckOutTime = &now
	record.CheckOutLocation = &location

	return record, nil
}

func requireInside(point geo.Coordinate, fence *setting.Geofence) error {
	within, err := IsWithin(point, fence)
	if err != nil {
		return err
	}
	if !within {
		return attendance.ErrOutOfRange
	}
	return nil
}
