package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// GetByUserAndDate returns nil, nil when the user has no record for date.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// Upsert writes a record produced by a state transition. A record without
	// a check-out is stored as the day's check-in and fails with
	// ErrAlreadyCheckedIn if one already exists; a record with a check-out
	// fails with ErrAlreadyCheckedOut if the stored one is already closed.
	Upsert(ctx context.Context, a Attendance) (Attendance, error)

	// ListByUser returns a page of the user's records.
	ListByUser(ctx context.Context, userID string, filter MyAttendanceFilter) ([]Attendance, int64, error)

	// ListAllByUser returns every record in [from, to], most recent first. Nil bounds are open.
	ListAllByUser(ctx context.Context, userID string, from, to *time.Time) ([]Attendance, error)

	// List returns records of all users joined with user details.
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
}
