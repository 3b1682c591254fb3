package attendance

import (
	"context"

	"github.com/cmlabs-hris/campus-attendance/internal/pkg/geo"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn records the authenticated user's arrival for today.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut records the authenticated user's departure for today.
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// GetTodayStatus reports today's record and whether check-in or check-out
	// is currently possible. point may be nil.
	GetTodayStatus(ctx context.Context, point *geo.Coordinate) (TodayStatusResponse, error)

	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)
	GetMyDashboard(ctx context.Context) (DashboardResponse, error)

	// ListAttendance retrieves attendance records of all users (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	GetUserStats(ctx context.Context, userID string, filter StatsFilter) (StatsResponse, error)
}
