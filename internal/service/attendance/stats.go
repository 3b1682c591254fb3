package attendance

import (
	"math"
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/attendance"
)

const recentWindow = 7 * 24 * time.Hour

type StatsOptions struct {
	// LateCountsAsPresent counts late arrivals toward TotalPresent,
	// PresentPercentage and WeeklyPresent. Off by default.
	LateCountsAsPresent bool
}

type Stats struct {
	TotalRecords      int
	TotalPresent      int
	TotalLate         int
	PresentPercentage int
	WeeklyPresent     int
	TodayStatus       attendance.TodayStatus
}

// ComputeStats aggregates a user's records. today is a calendar date as
// produced by attendance.CalendarDate. Days without a record are not counted
// at all, so they do not lower the percentage.
func ComputeStats(records []attendance.Attendance, today time.Time, opts StatsOptions) Stats {
	var stats Stats
	weekStart := today.Add(-recentWindow)

	var todays *attendance.Attendance
	for i := range records {
		r := &records[i]
		stats.TotalRecords++

		if r.Status == attendance.StatusLate {
			stats.TotalLate++
		}

		counted := r.Status == attendance.StatusPresent ||
			(opts.LateCountsAsPresent && r.Status == attendance.StatusLate)
		if counted {
			stats.TotalPresent++
			if !r.Date.Before(weekStart) {
				stats.WeeklyPresent++
			}
		}

		if todays == nil && r.Date.Equal(today) {
			todays = r
		}
	}

	if stats.TotalRecords > 0 {
		stats.PresentPercentage = int(math.Round(float64(stats.TotalPresent) / float64(stats.TotalRecords) * 100))
	}
	stats.TodayStatus = DeriveTodayStatus(todays)

	return stats
}

// DeriveTodayStatus maps today's record, or its absence, to a TodayStatus.
func DeriveTodayStatus(record *attendance.Attendance) attendance.TodayStatus {
	switch {
	case record.HasCheckedOut():
		return attendance.TodayDone
	case record.HasCheckedIn():
		return attendance.TodayCheckedIn
	default:
		return attendance.TodayNotCheckedIn
	}
}
