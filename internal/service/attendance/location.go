package attendance

import (
	"context"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/geo"
)

// ReportedLocation trusts the coordinates the client device sent with the
// request. Coordinates are not range-checked here; the geofence check
// rejects invalid ones.
type ReportedLocation struct{}

func NewReportedLocation() attendance.LocationProvider {
	return ReportedLocation{}
}

// Locate implements attendance.LocationProvider.
func (ReportedLocation) Locate(_ context.Context, report attendance.LocationReport) (geo.Coordinate, error) {
	switch report.LocationError {
	case attendance.LocationErrorPermissionDenied:
		return geo.Coordinate{}, attendance.ErrPermissionDenied
	case attendance.LocationErrorUnavailable, attendance.LocationErrorTimeout:
		return geo.Coordinate{}, attendance.ErrLocationUnavailable
	}

	if report.Latitude == nil || report.Longitude == nil {
		return geo.Coordinate{}, attendance.ErrLocationUnavailable
	}

	return geo.Coordinate{Latitude: *report.Latitude, Longitude: *report.Longitude}, nil
}
