package attendance

import (
	"github.com/cmlabs-hris/campus-attendance/internal/domain/setting"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/geo"
)

// Measure returns the distance from point to the fence centre and whether
// point lies inside the fence. The boundary counts as inside. A nil fence
// fails with setting.ErrSettingsUnavailable.
func Measure(point geo.Coordinate, fence *setting.Geofence) (distance float64, within bool, err error) {
	if fence == nil {
		return 0, false, setting.ErrSettingsUnavailable
	}

	distance, err = geo.Distance(point, fence.Center)
	if err != nil {
		return 0, false, err
	}

	return distance, distance <= fence.RadiusMeters, nil
}

// IsWithin reports whether point lies inside fence.
func IsWithin(point geo.Coordinate, fence *setting.Geofence) (bool, error) {
	_, within, err := Measure(point, fence)
	return within, err
}
