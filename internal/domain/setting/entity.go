package setting

import (
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/pkg/geo"
)

// Geofence is the singleton circular area inside which check-in and
// check-out are allowed.
type Geofence struct {
	Center       geo.Coordinate
	RadiusMeters float64
	LocationName string
	UpdatedAt    time.Time
}
