package attendance

import (
	"context"

	"github.com/cmlabs-hris/campus-attendance/internal/pkg/geo"
)

// Failure codes a client may report instead of coordinates.
const (
	LocationErrorPermissionDenied = "permission_denied"
	LocationErrorUnavailable      = "unavailable"
	LocationErrorTimeout          = "timeout"
)

var LocationErrorValues = []string{
	LocationErrorPermissionDenied,
	LocationErrorUnavailable,
	LocationErrorTimeout,
}

// LocationProvider turns what the device reported into a coordinate, or
// fails with ErrLocationUnavailable or ErrPermissionDenied.
type LocationProvider interface {
	Locate(ctx context.Context, report LocationReport) (geo.Coordinate, error)
}
