package setting

import (
	"math"
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/pkg/geo"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/validator"
)

type UpdateGeofenceRequest struct {
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	RadiusMeters *float64 `json:"radius_meters"`
	LocationName string   `json:"location_name"`
}

func (r *UpdateGeofenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude is required",
		})
	} else if math.IsNaN(*r.Latitude) || *r.Latitude < -90 || *r.Latitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude is required",
		})
	} else if math.IsNaN(*r.Longitude) || *r.Longitude < -180 || *r.Longitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.RadiusMeters == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters is required",
		})
	} else if !(*r.RadiusMeters > 0) || math.IsInf(*r.RadiusMeters, 1) {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: ErrInvalidRadius.Error(),
		})
	}

	if len(r.LocationName) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "location_name",
			Message: "location_name must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToGeofence must only be called after Validate succeeded.
func (r *UpdateGeofenceRequest) ToGeofence() Geofence {
	return Geofence{
		Center:       geo.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude},
		RadiusMeters: *r.RadiusMeters,
		LocationName: r.LocationName,
	}
}

type GeofenceResponse struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	LocationName string  `json:"location_name"`
	UpdatedAt    string  `json:"updated_at"`
}

func NewGeofenceResponse(fence Geofence) GeofenceResponse {
	return GeofenceResponse{
		Latitude:     fence.Center.Latitude,
		Longitude:    fence.Center.Longitude,
		RadiusMeters: fence.RadiusMeters,
		LocationName: fence.LocationName,
		UpdatedAt:    fence.UpdatedAt.Format(time.RFC3339),
	}
}
